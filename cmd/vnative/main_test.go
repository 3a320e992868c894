package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/native/internal/inspector"
	"github.com/vango-dev/native/pkg/vdom"
	"github.com/vango-dev/native/pkg/wire"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI with args against an empty config directory.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr, logs bytes.Buffer
	cmd := newRootCmd(&logs)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", t.TempDir(), "--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const oldTree = `
tag: column
children:
  - tag: button
    attrs:
      label: Hello
  - tag: button
    attrs:
      label: Bye
`

const newTree = `
tag: column
children:
  - tag: button
    attrs:
      label: Hello, World
`

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "old.yaml", oldTree)
	next := writeFile(t, dir, "new.yaml", newTree)

	out, errOut, err := run(t, "diff", "--check", prev, next)
	if err != nil {
		t.Fatalf("diff error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("diff printed %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "TruncateChildren(column, 0, keep=1)" {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AddAttributes(button, 1, [label=") {
		t.Errorf("line 2 = %q", lines[1])
	}
	if !strings.Contains(errOut, "round trip ok") {
		t.Errorf("stderr = %q", errOut)
	}

	out, _, err = run(t, "diff", prev, prev)
	if err != nil || strings.TrimSpace(out) != "no changes" {
		t.Errorf("diff of a tree with itself = %q, %v", out, err)
	}
}

func TestDiffCommandJSON(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "old.yaml", oldTree)
	next := writeFile(t, dir, "new.yaml", newTree)

	out, _, err := run(t, "diff", "--json", prev, next)
	if err != nil {
		t.Fatalf("diff error: %v", err)
	}
	var patches []inspector.PatchInfo
	if err := json.Unmarshal([]byte(out), &patches); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(patches) != 2 || patches[0].Op != "TruncateChildren" || patches[1].Attrs[0].Value != "Hello, World" {
		t.Errorf("patches = %+v", patches)
	}
}

func TestDiffCommandWire(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "old.yaml", oldTree)
	next := writeFile(t, dir, "new.yaml", newTree)
	frame := filepath.Join(dir, "patches.bin")

	if _, _, err := run(t, "diff", "--wire", frame, prev, next); err != nil {
		t.Fatalf("diff error: %v", err)
	}
	data, err := os.ReadFile(frame)
	if err != nil {
		t.Fatal(err)
	}
	batch, err := wire.DecodeBatch(data)
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}
	if len(batch.Patches) != 2 || batch.Patches[0].Op != vdom.PatchTruncateChildren {
		t.Errorf("frame patches = %v", batch.Patches)
	}
}

func TestDiffCommandErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", oldTree)
	bad := writeFile(t, dir, "bad.yaml", "tag: column\nchildren:\n  - tag: buttn\n")

	if _, _, err := run(t, "diff", good); err == nil {
		t.Error("diff with one argument should fail")
	}
	_, _, err := run(t, "diff", good, bad)
	if err == nil || !strings.Contains(err.Error(), "V002") {
		t.Errorf("diff with an unknown tag = %v, want V002", err)
	}
	_, _, err = run(t, "diff", good, filepath.Join(dir, "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "V061") {
		t.Errorf("diff with a missing file = %v, want V061", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	steps := writeFile(t, dir, "steps.yaml", `
tag: column
children:
  - tag: checkbox
    attrs:
      label: Remember me
      value: false
---
tag: column
children:
  - tag: checkbox
    attrs:
      label: Remember me
      value: true
  - text: saved
`)

	out, _, err := run(t, "render", "--width", "20", "--patches", steps)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	want := strings.Join([]string{
		"[ ] Remember me",
		"-- step 2 --------",
		"  AppendChildren(column, 0, [text(\"saved\")])",
		"  AddAttributes(checkbox, 1, [value=true])",
		"[x] Remember me",
		"saved",
		"",
	}, "\n")
	if out != want {
		t.Errorf("render output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderCommandTheme(t *testing.T) {
	dir := t.TempDir()
	tree := writeFile(t, dir, "tree.yaml", "tag: button\nattrs:\n  label: Go\n")
	theme := writeFile(t, dir, "theme.toml", "[button]\nleft = \"<\"\nright = \">\"\n")

	out, _, err := run(t, "render", "--theme", theme, tree)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if strings.TrimSpace(out) != "<Go>" {
		t.Errorf("render output = %q, want <Go>", out)
	}

	bad := writeFile(t, dir, "bad.toml", "width = 1\n")
	if _, _, err := run(t, "render", "--theme", bad, tree); err == nil || !strings.Contains(err.Error(), "V042") {
		t.Errorf("render with a bad theme = %v, want V042", err)
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "vnative.yaml", "log:\n  level: shouting\n")

	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "version"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "V041") {
		t.Errorf("bad config = %v, want V041", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}
