package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Inspector.Addr != DefaultInspectorAddr {
		t.Errorf("Inspector.Addr = %q, want %q", cfg.Inspector.Addr, DefaultInspectorAddr)
	}
	if !cfg.RebuildOnDrift() {
		t.Error("RebuildOnDrift() should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() without a file: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}

	doc := `
log:
  level: debug
  format: json
metrics:
  namespace: app
  subsystem: ui
reconciler:
  rebuild_on_drift: false
inspector:
  addr: 127.0.0.1:9000
term:
  width: 120
  theme: themes/dark.toml
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err = Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Metrics.Namespace != "app" || cfg.Metrics.Subsystem != "ui" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.RebuildOnDrift() {
		t.Error("RebuildOnDrift() = true, want false")
	}
	if cfg.Tracing.Tracer != DefaultTracer {
		t.Errorf("Tracing.Tracer = %q, want default", cfg.Tracing.Tracer)
	}
	if cfg.Inspector.History != DefaultHistory {
		t.Errorf("Inspector.History = %d, want default", cfg.Inspector.History)
	}
	if want := filepath.Join(dir, "themes/dark.toml"); cfg.ThemePath() != want {
		t.Errorf("ThemePath() = %q, want %q", cfg.ThemePath(), want)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"invalid yaml", "log:\n  level: [", "V040"},
		{"wrong type", "inspector:\n  history: lots\n", "V040"},
		{"bad level", "log:\n  level: loud\n", "V041"},
		{"bad format", "log:\n  format: xml\n", "V041"},
		{"narrow term", "term:\n  width: 2\n", "V041"},
		{"negative history", "inspector:\n  history: -1\n", "V041"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("LoadFile() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() on a missing file should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	off := false

	cfg := New()
	cfg.Log.Level = "warn"
	cfg.Reconciler.RebuildOnDrift = &off
	cfg.Term.Width = 60
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded, cmp.AllowUnexported(Config{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info("dropped")
	log.Warn("kept", "component", "test")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record passed a warn level")
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"component":"test"`) {
		t.Errorf("json output = %q", out)
	}
}
