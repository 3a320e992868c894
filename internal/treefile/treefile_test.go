package treefile

import (
	"bytes"
	stderrors "errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/native/internal/errors"
	"github.com/vango-dev/native/pkg/vdom"
)

var callbackPresence = cmp.Comparer(func(a, b vdom.Callback) bool {
	return (a == nil) == (b == nil)
})

func TestDecode(t *testing.T) {
	doc := `
tag: column
attrs:
  key: root
  width: 40
children:
  - tag: button
    attrs:
      label: Save
      onclick: true
      disabled: false
  - tag: checkbox
    attrs:
      label: Remember
      value: true
  - tag: text_input
    attrs:
      value: "42"
      oninput: false
  - tag: svg
    attrs:
      data: "<svg/>"
  - text: ready
  - plain
`
	got, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	want := vdom.Column(vdom.Key("root"), vdom.Width(40),
		vdom.Button(vdom.Label("Save"), vdom.OnClick(func(vdom.Event) {}), vdom.Disabled(false)),
		vdom.Checkbox(vdom.Label("Remember"), vdom.Checked(true)),
		vdom.TextInput(vdom.Value("42")),
		vdom.Svg(vdom.Data([]byte("<svg/>"))),
		vdom.Text("ready"),
		vdom.Text("plain"),
	)
	if diff := cmp.Diff(want, got, callbackPresence); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCallbacks(t *testing.T) {
	var fired []vdom.AttrKey
	factory := func(key vdom.AttrKey) vdom.Callback {
		return func(vdom.Event) { fired = append(fired, key) }
	}

	node, err := Decode([]byte("tag: text_area\nattrs:\n  oninput: true\n  onchange: true\n"), WithCallbacks(factory))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	for _, key := range []vdom.AttrKey{vdom.AttrKeyOnInput, vdom.AttrKeyOnChange} {
		cb, ok := vdom.FindCallback(node.Attrs, key)
		if !ok {
			t.Fatalf("%s not attached", key)
		}
		cb(vdom.Event{})
	}
	if diff := cmp.Diff([]vdom.AttrKey{vdom.AttrKeyOnInput, vdom.AttrKeyOnChange}, fired); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
		line int
	}{
		{"not yaml", "tag: [", "V001", 0},
		{"empty", "", "V001", 0},
		{"sequence root", "- a\n- b\n", "V001", 1},
		{"unknown tag", "tag: column\nchildren:\n  - tag: buton\n", "V002", 3},
		{"unknown attr", "tag: button\nattrs:\n  class: x\n", "V003", 3},
		{"bad width", "tag: image\nattrs:\n  width: wide\n", "V004", 3},
		{"bad callback", "tag: button\nattrs:\n  onclick: maybe\n", "V004", 3},
		{"unknown field", "tag: row\nstyle: x\n", "V001", 2},
		{"text with tag", "text: a\ntag: row\n", "V001", 1},
		{"void with children", "tag: button\nchildren:\n  - text: x\n", "V001", 3},
		{"no tag", "attrs: {}\n", "V001", 1},
		{"missing data file", "tag: image\nattrs:\n  data: \"@nope.png\"\n", "V004", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), WithBaseDir(t.TempDir()))
			if err == nil {
				t.Fatal("Decode() expected error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if e.Code != tt.code {
				t.Errorf("Code = %s, want %s (%v)", e.Code, tt.code, err)
			}
			if tt.line > 0 && (e.Location == nil || e.Location.Line != tt.line) {
				t.Errorf("Location = %v, want line %d", e.Location, tt.line)
			}
		})
	}
}

func TestLoadResolvesDataFiles(t *testing.T) {
	dir := t.TempDir()
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dot.png"), img.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "tree.yaml")
	if err := os.WriteFile(path, []byte("tag: image\nattrs:\n  data: \"@dot.png\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	node, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	data, _ := vdom.FindValue(node.Attrs, vdom.AttrKeyData)
	if !bytes.Equal(data.([]byte), img.Bytes()) {
		t.Error("data was not read from dot.png")
	}
}

func TestLoadAllAndLocations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	doc := "tag: column\n---\ntag: row\n---\ntag: column\nchildren:\n  - tag: nope\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAll(path)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "V002" {
		t.Fatalf("LoadAll() error = %v, want V002", err)
	}
	if e.Location.File != path || e.Location.Line != 7 {
		t.Errorf("Location = %v, want %s:7", e.Location, path)
	}
	if len(e.Context) == 0 {
		t.Error("Context not read from the fixture")
	}

	if err := os.WriteFile(path, []byte(doc[:strings.Index(doc, "\n---\ntag: column\nchildren")]), 0o644); err != nil {
		t.Fatal(err)
	}
	trees, err := LoadAll(path)
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(trees) != 2 || trees[1].Tag != vdom.TagRow {
		t.Errorf("LoadAll() = %d trees", len(trees))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() on a missing file should fail")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	trees := []*vdom.VNode{
		vdom.Column(vdom.Key("k"), vdom.Size(10, 2.5),
			vdom.Block("Settings",
				vdom.Checkbox(vdom.Label("true"), vdom.Checked(false)),
				vdom.Radio(vdom.Label("b"), vdom.OnChange(func(vdom.Event) {})),
			),
			vdom.Paragraph(vdom.Value("multi\nline")),
			vdom.Image(vdom.Data([]byte{0x89, 'P', 'N', 'G', 0xff})),
			vdom.Svg(vdom.Data([]byte("@not-a-file"))),
			vdom.Text("tail"),
		),
		vdom.Row(),
	}

	data, err := Encode(trees...)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := DecodeAll(data)
	if err != nil {
		t.Fatalf("DecodeAll() error: %v\n%s", err, data)
	}
	if diff := cmp.Diff(trees, got, callbackPresence); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, data)
	}
	if !strings.Contains(string(data), "width: 10\n") {
		t.Errorf("integral width not written plainly:\n%s", data)
	}
}
