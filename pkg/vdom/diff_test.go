package vdom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiffNilRoots(t *testing.T) {
	if patches := Diff(nil, nil); len(patches) != 0 {
		t.Errorf("Expected 0 patches, got %d", len(patches))
	}
	if patches := Diff(Column(), nil); len(patches) != 0 {
		t.Errorf("Expected 0 patches for removed root, got %d", len(patches))
	}
	if patches := Diff(nil, Column()); len(patches) != 0 {
		t.Errorf("Expected 0 patches for added root, got %d", len(patches))
	}
}

func TestDiffIdentical(t *testing.T) {
	tree := sampleTree()

	if patches := Diff(tree, tree); len(patches) != 0 {
		t.Errorf("Diff(T, T) = %v, want no patches", patches)
	}
	if patches := Diff(tree, Clone(tree)); len(patches) != 0 {
		t.Errorf("Diff(T, Clone(T)) = %v, want no patches", patches)
	}

	odd := Column(
		TextArea(Width(math.NaN()), Height(math.Inf(1))),
		Button(Attr{Key: AttrKeyOnClick, Value: func(Event) {}}),
		Button(Attr{Key: AttrKeyValue, Value: float32(math.NaN())}),
	)
	if patches := Diff(odd, odd); len(patches) != 0 {
		t.Errorf("Diff(T, T) with NaN and raw funcs = %v, want no patches", patches)
	}
	if patches := Diff(odd, Clone(odd)); len(patches) != 0 {
		t.Errorf("Diff(T, Clone(T)) with NaN and raw funcs = %v, want no patches", patches)
	}
}

func TestDiffNilChildren(t *testing.T) {
	column := func(children ...*VNode) *VNode {
		return &VNode{Kind: KindElement, Tag: TagColumn, Children: children}
	}
	prev := column(nil, Button(Label("x")))

	if patches := Diff(prev, prev); len(patches) != 0 {
		t.Errorf("Diff(T, T) = %v, want no patches", patches)
	}

	next := column(Button(Label("y")), nil)
	want := []Patch{
		AddAttributes(TagButton, 1, []Attr{Label("y")}),
	}
	if diff := cmp.Diff(want, Diff(prev, next)); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}

	added := Text("z")
	patches := Diff(prev, column(nil, Button(Label("x")), nil, added))
	if len(patches) != 1 || patches[0].Op != PatchAppendChildren {
		t.Fatalf("patches = %v, want a single AppendChildren", patches)
	}
	if len(patches[0].Nodes) != 1 || patches[0].Nodes[0] != added {
		t.Errorf("Nodes = %v, want only the new text", patches[0].Nodes)
	}
}

func TestDiffLabelChanged(t *testing.T) {
	prev := Button(Label("Hello"))
	next := Button(Label("Hello, World"))

	patches := Diff(prev, next)

	want := []Patch{
		AddAttributes(TagButton, 0, []Attr{Label("Hello, World")}),
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffChildRemoved(t *testing.T) {
	prev := Column(
		Button(Label("A")),
		Button(Label("B")),
	)
	next := Column(
		Button(Label("A")),
	)

	patches := Diff(prev, next)

	want := []Patch{TruncateChildren(TagColumn, 0, 1)}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffChildAdded(t *testing.T) {
	prev := Column()
	child := Button(Label("Hi"))
	next := Column(child)

	patches := Diff(prev, next)

	if len(patches) != 1 {
		t.Fatalf("Expected 1 patch, got %d", len(patches))
	}
	p := patches[0]
	if p.Op != PatchAppendChildren {
		t.Errorf("Op = %v, want AppendChildren", p.Op)
	}
	if p.Tag != TagColumn || p.Index != 0 {
		t.Errorf("target = (%v, %d), want (column, 0)", p.Tag, p.Index)
	}
	if len(p.Nodes) != 1 || p.Nodes[0] != child {
		t.Errorf("Nodes = %v, want the new button", p.Nodes)
	}
	if p.ReusedAt(0) != -1 {
		t.Errorf("ReusedAt(0) = %d, want -1", p.ReusedAt(0))
	}
}

func TestDiffTruncationBoundary(t *testing.T) {
	prev := Column(Text("1"), Text("2"), Text("3"), Text("4"), Text("5"))
	next := Column(Text("1"), Text("2"))

	patches := Diff(prev, next)

	truncates, appends := 0, 0
	for _, p := range patches {
		switch p.Op {
		case PatchTruncateChildren:
			truncates++
			if p.Keep != 2 {
				t.Errorf("Keep = %d, want 2", p.Keep)
			}
		case PatchAppendChildren:
			appends++
		}
	}
	if truncates != 1 || appends != 0 {
		t.Errorf("got %d truncates and %d appends, want 1 and 0", truncates, appends)
	}
}

func TestDiffAttributes(t *testing.T) {
	tests := []struct {
		name string
		prev *VNode
		next *VNode
		want []Patch
	}{
		{
			name: "added",
			prev: TextArea(),
			next: TextArea(Value("draft")),
			want: []Patch{AddAttributes(TagTextArea, 0, []Attr{Value("draft")})},
		},
		{
			name: "removed",
			prev: TextArea(Value("draft"), Width(20)),
			next: TextArea(Value("draft")),
			want: []Patch{RemoveAttributes(TagTextArea, 0, []Attr{{Key: AttrKeyWidth}})},
		},
		{
			name: "added and removed",
			prev: Block("Old", Width(10)),
			next: Block("New", Height(5)),
			want: []Patch{
				AddAttributes(TagBlock, 0, []Attr{Title("New"), Height(5)}),
				RemoveAttributes(TagBlock, 0, []Attr{{Key: AttrKeyWidth}}),
			},
		},
		{
			name: "bool value flipped",
			prev: Checkbox(Label("Agree"), Checked(false)),
			next: Checkbox(Label("Agree"), Checked(true)),
			want: []Patch{AddAttributes(TagCheckbox, 0, []Attr{Checked(true)})},
		},
		{
			name: "bytes compared by content",
			prev: Image(Data([]byte{1, 2, 3})),
			next: Image(Data([]byte{1, 2, 3})),
			want: nil,
		},
		{
			name: "bytes changed",
			prev: Image(Data([]byte{1, 2, 3})),
			next: Image(Data([]byte{1, 2, 4})),
			want: []Patch{AddAttributes(TagImage, 0, []Attr{Data([]byte{1, 2, 4})})},
		},
		{
			name: "duplicate keys resolve to the last value",
			prev: Button(Label("A"), Label("B")),
			next: Button(Label("B")),
			want: nil,
		},
		{
			name: "key is not an attribute",
			prev: Button(Key("a"), Label("x")),
			next: Button(Key("b"), Label("x")),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.prev, tt.next)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffCallbacks(t *testing.T) {
	t.Run("identity ignored", func(t *testing.T) {
		prev := Button(OnClick(func(Event) {}))
		next := Button(OnClick(func(Event) {}))
		if patches := Diff(prev, next); len(patches) != 0 {
			t.Errorf("Expected 0 patches, got %v", patches)
		}
	})

	t.Run("added", func(t *testing.T) {
		prev := Button()
		next := Button(OnClick(func(Event) {}))
		patches := Diff(prev, next)
		if len(patches) != 1 || patches[0].Op != PatchAddAttributes {
			t.Fatalf("Expected 1 AddAttributes patch, got %v", patches)
		}
		if !patches[0].Attrs[0].IsCallback() {
			t.Errorf("Expected the callback to be carried in the patch")
		}
	})

	t.Run("removed", func(t *testing.T) {
		prev := Button(OnClick(func(Event) {}))
		next := Button()
		patches := Diff(prev, next)
		if len(patches) != 1 || patches[0].Op != PatchRemoveAttributes {
			t.Fatalf("Expected 1 RemoveAttributes patch, got %v", patches)
		}
		if patches[0].Attrs[0].Key != AttrKeyOnClick {
			t.Errorf("Key = %v, want onclick", patches[0].Attrs[0].Key)
		}
	})
}

func TestDiffReplace(t *testing.T) {
	tests := []struct {
		name string
		prev *VNode
		next *VNode
	}{
		{"tag change", Column(), Row()},
		{"element to text", Button(Label("x")), Text("x")},
		{"text to element", Text("x"), Button(Label("x"))},
		{"text content change", Text("Hello"), Text("World")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patches := Diff(tt.prev, tt.next)
			want := []Patch{Replace(0, tt.next)}
			if diff := cmp.Diff(want, patches); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffReplaceSkipsOldSubtree(t *testing.T) {
	// Old indices: column 0, row 1, button 2, button 3, button 4.
	prev := Column(
		Row(Button(Label("a")), Button(Label("b"))),
		Button(Label("X")),
	)
	next := Column(
		Column(Text("replaced")),
		Button(Label("Y")),
	)

	patches := Diff(prev, next)

	want := []Patch{
		Replace(1, next.Children[0]),
		AddAttributes(TagButton, 4, []Attr{Label("Y")}),
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffNestedIndices(t *testing.T) {
	// Old indices: column 0, row 1, text 2, button 3, row 4, text 5, button 6.
	prev := Column(
		Row(Text("one"), Button(Label("1"))),
		Row(Text("two"), Button(Label("2"))),
	)
	next := Column(
		Row(Text("one"), Button(Label("1"))),
		Row(Text("two"), Button(Label("2!"))),
	)

	patches := Diff(prev, next)

	want := []Patch{AddAttributes(TagButton, 6, []Attr{Label("2!")})}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffUnkeyedReorder(t *testing.T) {
	// Unkeyed children: reordering results in attribute patches in place
	prev := Column(
		Button(Label("A")),
		Button(Label("B")),
	)
	next := Column(
		Button(Label("B")),
		Button(Label("A")),
	)

	patches := Diff(prev, next)

	want := []Patch{
		AddAttributes(TagButton, 1, []Attr{Label("B")}),
		AddAttributes(TagButton, 2, []Attr{Label("A")}),
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffKeyedReorder(t *testing.T) {
	prev := Column(
		Button(Key("a"), Label("A")),
		Button(Key("b"), Label("B")),
		Button(Key("c"), Label("C")),
	)
	next := Column(
		Button(Key("c"), Label("C")),
		Button(Key("a"), Label("A")),
		Button(Key("b"), Label("B")),
	)

	patches := Diff(prev, next)

	if len(patches) != 2 {
		t.Fatalf("Expected 2 patches, got %d: %v", len(patches), patches)
	}
	if patches[0].Op != PatchTruncateChildren || patches[0].Keep != 0 {
		t.Errorf("patch 0 = %v, want TruncateChildren keep=0", patches[0])
	}
	if patches[1].Op != PatchAppendChildren {
		t.Fatalf("patch 1 = %v, want AppendChildren", patches[1])
	}
	if diff := cmp.Diff([]int{2, 0, 1}, patches[1].Reuse); diff != "" {
		t.Errorf("Reuse mismatch (-want +got):\n%s", diff)
	}
	for _, p := range patches {
		if p.Op == PatchReplace {
			t.Errorf("unexpected Replace patch %v", p)
		}
	}
}

func TestDiffKeyedReorderWithChange(t *testing.T) {
	prev := Column(
		Button(Key("a"), Label("A")),
		Button(Key("b"), Label("B")),
	)
	next := Column(
		Button(Key("b"), Label("B*")),
		Button(Key("a"), Label("A")),
	)

	patches := Diff(prev, next)

	if len(patches) != 3 {
		t.Fatalf("Expected 3 patches, got %d: %v", len(patches), patches)
	}
	// The changed child is addressed by its position in the old tree.
	want := AddAttributes(TagButton, 2, []Attr{Label("B*")})
	if diff := cmp.Diff(want, patches[2]); diff != "" {
		t.Errorf("patch 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffKeyedAddition(t *testing.T) {
	prev := Column(
		Button(Key("a"), Label("A")),
		Button(Key("c"), Label("C")),
	)
	next := Column(
		Button(Key("a"), Label("A")),
		Button(Key("b"), Label("B")),
		Button(Key("c"), Label("C")),
	)

	patches := Diff(prev, next)

	if len(patches) != 2 {
		t.Fatalf("Expected 2 patches, got %d: %v", len(patches), patches)
	}
	if patches[0].Op != PatchTruncateChildren || patches[0].Keep != 1 {
		t.Errorf("patch 0 = %v, want TruncateChildren keep=1", patches[0])
	}
	if diff := cmp.Diff([]int{-1, 1}, patches[1].Reuse); diff != "" {
		t.Errorf("Reuse mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffKeyedRemoval(t *testing.T) {
	prev := Column(
		Button(Key("a"), Label("A")),
		Button(Key("b"), Label("B")),
		Button(Key("c"), Label("C")),
	)
	next := Column(
		Button(Key("a"), Label("A")),
		Button(Key("b"), Label("B")),
	)

	patches := Diff(prev, next)

	want := []Patch{TruncateChildren(TagColumn, 0, 2)}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffKeyedTagMismatch(t *testing.T) {
	prev := Column(
		Button(Key("a"), Label("A")),
	)
	next := Column(
		Checkbox(Key("a"), Label("A")),
	)

	patches := Diff(prev, next)

	want := []Patch{Replace(1, next.Children[0])}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffMixedKeyedChildren(t *testing.T) {
	// Old indices: column 0, a 1, x 2, y 3.
	prev := Column(
		Button(Key("a"), Label("A")),
		Button(Label("x")),
		Button(Label("y")),
	)
	next := Column(
		Button(Label("x2")),
		Button(Key("a"), Label("A")),
	)

	patches := Diff(prev, next)

	if len(patches) != 3 {
		t.Fatalf("Expected 3 patches, got %d: %v", len(patches), patches)
	}
	if patches[0].Op != PatchTruncateChildren || patches[0].Keep != 0 {
		t.Errorf("patch 0 = %v, want TruncateChildren keep=0", patches[0])
	}
	// x pairs with the first unkeyed old child, a pairs by key; y is dropped.
	if diff := cmp.Diff([]int{1, 0}, patches[1].Reuse); diff != "" {
		t.Errorf("Reuse mismatch (-want +got):\n%s", diff)
	}
	want := AddAttributes(TagButton, 2, []Attr{Label("x2")})
	if diff := cmp.Diff(want, patches[2]); diff != "" {
		t.Errorf("patch 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffUnmatchedKeyIsRebuilt(t *testing.T) {
	tests := []struct {
		name       string
		prev, next *VNode
		reuse      []int
	}{
		{
			name:  "renamed key",
			prev:  Column(Button(Key("a"), Label("A")), Button(Label("x"))),
			next:  Column(Button(Key("b"), Label("A")), Button(Label("x"))),
			reuse: []int{-1, 1},
		},
		{
			name:  "key dropped",
			prev:  Column(Button(Key("a"), Label("A"))),
			next:  Column(Button(Label("A"))),
			reuse: []int{-1},
		},
		{
			name:  "key added",
			prev:  Column(Button(Label("A"))),
			next:  Column(Button(Key("a"), Label("A"))),
			reuse: []int{-1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patches := Diff(tt.prev, tt.next)
			if len(patches) != 2 {
				t.Fatalf("Expected 2 patches, got %d: %v", len(patches), patches)
			}
			if patches[0].Op != PatchTruncateChildren || patches[0].Keep != 0 {
				t.Errorf("patch 0 = %v, want TruncateChildren keep=0", patches[0])
			}
			if patches[1].Op != PatchAppendChildren {
				t.Fatalf("patch 1 = %v, want AppendChildren", patches[1])
			}
			if diff := cmp.Diff(tt.reuse, patches[1].Reuse); diff != "" {
				t.Errorf("Reuse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffDuplicateKeys(t *testing.T) {
	prev := Column(
		Button(Key("k"), Label("1")),
		Button(Key("k"), Label("2")),
	)
	next := Column(
		Button(Key("k"), Label("1")),
	)

	patches := Diff(prev, next)

	want := []Patch{TruncateChildren(TagColumn, 0, 1)}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	prev := sampleTree()
	next := Column(
		Row(Button(Key("2"), Label("two")), Button(Key("1"), Label("one"))),
		Paragraph(Value("changed")),
	)
	prevCopy, nextCopy := Clone(prev), Clone(next)

	_ = Diff(prev, next)

	opts := cmp.Comparer(func(a, b Callback) bool { return (a == nil) == (b == nil) })
	if diff := cmp.Diff(prevCopy, prev, opts); diff != "" {
		t.Errorf("prev mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(nextCopy, next, opts); diff != "" {
		t.Errorf("next mutated (-want +got):\n%s", diff)
	}
}

func TestDiffPatchesInIndexOrder(t *testing.T) {
	prev := Column(
		Row(Button(Label("a")), Text("t"), Button(Key("k"), Label("k"))),
		Block("b", Text("one"), Text("two"), Text("three")),
		Paragraph(Value("p")),
	)
	next := Column(
		Row(Button(Label("a!")), Text("t!")),
		Block("b!", Text("one"), Checkbox(Label("c"))),
		Paragraph(Value("p!")),
		Button(Label("new")),
	)

	patches := Diff(prev, next)

	if len(patches) == 0 {
		t.Fatal("Expected patches")
	}
	for i := 1; i < len(patches); i++ {
		if patches[i].Index < patches[i-1].Index {
			t.Errorf("patch %d (%v) comes after higher index patch %v", i, patches[i], patches[i-1])
		}
	}
}

// sampleTree mirrors a typical form: a header row and a paragraph.
func sampleTree() *VNode {
	return Column(
		Row(
			Button(Key("1"), Label("one"), OnClick(func(Event) {})),
			Button(Key("2"), Label("two")),
		),
		Paragraph(Value("body")),
	)
}
