package inspector

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/native/pkg/native"
	"github.com/vango-dev/native/pkg/vdom"
)

// MessageType identifies a feed message.
type MessageType string

const (
	MessageBatch MessageType = "batch"
	MessageTree  MessageType = "tree"
)

// Message is one entry of the patch feed.
type Message struct {
	Type    MessageType `json:"type"`
	ID      string      `json:"id"`
	Seq     uint64      `json:"seq"`
	Time    time.Time   `json:"time"`
	Nodes   int         `json:"nodes"`
	Patches []PatchInfo `json:"patches,omitempty"`
	Result  ResultInfo  `json:"result"`
	Rebuilt bool        `json:"rebuilt,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PatchInfo is the JSON form of a patch. Subtrees are summarised with
// vdom.Describe.
type PatchInfo struct {
	Op    string     `json:"op"`
	Tag   string     `json:"tag,omitempty"`
	Index int        `json:"index"`
	Attrs []AttrInfo `json:"attrs,omitempty"`
	Keep  *int       `json:"keep,omitempty"`
	Nodes []string   `json:"nodes,omitempty"`
	Reuse []int      `json:"reuse,omitempty"`
	Node  string     `json:"node,omitempty"`
}

// AttrInfo is an attribute in a patch.
type AttrInfo struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// ResultInfo mirrors native.Result.
type ResultInfo struct {
	Applied  int `json:"applied"`
	Built    int `json:"built"`
	Reused   int `json:"reused"`
	Skipped  int `json:"skipped"`
	Replaced int `json:"replaced"`
	Released int `json:"released"`
}

func newMessage(t MessageType, seq uint64, b native.Batch) Message {
	m := Message{
		Type:    t,
		ID:      uuid.NewString(),
		Seq:     seq,
		Time:    time.Now().UTC(),
		Nodes:   vdom.Count(b.Next),
		Rebuilt: b.Rebuilt,
		Result: ResultInfo{
			Applied:  b.Result.Applied,
			Built:    b.Result.Built,
			Reused:   b.Result.Reused,
			Skipped:  b.Result.Skipped,
			Replaced: b.Result.Replaced,
			Released: b.Result.Released,
		},
	}
	if b.Err != nil {
		m.Error = b.Err.Error()
	}
	for _, p := range b.Patches {
		m.Patches = append(m.Patches, patchInfo(p))
	}
	return m
}

func patchInfo(p vdom.Patch) PatchInfo {
	info := PatchInfo{Op: p.Op.String(), Index: p.Index}
	if p.Tag != vdom.TagUnknown {
		info.Tag = p.Tag.String()
	}
	switch p.Op {
	case vdom.PatchAddAttributes, vdom.PatchRemoveAttributes:
		for _, a := range p.Attrs {
			ai := AttrInfo{Key: a.Key.String()}
			if p.Op == vdom.PatchAddAttributes {
				ai.Value = attrText(a)
			}
			info.Attrs = append(info.Attrs, ai)
		}
	case vdom.PatchTruncateChildren:
		keep := p.Keep
		info.Keep = &keep
	case vdom.PatchAppendChildren:
		for i, n := range p.Nodes {
			info.Nodes = append(info.Nodes, vdom.Describe(n))
			info.Reuse = append(info.Reuse, p.ReusedAt(i))
		}
	case vdom.PatchReplace:
		info.Node = vdom.Describe(p.Node)
	}
	return info
}

// attrText is an attribute value as shown to inspector clients. Binary
// payloads are reduced to their size.
func attrText(a vdom.Attr) string {
	if a.IsCallback() {
		return "<callback>"
	}
	if a.Key == vdom.AttrKeyData {
		if data, ok := vdom.ValueBytes(a.Value); ok {
			return fmt.Sprintf("<%d bytes>", len(data))
		}
	}
	return vdom.ValueString(a.Value)
}

// Describe converts patches to their JSON form.
func Describe(patches []vdom.Patch) []PatchInfo {
	out := make([]PatchInfo, len(patches))
	for i, p := range patches {
		out[i] = patchInfo(p)
	}
	return out
}
