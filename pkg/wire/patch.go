package wire

import (
	"errors"
	"fmt"

	"github.com/vango-dev/native/pkg/vdom"
)

// Version is the frame format version written by EncodeBatch.
const Version byte = 1

// ErrVersion is returned for frames written by an unknown format version.
var ErrVersion = errors.New("wire: unsupported frame version")

// Batch is one frame: the patches of a single update, in apply order.
type Batch struct {
	Seq     uint64
	Patches []vdom.Patch
}

// EncodeBatch encodes b as a frame.
func EncodeBatch(b Batch) []byte {
	e := NewEncoder()
	EncodeBatchTo(e, b)
	return e.Bytes()
}

// EncodeBatchTo appends the frame for b to e.
func EncodeBatchTo(e *Encoder, b Batch) {
	e.WriteByte(Version)
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Patches)))
	for i := range b.Patches {
		encodePatch(e, &b.Patches[i])
	}
}

func encodePatch(e *Encoder, p *vdom.Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteByte(byte(p.Tag))
	e.WriteSvarint(int64(p.Index))

	switch p.Op {
	case vdom.PatchAddAttributes:
		encodeAttrs(e, p.Attrs)
	case vdom.PatchRemoveAttributes:
		e.WriteUvarint(uint64(len(p.Attrs)))
		for _, a := range p.Attrs {
			e.WriteByte(byte(a.Key))
		}
	case vdom.PatchTruncateChildren:
		e.WriteUvarint(uint64(p.Keep))
	case vdom.PatchAppendChildren:
		e.WriteUvarint(uint64(len(p.Nodes)))
		for i, n := range p.Nodes {
			EncodeNode(e, n)
			e.WriteSvarint(int64(p.ReusedAt(i)))
		}
	case vdom.PatchReplace:
		EncodeNode(e, p.Node)
	}
}

// DecodeBatch decodes a frame written by EncodeBatch. Trailing bytes are an
// error.
func DecodeBatch(data []byte, opts ...Option) (Batch, error) {
	d := NewDecoder(data)
	r := newReader(opts)

	version, err := d.ReadByte()
	if err != nil {
		return Batch{}, err
	}
	if version != Version {
		return Batch{}, fmt.Errorf("%w: %d", ErrVersion, version)
	}

	var b Batch
	if b.Seq, err = d.ReadUvarint(); err != nil {
		return Batch{}, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return Batch{}, err
	}
	b.Patches = make([]vdom.Patch, 0, count)
	for i := 0; i < count; i++ {
		p, err := r.patch(d)
		if err != nil {
			return Batch{}, fmt.Errorf("patch %d: %w", i, err)
		}
		b.Patches = append(b.Patches, p)
	}
	if !d.EOF() {
		return Batch{}, fmt.Errorf("wire: %d trailing bytes", d.Remaining())
	}
	return b, nil
}

func (r *reader) patch(d *Decoder) (vdom.Patch, error) {
	var p vdom.Patch
	op, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Op = vdom.PatchOp(op)
	tag, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Tag = vdom.Tag(tag)
	index, err := d.ReadSvarint()
	if err != nil {
		return p, err
	}
	if index < 0 || index > MaxCollectionCount*MaxNodeDepth {
		return p, fmt.Errorf("wire: index %d out of range", index)
	}
	p.Index = int(index)

	switch p.Op {
	case vdom.PatchAddAttributes:
		p.Attrs, err = r.attrs(d, true)
	case vdom.PatchRemoveAttributes:
		p.Attrs, err = r.attrs(d, false)
	case vdom.PatchTruncateChildren:
		var keep uint64
		keep, err = d.ReadUvarint()
		if err == nil && keep > MaxCollectionCount {
			err = ErrCollectionTooLarge
		}
		p.Keep = int(keep)
	case vdom.PatchAppendChildren:
		err = r.appended(d, &p)
	case vdom.PatchReplace:
		p.Node, err = r.node(d, 0)
		if err == nil && p.Node == nil {
			err = errors.New("wire: replace without a node")
		}
	default:
		err = fmt.Errorf("wire: unknown op 0x%02x", op)
	}
	return p, err
}

func (r *reader) appended(d *Decoder, p *vdom.Patch) error {
	count, err := d.ReadCollectionCount()
	if err != nil {
		return err
	}
	p.Nodes = make([]*vdom.VNode, 0, count)
	p.Reuse = make([]int, 0, count)
	for i := 0; i < count; i++ {
		node, err := r.node(d, 0)
		if err != nil {
			return err
		}
		if node == nil {
			return fmt.Errorf("wire: appended node %d is null", i)
		}
		from, err := d.ReadSvarint()
		if err != nil {
			return err
		}
		if from < -1 || from > MaxCollectionCount {
			return fmt.Errorf("wire: reuse position %d out of range", from)
		}
		p.Nodes = append(p.Nodes, node)
		p.Reuse = append(p.Reuse, int(from))
	}
	return nil
}
