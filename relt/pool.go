package relt

import (
	"bytes"
	"slices"

	"github.com/ccoveille/go-safecast"
	"github.com/elliotchance/orderedmap/v2"
	"go.uber.org/zap"

	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/errors"
)

type poolEntry struct {
	text    string
	framing codec.StringKind
	refs    []Ref
}

// stringPool indexes interned strings by exact content in first-intern order.
type stringPool struct {
	entries *orderedmap.OrderedMap[string, *poolEntry]
}

func newStringPool() *stringPool {
	return &stringPool{entries: orderedmap.NewOrderedMap[string, *poolEntry]()}
}

// InternString reserves a pointer to s in the string pool, framed with the
// writer's pool string kind. References to equal strings resolve to the same
// pool offset.
func (w *Writer) InternString(s string, kind codec.PtrKind, section int) (Ref, error) {
	return w.InternStringAs(s, kind, w.opts.PoolStringKind, section)
}

// InternStringAs is InternString with an explicit framing. Interning the same
// text with two framings is a conflict.
func (w *Writer) InternStringAs(s string, kind codec.PtrKind, framing codec.StringKind, section int) (Ref, error) {
	if w.poolEmitted {
		return NoRef, errors.InvalidState(errors.PhasePool, "string pool already emitted")
	}
	if !framing.Valid() {
		return NoRef, errors.InvalidEnum(errors.PhasePool, int(framing), "StringKind")
	}

	entry, ok := w.pool.entries.Get(s)
	if ok && entry.framing != framing {
		return NoRef, errors.New(errors.PhasePool, errors.KindConflict).
			Value(s).
			Detail("string interned as %s and %s", entry.framing, framing).
			Build()
	}

	ref, err := w.reserve(kind, nil, ReserveOptions{Section: section}, true)
	if err != nil {
		return NoRef, err
	}
	if !ok {
		entry = &poolEntry{text: s, framing: framing}
		w.pool.entries.Set(s, entry)
	}
	entry.refs = append(entry.refs, ref)
	return ref, nil
}

// PoolLen returns the number of distinct interned strings.
func (w *Writer) PoolLen() int {
	return w.pool.entries.Len()
}

// EmitStringPool writes the pool header and every interned string in sort key
// order, committing the references to each string right before it. It can
// run once per writer.
func (w *Writer) EmitStringPool() error {
	if w.poolEmitted {
		return errors.InvalidState(errors.PhasePool, "string pool already emitted")
	}

	type keyed struct {
		key   []byte
		entry *poolEntry
	}
	order := make([]keyed, 0, w.pool.entries.Len())
	for el := w.pool.entries.Front(); el != nil; el = el.Next() {
		data, err := w.EncodeText(el.Key)
		if err != nil {
			return err
		}
		order = append(order, keyed{key: SortKey(data), entry: el.Value})
	}
	slices.SortStableFunc(order, func(a, b keyed) int {
		return bytes.Compare(a.key, b.key)
	})

	count, err := safecast.ToInt32(len(order) - 1)
	if err != nil {
		return errors.Overflow(errors.PhasePool, errors.NoOffset, len(order), "i32 string count")
	}

	if err := w.Sync(); err != nil {
		return err
	}
	start := w.Position()
	if err := w.WriteBytes(w.opts.PoolMagic); err != nil {
		return err
	}
	if err := w.WriteU32(0); err != nil {
		return err
	}
	if err := w.WriteI64(0); err != nil {
		return err
	}
	if err := w.WriteI32(count); err != nil {
		return err
	}

	refs := 0
	for _, k := range order {
		for _, ref := range k.entry.refs {
			if err := w.commit(ref); err != nil {
				return err
			}
		}
		refs += len(k.entry.refs)
		if err := w.WriteString(k.entry.text, k.entry.framing); err != nil {
			return err
		}
		if err := w.Align(w.opts.PoolAlignment); err != nil {
			return err
		}
	}
	w.poolEmitted = true

	w.log.Debug("emitted string pool",
		zap.Int64("offset", start),
		zap.Int("strings", len(order)),
		zap.Int("references", refs),
		zap.Int64("size", w.Position()-start))
	return nil
}

// SortKey returns the pool ordering key of encoded text: the bits of every
// byte reversed, and the byte sequence reversed.
func SortKey(data []byte) []byte {
	key := make([]byte, len(data))
	for i, b := range data {
		key[len(data)-1-i] = reverseBits(b)
	}
	return key
}

func reverseBits(b byte) byte {
	return byte((uint64(b) * 0x0202020202 & 0x010884422010) % 1023)
}
