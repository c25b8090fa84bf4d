// Package sample writes and reads a small relocatable container: a header
// pointing at an item table whose records reference pooled names, tag lists
// and stat arrays.
package sample

import (
	"github.com/ccoveille/go-safecast"

	"github.com/wippyai/reltkit"
	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/errors"
	"github.com/wippyai/reltkit/relt"
)

// Magic tags the container header.
var Magic = []byte("DEMO")

// Relocation sections used by the container.
const (
	SectionData    = 0
	SectionStrings = 1
)

// Item is one record of the container.
type Item struct {
	ID     uint32
	Weight float32
	Name   string
	Tags   []string
	Stats  []int32
}

// Items returns the records written by the demo.
func Items() []Item {
	return []Item{
		{ID: 1, Weight: 1.5, Name: "sword", Tags: []string{"weapon", "melee"}, Stats: []int32{12, 3}},
		{ID: 2, Weight: 0.25, Name: "potion", Tags: []string{"consumable"}, Stats: []int32{50}},
		{ID: 3, Weight: 4, Name: "shield", Tags: []string{"armor", "melee"}, Stats: []int32{0, 9, -2}},
		{ID: 4, Weight: 0, Name: "key", Tags: nil, Stats: nil},
	}
}

// Write encodes items into s and finishes the pass with the string pool and
// the relocation table.
func Write(s reltkit.Sink, items []Item, opts relt.Options) error {
	w := relt.NewWriter(s, opts)
	count, err := safecast.ToUint32(len(items))
	if err != nil {
		return errors.Overflow(errors.PhaseWrite, w.Position(), len(items), "u32 item count")
	}

	if err := w.WriteBytes(Magic); err != nil {
		return err
	}
	if err := w.WriteU32(count); err != nil {
		return err
	}
	_, err = w.ReservePointer(codec.PtrU64, func(*codec.Writer) error {
		for i := range items {
			if err := writeItem(w, &items[i]); err != nil {
				return err
			}
		}
		return nil
	}, relt.ReserveOptions{Section: SectionData})
	if err != nil {
		return err
	}
	return w.Finish()
}

// writeItem lays out a 40-byte record.
func writeItem(w *relt.Writer, it *Item) error {
	if err := w.WriteU32(it.ID); err != nil {
		return err
	}
	if err := w.WriteF32(it.Weight); err != nil {
		return err
	}
	if _, err := w.InternString(it.Name, codec.PtrU64, SectionStrings); err != nil {
		return err
	}

	tags := it.Tags
	if err := w.WriteU32(uint32(len(tags))); err != nil {
		return err
	}
	if err := w.WriteU32(0); err != nil {
		return err
	}
	_, err := w.ReservePointerIf(len(tags) > 0, codec.PtrU64, func(*codec.Writer) error {
		for _, tag := range tags {
			if _, err := w.InternString(tag, codec.PtrU64, SectionStrings); err != nil {
				return err
			}
		}
		return nil
	}, relt.ReserveOptions{Section: SectionData}, relt.SkipOptions{WriteNull: true})
	if err != nil {
		return err
	}

	stats := it.Stats
	if err := w.WriteU32(uint32(len(stats))); err != nil {
		return err
	}
	_, err = w.ReservePointer(codec.PtrU32, func(cw *codec.Writer) error {
		return codec.WriteObjects(cw, stats, func(cw *codec.Writer, v *int32) error {
			return cw.WriteI32(*v)
		})
	}, relt.ReserveOptions{Key: "stats"})
	return err
}

// Read decodes the items of a container written by Write.
func Read(s reltkit.Source, opts relt.Options) ([]Item, error) {
	r := codec.NewReader(s, opts.Codec)
	if err := r.ExpectMagic(Magic); err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return codec.ReadIndirectArray(r, codec.PtrU64, int(count), codec.FromStart, func(r *codec.Reader) (Item, error) {
		return readItem(r, opts.PoolStringKind)
	})
}

func readItem(r *codec.Reader, framing codec.StringKind) (Item, error) {
	var it Item
	var err error
	readString := func(r *codec.Reader) (string, error) {
		return r.ReadString(framing)
	}

	if it.ID, err = r.ReadU32(); err != nil {
		return it, err
	}
	if it.Weight, err = r.ReadF32(); err != nil {
		return it, err
	}
	if it.Name, err = codec.ReadIndirect(r, codec.PtrU64, codec.FromStart, readString); err != nil {
		return it, err
	}

	tagCount, err := r.ReadU32()
	if err != nil {
		return it, err
	}
	if err := r.Skip(4); err != nil {
		return it, err
	}
	if tagCount > 0 {
		it.Tags, err = codec.ReadIndirectArray(r, codec.PtrU64, int(tagCount), codec.FromStart, func(r *codec.Reader) (string, error) {
			return codec.ReadIndirect(r, codec.PtrU64, codec.FromStart, readString)
		})
		if err != nil {
			return it, err
		}
	} else if err := r.Skip(8); err != nil {
		return it, err
	}

	statCount, err := r.ReadU32()
	if err != nil {
		return it, err
	}
	if statCount > 0 {
		it.Stats, err = codec.ReadIndirectArray(r, codec.PtrU32, int(statCount), codec.FromStart, (*codec.Reader).ReadI32)
	} else {
		err = r.Skip(4)
	}
	return it, err
}
