package relt

import (
	"slices"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"go.uber.org/zap"

	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/errors"
)

const (
	// tableFixedSize is the header after the magic: total length, section
	// count and a reserved word.
	tableFixedSize = 12
	descriptorSize = 24
	entrySize      = 8

	maxTablePrealloc = 1024
)

// Descriptor is the per-section record of a relocation table.
// BasePointer, BaseOffset and DataSize are written as zero.
type Descriptor struct {
	BasePointer int64
	BaseOffset  uint32
	DataSize    uint32
	StartIndex  int32
	Count       int32
}

// Table is a decoded relocation table.
type Table struct {
	Offset      int64
	Length      uint32
	Reserved    uint32
	Descriptors []Descriptor
	Entries     []Entry
}

// SectionEntries returns the entries of the i-th descriptor.
func (t *Table) SectionEntries(i int) []Entry {
	if i < 0 || i >= len(t.Descriptors) {
		return nil
	}
	d := t.Descriptors[i]
	return t.Entries[d.StartIndex : d.StartIndex+d.Count]
}

// Offsets expands the entries of the i-th descriptor into pointer offsets,
// in ascending order.
func (t *Table) Offsets(i int) []int64 {
	var out []int64
	for _, e := range t.SectionEntries(i) {
		out = append(out, e.Offsets()...)
	}
	slices.Sort(out)
	return out
}

// EmitRelocationTable writes the relocation table for every tracked section
// at the current position, sections in ascending id order. All reservations,
// pooled ones included, must be committed first.
func (w *Writer) EmitRelocationTable() error {
	if w.tableEmitted {
		return errors.InvalidState(errors.PhaseTable, "relocation table already emitted")
	}
	if n := w.Uncommitted(); n > 0 {
		return errors.InvalidState(errors.PhaseTable, "%d pointer(s) still uncommitted", n)
	}

	sections := w.tracker.Sections()
	descriptors := make([]Descriptor, len(sections))
	var entries []Entry
	for i, id := range sections {
		se := w.tracker.Entries(id)
		start, err := safecast.ToInt32(len(entries))
		if err != nil {
			return errors.Overflow(errors.PhaseTable, errors.NoOffset, len(entries), "i32 entry index")
		}
		count, err := safecast.ToInt32(len(se))
		if err != nil {
			return errors.Overflow(errors.PhaseTable, errors.NoOffset, len(se), "i32 entry count")
		}
		descriptors[i] = Descriptor{StartIndex: start, Count: count}
		entries = append(entries, se...)
	}

	for _, e := range entries {
		if _, err := safecast.ToUint32(e.Base); err != nil {
			oe := errors.Overflow(errors.PhaseTable, int64(e.Base), e.Base, "u32 relocation base")
			oe.Cause = err
			return oe
		}
	}

	magic := w.opts.TableMagic
	if err := w.Sync(); err != nil {
		return err
	}
	start := w.Position()
	headerSize := len(magic) + tableFixedSize + descriptorSize*len(descriptors)
	if err := w.WriteZeros(headerSize); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.WriteU32(uint32(e.Base)); err != nil {
			return err
		}
		if err := w.WriteU32(e.Flags); err != nil {
			return err
		}
	}

	length, err := safecast.ToUint32(w.Position() - start)
	if err != nil {
		return errors.Overflow(errors.PhaseTable, start, w.Position()-start, "u32 table length")
	}
	sectionCount, err := safecast.ToUint32(len(descriptors))
	if err != nil {
		return errors.Overflow(errors.PhaseTable, start, len(descriptors), "u32 section count")
	}

	err = w.WithTemporarySeek(start, codec.FromStart, func() error {
		if err := w.WriteBytes(magic); err != nil {
			return err
		}
		if err := w.WriteU32(length); err != nil {
			return err
		}
		if err := w.WriteU32(sectionCount); err != nil {
			return err
		}
		if err := w.WriteU32(0); err != nil {
			return err
		}
		for _, d := range descriptors {
			if err := writeDescriptor(w.Writer, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.tableEmitted = true

	w.log.Debug("emitted relocation table",
		zap.Int64("offset", start),
		zap.Uint32("length", length),
		zap.Int("sections", len(descriptors)),
		zap.Int("entries", len(entries)),
		zap.Int("pointers", w.tracker.Len()))
	return nil
}

func writeDescriptor(w *codec.Writer, d Descriptor) error {
	if err := w.WriteI64(d.BasePointer); err != nil {
		return err
	}
	if err := w.WriteU32(d.BaseOffset); err != nil {
		return err
	}
	if err := w.WriteU32(d.DataSize); err != nil {
		return err
	}
	if err := w.WriteI32(d.StartIndex); err != nil {
		return err
	}
	return w.WriteI32(d.Count)
}

func readDescriptor(r *codec.Reader) (Descriptor, error) {
	var d Descriptor
	var err error
	if d.BasePointer, err = r.ReadI64(); err != nil {
		return d, err
	}
	if d.BaseOffset, err = r.ReadU32(); err != nil {
		return d, err
	}
	if d.DataSize, err = r.ReadU32(); err != nil {
		return d, err
	}
	if d.StartIndex, err = r.ReadI32(); err != nil {
		return d, err
	}
	d.Count, err = r.ReadI32()
	return d, err
}

func readEntry(r *codec.Reader) (Entry, error) {
	base, err := r.ReadU32()
	if err != nil {
		return Entry{}, err
	}
	flags, err := r.ReadU32()
	return Entry{Base: uint64(base), Flags: flags}, err
}

// ReadTable decodes a relocation table at the reader's position, tagged with
// opts.TableMagic. The reader is left at the end of the table.
func ReadTable(r *codec.Reader, opts Options) (*Table, error) {
	opts = opts.withDefaults()
	start := r.Position()
	if err := r.ExpectMagic(opts.TableMagic); err != nil {
		return nil, err
	}

	t := &Table{Offset: start}
	var err error
	if t.Length, err = r.ReadU32(); err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if t.Reserved, err = r.ReadU32(); err != nil {
		return nil, err
	}

	headerSize := uint64(len(opts.TableMagic)+tableFixedSize) + uint64(count)*descriptorSize
	if headerSize > uint64(t.Length) {
		return nil, errors.OutOfBounds(errors.PhaseTable, start, headerSize, uint64(t.Length))
	}
	fixed := int64(len(opts.TableMagic) + tableFixedSize)
	rem, err := r.Remaining()
	if err != nil {
		return nil, err
	}
	if body := int64(t.Length) - fixed; body > rem {
		return nil, errors.Truncated(errors.PhaseRead, r.Position(), int(body), int(rem))
	}
	t.Descriptors = make([]Descriptor, 0, min(count, maxTablePrealloc))
	for i := uint32(0); i < count; i++ {
		d, err := readDescriptor(r)
		if err != nil {
			return nil, err
		}
		t.Descriptors = append(t.Descriptors, d)
	}

	total := (uint64(t.Length) - headerSize) / entrySize
	for i, d := range t.Descriptors {
		if d.StartIndex < 0 || d.Count < 0 || uint64(d.StartIndex)+uint64(d.Count) > total {
			return nil, errors.New(errors.PhaseTable, errors.KindOutOfBounds).
				Offset(start).
				Field("descriptors", strconv.Itoa(i)).
				Detail("entries %d+%d exceed the %d entries of the table", d.StartIndex, d.Count, total).
				Build()
		}
	}
	if t.Entries, err = codec.ReadObjects(r, int(total), 0, codec.FromCurrent, readEntry); err != nil {
		return nil, err
	}
	if _, err := r.Seek(start+int64(t.Length), codec.FromStart); err != nil {
		return nil, err
	}
	return t, nil
}
