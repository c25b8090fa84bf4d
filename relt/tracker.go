package relt

import (
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Tracker records the absolute offsets of 8-byte pointer fields, grouped by
// section. Offsets are deduplicated and kept in ascending order.
type Tracker struct {
	sections map[int]*roaring64.Bitmap
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{sections: make(map[int]*roaring64.Bitmap)}
}

// AddSection makes section part of the table even if it never receives an
// offset.
func (t *Tracker) AddSection(section int) {
	if _, ok := t.sections[section]; !ok {
		t.sections[section] = roaring64.New()
	}
}

// Register records a pointer field at offset in section.
func (t *Tracker) Register(section int, offset int64) {
	t.AddSection(section)
	t.sections[section].Add(uint64(offset))
}

// Contains reports whether offset is recorded in section.
func (t *Tracker) Contains(section int, offset int64) bool {
	set, ok := t.sections[section]
	return ok && set.Contains(uint64(offset))
}

// Sections returns the section ids in ascending order.
func (t *Tracker) Sections() []int {
	return slices.Sorted(maps.Keys(t.sections))
}

// Offsets returns the offsets recorded in section in ascending order.
func (t *Tracker) Offsets(section int) []int64 {
	set, ok := t.sections[section]
	if !ok {
		return nil
	}
	out := make([]int64, 0, set.GetCardinality())
	it := set.Iterator()
	for it.HasNext() {
		out = append(out, int64(it.Next()))
	}
	return out
}

// Len returns the number of recorded offsets across all sections.
func (t *Tracker) Len() int {
	n := 0
	for _, set := range t.sections {
		n += int(set.GetCardinality())
	}
	return n
}

// Entries compresses the offsets of section into relocation entries.
func (t *Tracker) Entries(section int) []Entry {
	set, ok := t.sections[section]
	if !ok {
		return nil
	}
	return cluster(set)
}

// Entry is one relocation record: a pointer at Base and, for every set bit i
// of Flags (1 <= i <= 31), another pointer at Base + 8*i. Bit 0 stands for
// Base itself and is never set, so {0, 8, 16} encodes as (0, 0b110).
type Entry struct {
	Base  uint64
	Flags uint32
}

// maxClusterSlot is the highest flag bit a cluster can use.
const maxClusterSlot = 31

// Offsets expands the entry into the pointer offsets it covers.
func (e Entry) Offsets() []int64 {
	out := []int64{int64(e.Base)}
	for i := 1; i <= maxClusterSlot; i++ {
		if e.Flags&(1<<i) != 0 {
			out = append(out, int64(e.Base)+8*int64(i))
		}
	}
	return out
}

// cluster greedily packs offsets: the smallest remaining offset becomes the
// head of a cluster that absorbs every remaining offset at 8-byte steps of up
// to 31 slots after it.
func cluster(set *roaring64.Bitmap) []Entry {
	rem := set.Clone()
	var out []Entry
	for !rem.IsEmpty() {
		base := rem.Minimum()
		rem.Remove(base)
		var flags uint32
		for i := uint64(1); i <= maxClusterSlot; i++ {
			if next := base + 8*i; rem.Contains(next) {
				flags |= 1 << i
				rem.Remove(next)
			}
		}
		out = append(out, Entry{Base: base, Flags: flags})
	}
	return out
}
