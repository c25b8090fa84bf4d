package relt

import (
	"go.uber.org/zap"

	"github.com/wippyai/reltkit"
	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/errors"
)

// Writer is a codec.Writer that tracks pending pointer fields, relocation
// records and the string pool of one serialization pass.
//
// Not safe for concurrent use.
type Writer struct {
	*codec.Writer

	opts    Options
	log     *zap.Logger
	pending []PendingPointer
	keys    map[string][]Ref
	tracker *Tracker
	pool    *stringPool

	poolEmitted  bool
	tableEmitted bool
}

// NewWriter creates a Writer at the sink's current position. Zero-valued
// alignment and magic fields in opts fall back to DefaultOptions.
func NewWriter(s reltkit.Sink, opts Options) *Writer {
	opts = opts.withDefaults()
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Writer{
		Writer:  codec.NewWriter(s, opts.Codec),
		opts:    opts,
		log:     log.Named("relt"),
		keys:    make(map[string][]Ref),
		tracker: NewTracker(),
		pool:    newStringPool(),
	}
}

// Options returns the effective options of the writer.
func (w *Writer) Options() Options {
	return w.opts
}

// Tracker returns the relocation records collected so far.
func (w *Writer) Tracker() *Tracker {
	return w.tracker
}

// Pending returns the reservation behind ref.
func (w *Writer) Pending(ref Ref) (PendingPointer, bool) {
	if ref < 0 || int(ref) >= len(w.pending) {
		return PendingPointer{}, false
	}
	return w.pending[ref], true
}

// Uncommitted returns the number of reservations not committed yet,
// including pooled string references.
func (w *Writer) Uncommitted() int {
	n := 0
	for i := range w.pending {
		if !w.pending[i].committed {
			n++
		}
	}
	return n
}

// Finish commits every outstanding reservation, lays out the string pool and
// writes the relocation table.
func (w *Writer) Finish() error {
	if err := w.CommitAll(); err != nil {
		return err
	}
	if !w.poolEmitted {
		if err := w.EmitStringPool(); err != nil {
			return err
		}
	}
	return w.EmitRelocationTable()
}

func (w *Writer) ref(phase errors.Phase, ref Ref) (*PendingPointer, error) {
	if ref < 0 || int(ref) >= len(w.pending) {
		return nil, errors.InvalidState(phase, "unknown pointer reference %d", int(ref))
	}
	return &w.pending[ref], nil
}
