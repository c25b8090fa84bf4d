package relt

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/errors"
)

// Ref identifies a reserved pointer field within one Writer.
type Ref int

// NoRef is returned for reservations that were skipped. Committing it is a
// no-op.
const NoRef Ref = -1

// PointeeFunc writes the data a pointer field refers to. It runs at the
// commit position, right after the placeholder has been patched.
type PointeeFunc func(w *codec.Writer) error

// PendingPointer is a reserved pointer field waiting for its target.
type PendingPointer struct {
	Offset  int64
	Kind    codec.PtrKind
	Section int
	Key     string

	write     PointeeFunc
	pooled    bool
	committed bool
}

// Committed reports whether the placeholder has been patched.
func (p PendingPointer) Committed() bool {
	return p.committed
}

// ReserveOptions places a reservation in a relocation section and optionally
// groups it under a key for CommitKey.
type ReserveOptions struct {
	Section int
	Key     string
}

// SkipOptions controls what ReservePointerIf writes when the condition is
// false.
type SkipOptions struct {
	// WriteNull writes a zero field of the pointer width.
	WriteNull bool
	// Register records the zero field as a relocation when it is 8 bytes wide.
	Register bool
}

// ReservePointer writes a zeroed field of the given kind at the current
// position and returns a reference to commit later. write may be nil.
func (w *Writer) ReservePointer(kind codec.PtrKind, write PointeeFunc, opts ReserveOptions) (Ref, error) {
	return w.reserve(kind, write, opts, false)
}

// ReservePointerIf reserves a pointer when cond holds. Otherwise it writes
// what skip asks for and returns NoRef.
func (w *Writer) ReservePointerIf(cond bool, kind codec.PtrKind, write PointeeFunc, opts ReserveOptions, skip SkipOptions) (Ref, error) {
	if cond {
		return w.ReservePointer(kind, write, opts)
	}
	if err := kind.Validate(); err != nil {
		return NoRef, err
	}
	if !skip.WriteNull {
		return NoRef, nil
	}
	offset := w.Position()
	if err := w.WriteZeros(kind.Size()); err != nil {
		return NoRef, err
	}
	if skip.Register && kind.Relocatable() {
		w.tracker.Register(opts.Section, offset)
	}
	return NoRef, nil
}

// ReserveString reserves a pointer to s, written inline with the given
// framing when the pointer is committed.
func (w *Writer) ReserveString(s string, kind codec.PtrKind, framing codec.StringKind, opts ReserveOptions) (Ref, error) {
	if !framing.Valid() {
		return NoRef, errors.InvalidEnum(errors.PhaseWrite, int(framing), "StringKind")
	}
	return w.ReservePointer(kind, func(cw *codec.Writer) error {
		return cw.WriteString(s, framing)
	}, opts)
}

func (w *Writer) reserve(kind codec.PtrKind, write PointeeFunc, opts ReserveOptions, pooled bool) (Ref, error) {
	if err := kind.Validate(); err != nil {
		return NoRef, err
	}
	offset := w.Position()
	if err := w.WriteZeros(kind.Size()); err != nil {
		return NoRef, err
	}

	ref := Ref(len(w.pending))
	w.pending = append(w.pending, PendingPointer{
		Offset:  offset,
		Kind:    kind,
		Section: opts.Section,
		Key:     opts.Key,
		write:   write,
		pooled:  pooled,
	})
	if opts.Key != "" {
		w.keys[opts.Key] = append(w.keys[opts.Key], ref)
	}
	if kind.Relocatable() {
		w.tracker.AddSection(opts.Section)
	}

	w.log.Debug("reserved pointer",
		zap.Int("ref", int(ref)),
		zap.Int64("offset", offset),
		zap.Stringer("kind", kind),
		zap.Int("section", opts.Section))
	return ref, nil
}

// Commit patches the placeholder of ref with the current position and then
// runs the pointee writer there. If the position does not fit the pointer
// width, the placeholder is left as is and ref stays pending.
//
// Pooled string references are committed by EmitStringPool.
func (w *Writer) Commit(ref Ref) error {
	if ref == NoRef {
		return nil
	}
	p, err := w.ref(errors.PhaseCommit, ref)
	if err != nil {
		return err
	}
	if p.pooled {
		return errors.InvalidState(errors.PhaseCommit, "pointer %d refers to a pooled string", int(ref))
	}
	return w.commit(ref)
}

// CommitKey commits the pending reservations grouped under key, in
// reservation order.
func (w *Writer) CommitKey(key string) error {
	refs, ok := w.keys[key]
	if !ok {
		return errors.InvalidState(errors.PhaseCommit, "no reservations under key %q", key)
	}
	for _, ref := range refs {
		if w.pending[ref].committed {
			continue
		}
		if err := w.Commit(ref); err != nil {
			return err
		}
	}
	delete(w.keys, key)
	return nil
}

// CommitAll commits every pending non-pooled reservation in reservation
// order, including the ones reserved by pointee writers along the way.
func (w *Writer) CommitAll() error {
	for i := 0; i < len(w.pending); i++ {
		p := &w.pending[i]
		if p.committed || p.pooled {
			continue
		}
		if err := w.commit(Ref(i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) commit(ref Ref) error {
	p := &w.pending[ref]
	if p.committed {
		return errors.InvalidState(errors.PhaseCommit, "pointer %d already committed", int(ref))
	}

	if err := w.Sync(); err != nil {
		return err
	}
	target := w.Position()
	if _, err := p.Kind.Narrow(target); err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			e.Offset = p.Offset
		}
		return err
	}

	err := w.WithTemporarySeek(p.Offset, codec.FromStart, func() error {
		return w.WritePointer(p.Kind, target)
	})
	if err != nil {
		return err
	}
	if p.Kind.Relocatable() {
		w.tracker.Register(p.Section, p.Offset)
	}
	p.committed = true

	w.log.Debug("committed pointer",
		zap.Int("ref", int(ref)),
		zap.Int64("offset", p.Offset),
		zap.Int64("target", target),
		zap.Stringer("kind", p.Kind),
		zap.Int("section", p.Section))

	if p.write == nil {
		return nil
	}
	return p.write(w.Writer)
}
