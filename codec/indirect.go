package codec

// ReadObject decodes a value at offset (relative to whence) and restores the
// cursor afterwards. A zero offset from the current position decodes in place
// and leaves the cursor after the value.
func ReadObject[T any](r *Reader, offset int64, whence Whence, decode func(*Reader) (T, error)) (T, error) {
	if offset == 0 && whence == FromCurrent {
		return decode(r)
	}
	return follow(r, offset, whence, decode)
}

// ReadObjects decodes count consecutive values at offset.
func ReadObjects[T any](r *Reader, count int, offset int64, whence Whence, decode func(*Reader) (T, error)) ([]T, error) {
	return ReadObject(r, offset, whence, func(r *Reader) ([]T, error) {
		return readSeq(r, count, decode)
	})
}

// ReadIndirect reads a pointer field of the given kind and decodes its target.
// With FromStart the pointer is an absolute offset; with FromCurrent it is
// relative to the end of the pointer field. The cursor is left right after
// the pointer field.
func ReadIndirect[T any](r *Reader, kind PtrKind, whence Whence, decode func(*Reader) (T, error)) (T, error) {
	ptr, err := r.ReadPointer(kind)
	if err != nil {
		var zero T
		return zero, err
	}
	return follow(r, ptr, whence, decode)
}

// ReadIndirectFrom reads a pointer field whose value is relative to base.
func ReadIndirectFrom[T any](r *Reader, kind PtrKind, base int64, decode func(*Reader) (T, error)) (T, error) {
	ptr, err := r.ReadPointer(kind)
	if err != nil {
		var zero T
		return zero, err
	}
	return follow(r, base+ptr, FromStart, decode)
}

// ReadIndirectArray reads a pointer field and decodes count consecutive values
// at its target.
func ReadIndirectArray[T any](r *Reader, kind PtrKind, count int, whence Whence, decode func(*Reader) (T, error)) ([]T, error) {
	ptr, err := r.ReadPointer(kind)
	if err != nil {
		return nil, err
	}
	return follow(r, ptr, whence, func(r *Reader) ([]T, error) {
		return readSeq(r, count, decode)
	})
}

// follow decodes at the target and always restores the cursor. A relative
// zero target skips the outbound seek.
func follow[T any](r *Reader, offset int64, whence Whence, decode func(*Reader) (T, error)) (T, error) {
	var v T
	err := r.WithTemporarySeek(offset, whence, func() error {
		var err error
		v, err = decode(r)
		return err
	})
	return v, err
}

// WriteObjects encodes values in order at the current position.
func WriteObjects[T any](w *Writer, values []T, encode func(*Writer, *T) error) error {
	for i := range values {
		if err := encode(w, &values[i]); err != nil {
			return err
		}
	}
	return nil
}

// maxPrealloc caps the capacity reserved from a count read off the input.
const maxPrealloc = 1024

func readSeq[T any](r *Reader, count int, decode func(*Reader) (T, error)) ([]T, error) {
	out := make([]T, 0, max(min(count, maxPrealloc), 0))
	for i := 0; i < count; i++ {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
