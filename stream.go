package reltkit

import "io"

// Sink is a seekable byte destination with an absolute position.
type Sink interface {
	io.Writer
	io.Seeker
}

// Source is a seekable byte origin with an absolute position.
type Source interface {
	io.Reader
	io.Seeker
}

// SinkSource is a stream that supports both directions, such as a file opened
// for update or an in-memory buffer.
type SinkSource interface {
	io.Reader
	io.Writer
	io.Seeker
}
