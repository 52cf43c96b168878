// Package tdf implements the Blaze "Tagged Data Format" wire codec: typed,
// self-describing binary values and the packet frame that carries them.
package tdf

import "fmt"

// CodecError is returned for any malformed TDF value or frame. It carries
// the byte offset and the type that was expected, so a caller can log a
// useful diagnostic without re-deriving the failure from scratch.
type CodecError struct {
	Offset   int
	Expected string
	Msg      string
}

func (e *CodecError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("tdf: %s at offset %d (expected %s)", e.Msg, e.Offset, e.Expected)
	}
	return fmt.Sprintf("tdf: %s at offset %d", e.Msg, e.Offset)
}

func newErr(offset int, expected, msg string) error {
	return &CodecError{Offset: offset, Expected: expected, Msg: msg}
}
