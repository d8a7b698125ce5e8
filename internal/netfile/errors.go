package netfile

import (
	"errors"
	"fmt"
)

var (
	ErrMissingValue     = errors.New("reliability value is nil")
	ErrInvalidCharacter = errors.New("character not allowed in XML")
)

// SerializationError is returned by every Build failure. Channel is empty
// when the failure concerns the incoming reliability or the document itself.
type SerializationError struct {
	Op      string
	Channel string
	Err     error
}

func (e *SerializationError) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("netfile: %s channel %q: %v", e.Op, e.Channel, e.Err)
	}
	return fmt.Sprintf("netfile: %s: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
