package codec

import (
	"errors"
	"fmt"
)

var ErrMalformedRecord = errors.New("malformed record")

// MalformedError pins a decode or encode failure to the field and offset
// where the buffer stopped matching its layout.
type MalformedError struct {
	Record string
	Field  string
	Offset int
	Need   int
	Have   int
}

func (e *MalformedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s %s at offset %d needs %d bytes, have %d",
		ErrMalformedRecord, e.Record, e.Field, e.Offset, e.Need, e.Have)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedRecord
}

func malformed(record, field string, offset, need, have int) error {
	return &MalformedError{Record: record, Field: field, Offset: offset, Need: need, Have: have}
}
