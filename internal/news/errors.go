package news

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField is the sentinel wrapped by every MissingFieldError.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError reports a raw article without a title or source.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v %q at index %d", ErrMissingField, e.Field, e.Index)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// BatchError collects per-article failures when processing with PolicyCollect.
type BatchError struct {
	Total  int
	Errors []error
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d of %d articles failed: %s", len(e.Errors), e.Total, strings.Join(msgs, "; "))
}

func (e *BatchError) Unwrap() []error {
	return e.Errors
}
