package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrDataIntegrity = errors.New("data integrity violation")
)

// DataIntegrityError reports corrupted input state that must stop the
// enclosing pipeline stage. Input names the word or document id that
// triggered it.
type DataIntegrityError struct {
	Op     string
	Input  string
	Reason string
}

// Integrity builds a DataIntegrityError.
func Integrity(op, input, reason string) *DataIntegrityError {
	return &DataIntegrityError{Op: op, Input: input, Reason: reason}
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s: %s (input %q)", e.Op, e.Reason, e.Input)
}

// Is makes errors.Is(err, ErrDataIntegrity) hold for every DataIntegrityError.
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// ItemError is a per-item failure that was logged and skipped.
type ItemError struct {
	Stage string
	Item  string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: skipped %s: %v", e.Stage, e.Item, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// Diagnostics collects recoverable item errors for reporting.
// A nil *Diagnostics is valid and reports nothing.
type Diagnostics struct {
	Items []ItemError
}

// Add records a skipped item.
func (d *Diagnostics) Add(stage, item string, err error) {
	if d == nil {
		return
	}
	d.Items = append(d.Items, ItemError{Stage: stage, Item: item, Err: err})
}

// Merge appends all items of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if d == nil || other == nil {
		return
	}
	d.Items = append(d.Items, other.Items...)
}

// Len returns the number of skipped items.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Items)
}

// Messages renders every item error as a string.
func (d *Diagnostics) Messages() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		out = append(out, item.Error())
	}
	return out
}
