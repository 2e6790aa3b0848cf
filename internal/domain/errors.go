package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDataFormat   = errors.New("unrecognized data format")
	ErrNotFound     = errors.New("not found")
)

// ErrorKind classifies a DomainError.
type ErrorKind string

const (
	// InvalidInput covers empty price series, non-positive principal or
	// elapsed years, and non-positive prices met during division.
	InvalidInput ErrorKind = "invalid_input"
)

// DomainError reports a calculation that cannot be carried out with the given input.
type DomainError struct {
	Kind         ErrorKind
	Op           string
	Detail       string
	InstrumentID string
	Date         time.Time
}

// NewInvalidInput builds an InvalidInput DomainError for operation op.
func NewInvalidInput(op, format string, args ...any) *DomainError {
	return &DomainError{Kind: InvalidInput, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// WithInstrument attaches the instrument id.
func (e *DomainError) WithInstrument(id string) *DomainError {
	e.InstrumentID = id
	return e
}

// WithDate attaches the offending date.
func (e *DomainError) WithDate(d time.Time) *DomainError {
	e.Date = d
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Detail)
	if e.InstrumentID != "" {
		msg += fmt.Sprintf(" (instrument %s)", e.InstrumentID)
	}
	if !e.Date.IsZero() {
		msg += fmt.Sprintf(" (date %s)", e.Date.Format("2006-01-02"))
	}
	return msg
}

func (e *DomainError) Is(target error) bool {
	return target == ErrInvalidInput && e.Kind == InvalidInput
}

// DataFormatError reports a catalog or history payload in neither recognized shape.
type DataFormatError struct {
	Source string
	Detail string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := fmt.Sprintf("data format error in %s: %s", e.Source, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }

func (e *DataFormatError) Unwrap() error { return e.Err }

// NotFoundError reports that no instrument matches user-entered text.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no instrument matches %q", e.Query)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
