package descriptor

import (
	"errors"
	"fmt"

	"scig/internal/units"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrArity                = errors.New("wrong token count")
	ErrMalformedNumber      = units.ErrMalformedNumber
	ErrMixedUnits           = units.ErrMixedUnits
	ErrInvalidPlaneCount    = errors.New("invalid plane count")
	ErrUnsupportedSolidType = errors.New("unsupported solid type")
	ErrInvalidAxisOrder     = errors.New("invalid axis order")
	ErrUnknownAttribute     = errors.New("unknown attribute")
)

var kinds = []error{
	ErrArity,
	ErrMalformedNumber,
	ErrMixedUnits,
	ErrInvalidPlaneCount,
	ErrUnsupportedSolidType,
	ErrInvalidAxisOrder,
	ErrUnknownAttribute,
}

// ParseError identifies the descriptor field that failed, the shape it was
// expected to have and the raw text that was found.
type ParseError struct {
	Field    string
	Expected string
	Raw      string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %v (expected %s)", e.Field, e.Raw, e.Err, e.Expected)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Kind returns the sentinel error kind wrapped by e, or nil.
func (e *ParseError) Kind() error {
	return KindOf(e)
}

// KindOf returns the sentinel error kind wrapped anywhere in err's chain.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// LineError locates a ParseError inside a descriptor file.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func fieldError(field, expected, raw string, err error) error {
	return &ParseError{Field: field, Expected: expected, Raw: raw, Err: err}
}

func arityError(field, expected, raw string, got int) error {
	return fieldError(field, expected, raw, fmt.Errorf("%w: got %d", ErrArity, got))
}
