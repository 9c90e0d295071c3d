// Package units splits numeric descriptor tokens into values and unit tags
// and checks that a group of values agrees on a single unit.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultSeparator joins a number and its unit inside one token ("10*mm").
const DefaultSeparator = '*'

var (
	// ErrMalformedNumber is returned when a literal does not parse as a finite float.
	ErrMalformedNumber = errors.New("malformed number")
	// ErrMixedUnits is returned when a unit group does not resolve to exactly one unit.
	ErrMixedUnits = errors.New("mixed units")
)

// Tokens is a tokenized numeric sequence. The three slices are parallel;
// Literals keeps each number as written so Join reproduces the input.
type Tokens struct {
	Numbers  []float64
	Units    []string
	Literals []string
}

// Tokenize splits each token into a number and an optional unit tag.
// A token containing exactly one separator is split around it; anything
// else is read as a bare number. Absent units are reported as "". A
// separator with nothing after it is malformed.
func Tokenize(tokens []string, sep byte) (Tokens, error) {
	t := Tokens{
		Numbers:  make([]float64, 0, len(tokens)),
		Units:    make([]string, 0, len(tokens)),
		Literals: make([]string, 0, len(tokens)),
	}

	for _, tok := range tokens {
		literal, unit := tok, ""
		if strings.Count(tok, string(sep)) == 1 {
			literal, unit, _ = strings.Cut(tok, string(sep))
			if unit == "" {
				return Tokens{}, fmt.Errorf("token %q: %w: missing unit after %q", tok, ErrMalformedNumber, sep)
			}
		}

		v, err := ParseNumber(literal)
		if err != nil {
			return Tokens{}, fmt.Errorf("token %q: %w", tok, err)
		}
		t.Numbers = append(t.Numbers, v)
		t.Units = append(t.Units, unit)
		t.Literals = append(t.Literals, literal)
	}

	return t, nil
}

// Split is Tokenize returning only the numbers and unit tags.
func Split(tokens []string, sep byte) ([]float64, []string, error) {
	t, err := Tokenize(tokens, sep)
	if err != nil {
		return nil, nil, err
	}
	return t.Numbers, t.Units, nil
}

// ParseNumber parses a finite float literal.
func ParseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return v, nil
}

// Single returns the one distinct unit in tags. The unit may be absent ("")
// when no tag in the group carries one. Empty groups and groups with more
// than one distinct value fail with ErrMixedUnits.
func Single(tags []string) (string, error) {
	if len(tags) == 0 {
		return "", fmt.Errorf("%w: empty unit group", ErrMixedUnits)
	}
	for _, u := range tags[1:] {
		if u != tags[0] {
			return "", fmt.Errorf("%w: %s", ErrMixedUnits, describe(tags))
		}
	}
	return tags[0], nil
}

// Join renders the tokens back into separator-joined form, using the
// literals as written.
func (t Tokens) Join(sep byte) []string {
	out := make([]string, len(t.Literals))
	for i, lit := range t.Literals {
		out[i] = lit
		if i < len(t.Units) && t.Units[i] != "" {
			out[i] += string(sep) + t.Units[i]
		}
	}
	return out
}

func describe(tags []string) string {
	parts := make([]string, len(tags))
	for i, u := range tags {
		if u == "" {
			u = "<none>"
		}
		parts[i] = u
	}
	return "[" + strings.Join(parts, " ") + "]"
}
