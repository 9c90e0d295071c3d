package descriptor

import (
	"fmt"
	"strings"

	"scig/internal/units"
)

// Triple is three values in canonical X, Y, Z order sharing one unit.
// Unit is "" when none of the values carried a unit tag.
type Triple struct {
	Values [3]float64
	Units  [3]string
	Unit   string
}

// X returns the first component.
func (t Triple) X() float64 { return t.Values[0] }

// Y returns the second component.
func (t Triple) Y() float64 { return t.Values[1] }

// Z returns the third component.
func (t Triple) Z() float64 { return t.Values[2] }

// Position is a decoded placement of a volume inside its mother.
type Position struct {
	Triple
}

// Rotation is a decoded rotation, always stored in X, Y, Z order.
type Rotation struct {
	Triple
}

// ParsePosition decodes "x y z" where each token may carry a unit.
func ParsePosition(s string, sep byte) (Position, error) {
	tokens := strings.Fields(s)
	if len(tokens) != 3 {
		return Position{}, arityError("position", "3 values", s, len(tokens))
	}
	t, err := parseTriple("position", s, tokens, sep)
	if err != nil {
		return Position{}, err
	}
	return Position{t}, nil
}

// ParseRotation decodes either "x y z" or "<tag> <order> a b c", where
// order is a permutation of "xyz" naming the axis of a, b and c.
func ParseRotation(s string, sep byte) (Rotation, error) {
	tokens := strings.Fields(s)

	var ordered []string
	switch len(tokens) {
	case 3:
		ordered = tokens
	case 5:
		order := strings.ToLower(tokens[1])
		if !isAxisPermutation(order) {
			return Rotation{}, fieldError("rotation", "axis order as a permutation of xyz", s,
				fmt.Errorf("%w: %q", ErrInvalidAxisOrder, tokens[1]))
		}
		ordered = make([]string, 3)
		for i, axis := range order {
			ordered[axis-'x'] = tokens[i+2]
		}
	default:
		return Rotation{}, arityError("rotation", "3 values or an axis order tag followed by 3 values", s, len(tokens))
	}

	t, err := parseTriple("rotation", s, ordered, sep)
	if err != nil {
		return Rotation{}, err
	}
	return Rotation{t}, nil
}

func parseTriple(field, raw string, tokens []string, sep byte) (Triple, error) {
	numbers, tags, err := units.Split(tokens, sep)
	if err != nil {
		return Triple{}, fieldError(field, "numeric values", raw, err)
	}
	unit, err := units.Single(tags)
	if err != nil {
		return Triple{}, fieldError(field, "a single unit", raw, err)
	}

	var t Triple
	copy(t.Values[:], numbers)
	copy(t.Units[:], tags)
	t.Unit = unit
	return t, nil
}

func isAxisPermutation(order string) bool {
	if len(order) != 3 {
		return false
	}
	var seen [3]bool
	for i := 0; i < len(order); i++ {
		c := order[i]
		if c < 'x' || c > 'z' || seen[c-'x'] {
			return false
		}
		seen[c-'x'] = true
	}
	return true
}
