package descriptor

import (
	"strconv"
	"strings"
)

// Identifier holds the raw tokens of the identifier field, normally
// alternating names and numbers ("sector 2 paddle 14").
type Identifier struct {
	Tokens []string
}

// ParseIdentifier splits the identifier field on whitespace.
func ParseIdentifier(s string) Identifier {
	return Identifier{Tokens: strings.Fields(s)}
}

// String renders name/number pairs as "sector: 2, paddle: 14". A trailing
// unpaired token is appended on its own.
func (id Identifier) String() string {
	var pairs []string
	for i := 0; i < len(id.Tokens); i += 2 {
		if i+1 < len(id.Tokens) {
			pairs = append(pairs, id.Tokens[i]+": "+id.Tokens[i+1])
		} else {
			pairs = append(pairs, id.Tokens[i])
		}
	}
	return strings.Join(pairs, ", ")
}

// Expand substitutes {0}, {1}, ... in template with the matching tokens.
// Placeholders without a token are left untouched.
func (id Identifier) Expand(template string) string {
	oldnew := make([]string, 0, 2*len(id.Tokens))
	for i, tok := range id.Tokens {
		oldnew = append(oldnew, "{"+strconv.Itoa(i)+"}", tok)
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}

// IsZero reports whether the identifier field was empty.
func (id Identifier) IsZero() bool { return len(id.Tokens) == 0 }
