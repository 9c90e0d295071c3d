package descriptor

import (
	"fmt"
	"strconv"
	"strings"
)

// Attributes are the optional scalar volume attributes. Empty strings and
// nil flags mean "not given"; the builder keeps its own default for them.
type Attributes struct {
	Material     string
	Mfield       string
	Color        string
	Digitization string
	Identifier   string
	CopyOf       string
	ReplicaOf    string
	SolidsOpr    string
	Mirror       string
	Description  string
	Style        *int
	Visibility   *int
	Exist        *int
}

// attribute binds one attribute name to its field and builder setter.
type attribute struct {
	name  string
	parse func(a *Attributes, value string) error
	apply func(a *Attributes, b AttributeSetter)
}

func stringAttr(name string, field func(*Attributes) *string, set func(AttributeSetter, string)) attribute {
	return attribute{
		name: name,
		parse: func(a *Attributes, value string) error {
			*field(a) = value
			return nil
		},
		apply: func(a *Attributes, b AttributeSetter) {
			if v := *field(a); v != "" {
				set(b, v)
			}
		},
	}
}

func flagAttr(name string, field func(*Attributes) **int, set func(AttributeSetter, int)) attribute {
	return attribute{
		name: name,
		parse: func(a *Attributes, value string) error {
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrMalformedNumber, name, value)
			}
			*field(a) = &v
			return nil
		},
		apply: func(a *Attributes, b AttributeSetter) {
			if v := *field(a); v != nil {
				set(b, *v)
			}
		},
	}
}

// attributeTable is the complete list of attributes copied onto a volume,
// in the order they are applied.
var attributeTable = []attribute{
	stringAttr("material", func(a *Attributes) *string { return &a.Material }, AttributeSetter.SetMaterial),
	stringAttr("mfield", func(a *Attributes) *string { return &a.Mfield }, AttributeSetter.SetMfield),
	flagAttr("visibility", func(a *Attributes) **int { return &a.Visibility }, AttributeSetter.SetVisibility),
	flagAttr("style", func(a *Attributes) **int { return &a.Style }, AttributeSetter.SetStyle),
	stringAttr("color", func(a *Attributes) *string { return &a.Color }, AttributeSetter.SetColor),
	stringAttr("digitization", func(a *Attributes) *string { return &a.Digitization }, AttributeSetter.SetDigitization),
	stringAttr("identifier", func(a *Attributes) *string { return &a.Identifier }, AttributeSetter.SetIdentifier),
	stringAttr("copyOf", func(a *Attributes) *string { return &a.CopyOf }, AttributeSetter.SetCopyOf),
	stringAttr("replicaOf", func(a *Attributes) *string { return &a.ReplicaOf }, AttributeSetter.SetReplicaOf),
	stringAttr("solidsOpr", func(a *Attributes) *string { return &a.SolidsOpr }, AttributeSetter.SetSolidsOpr),
	stringAttr("mirror", func(a *Attributes) *string { return &a.Mirror }, AttributeSetter.SetMirror),
	flagAttr("exist", func(a *Attributes) **int { return &a.Exist }, AttributeSetter.SetExist),
	stringAttr("description", func(a *Attributes) *string { return &a.Description }, AttributeSetter.SetDescription),
}

// AttributeNames lists the keys accepted in key=value descriptor fields.
func AttributeNames() []string {
	names := make([]string, len(attributeTable))
	for i, attr := range attributeTable {
		names[i] = attr.name
	}
	return names
}

func lookupAttribute(name string) (attribute, bool) {
	for _, attr := range attributeTable {
		if strings.EqualFold(attr.name, name) {
			return attr, true
		}
	}
	return attribute{}, false
}

// set parses one "key=value" field into a.
func (a *Attributes) set(field string) error {
	key, value, ok := strings.Cut(field, "=")
	if !ok {
		return fieldError("attribute", "key=value", field, fmt.Errorf("%w: missing '='", ErrUnknownAttribute))
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	attr, ok := lookupAttribute(key)
	if !ok {
		return fieldError("attribute", fmt.Sprintf("one of %v", AttributeNames()), field,
			fmt.Errorf("%w: %q", ErrUnknownAttribute, key))
	}
	if err := attr.parse(a, value); err != nil {
		return fieldError("attribute", "an integer flag", field, err)
	}
	return nil
}

// applyTo copies every present attribute onto b.
func (a *Attributes) applyTo(b AttributeSetter) {
	for _, attr := range attributeTable {
		attr.apply(a, b)
	}
}
