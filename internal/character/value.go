package character

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/invopop/jsonschema"

	apperrors "github.com/osfrkit/charforge/internal/platform/errors"
)

// Kind identifies the type of a parameter or attribute value.
type Kind string

const (
	// KindNumber marks a numeric value.
	KindNumber Kind = "number"
	// KindText marks a text value.
	KindText Kind = "text"
)

// Value is a tagged parameter value: either a number or text. The wire form
// is the bare JSON number or string, not a tagged object.
type Value struct {
	kind Kind
	num  float64
	text string
}

// NumberValue builds a numeric value.
func NumberValue(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

// TextValue builds a text value.
func TextValue(v string) Value {
	return Value{kind: KindText, text: v}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Number returns the numeric content. Zero when the value is text.
func (v Value) Number() float64 {
	return v.num
}

// Text returns the text content. Empty when the value is numeric.
func (v Value) Text() string {
	return v.text
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	return v == other
}

// String renders the value for messages and CLI output.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// MarshalJSON writes the bare number or string wire form.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a bare JSON number or string. Booleans, nulls,
// arrays and objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return err
		}
		*v = NumberValue(parsed)
	case string:
		*v = TextValue(value)
	default:
		return apperrors.New(apperrors.CodeDocumentSchemaMismatch, "value must be a number or string")
	}
	return nil
}

// JSONSchema describes the wire form for schema export.
func (Value) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "string"},
		},
	}
}
