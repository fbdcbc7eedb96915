package character

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/osfrkit/charforge/internal/platform/errors"
)

//go:embed osfr_schema.json
var defaultSchemaJSON []byte

var (
	// ErrEmptyName indicates a missing character name.
	ErrEmptyName = apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	// ErrParameterMissing indicates a declared parameter was not supplied.
	ErrParameterMissing = apperrors.New(apperrors.CodeCharacterParameterMissing, "parameter is required")
	// ErrParameterWrongType indicates a parameter value of the wrong kind.
	ErrParameterWrongType = apperrors.New(apperrors.CodeCharacterParameterWrongType, "parameter has the wrong type")
	// ErrParameterUnknown indicates a parameter outside the ruleset schema.
	ErrParameterUnknown = apperrors.New(apperrors.CodeCharacterParameterUnknown, "parameter is not part of the ruleset")
	// ErrAttachmentInvalid indicates a mount or clothing entry that fails its
	// attribute schema.
	ErrAttachmentInvalid = apperrors.New(apperrors.CodeCharacterAttachmentInvalid, "attachment is invalid")
	// ErrSchemaInvalid indicates an unusable ruleset schema file.
	ErrSchemaInvalid = apperrors.New(apperrors.CodeSchemaInvalid, "ruleset schema is invalid")
)

// ParamSpec declares one ruleset parameter: its name, the kind of value it
// holds, and an optional default applied when a new character is forged.
type ParamSpec struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Default *Value `json:"default,omitempty"`
}

// Schema is the ruleset-supplied parameter set a character must satisfy.
// The parameter set is fixed by the target ruleset and is configuration,
// not user-extensible at runtime.
type Schema struct {
	Params []ParamSpec `json:"parameters"`
}

// DefaultSchema returns the built-in OSFR parameter set.
func DefaultSchema() Schema {
	schema, err := ParseSchema(defaultSchemaJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded osfr schema: %v", err))
	}
	return schema
}

// LoadSchema reads a ruleset schema from a JSON file.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, apperrors.Wrap(apperrors.CodeSchemaInvalid, fmt.Sprintf("read schema file %s", path), err)
	}
	return ParseSchema(data)
}

// ParseSchema parses and checks a ruleset schema document.
func ParseSchema(data []byte) (Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var schema Schema
	if err := dec.Decode(&schema); err != nil {
		return Schema{}, apperrors.Wrap(apperrors.CodeSchemaInvalid, "parse ruleset schema", err)
	}

	seen := make(map[string]bool, len(schema.Params))
	for _, spec := range schema.Params {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return Schema{}, apperrors.New(apperrors.CodeSchemaInvalid, "schema parameter name is required")
		}
		if name != spec.Name {
			return Schema{}, apperrors.WithMetadata(apperrors.CodeSchemaInvalid,
				fmt.Sprintf("schema parameter %q has surrounding whitespace", spec.Name),
				map[string]string{"parameter": spec.Name})
		}
		if seen[name] {
			return Schema{}, apperrors.WithMetadata(apperrors.CodeSchemaInvalid,
				fmt.Sprintf("schema parameter %q is declared twice", name),
				map[string]string{"parameter": name})
		}
		seen[name] = true
		if spec.Kind != KindNumber && spec.Kind != KindText {
			return Schema{}, apperrors.WithMetadata(apperrors.CodeSchemaInvalid,
				fmt.Sprintf("schema parameter %q has unknown kind %q", name, spec.Kind),
				map[string]string{"parameter": name, "kind": string(spec.Kind)})
		}
		if spec.Default != nil && spec.Default.Kind() != spec.Kind {
			return Schema{}, apperrors.WithMetadata(apperrors.CodeSchemaInvalid,
				fmt.Sprintf("schema parameter %q default does not match kind %q", name, spec.Kind),
				map[string]string{"parameter": name, "kind": string(spec.Kind)})
		}
	}
	return schema, nil
}

// Spec returns the declaration for a parameter name.
func (s Schema) Spec(name string) (ParamSpec, bool) {
	for _, spec := range s.Params {
		if spec.Name == name {
			return spec, true
		}
	}
	return ParamSpec{}, false
}

// Validate checks raw form input against the ruleset schema and returns a
// fully-populated record ready for serialization. It is a pure function of
// its input; errors identify the exact offending field.
func (s Schema) Validate(input Input) (Record, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Record{}, ErrEmptyName
	}

	parameters := make(map[string]Value, len(s.Params))
	for _, spec := range s.Params {
		value, ok := input.Parameters[spec.Name]
		if !ok {
			return Record{}, apperrors.WithMetadata(apperrors.CodeCharacterParameterMissing,
				fmt.Sprintf("parameter %q is required", spec.Name),
				map[string]string{"parameter": spec.Name})
		}
		if value.Kind() != spec.Kind {
			return Record{}, apperrors.WithMetadata(apperrors.CodeCharacterParameterWrongType,
				fmt.Sprintf("parameter %q must be %s, got %s", spec.Name, spec.Kind, value.Kind()),
				map[string]string{"parameter": spec.Name, "expected": string(spec.Kind), "actual": string(value.Kind())})
		}
		parameters[spec.Name] = value
	}
	for supplied := range input.Parameters {
		if _, ok := s.Spec(supplied); !ok {
			return Record{}, apperrors.WithMetadata(apperrors.CodeCharacterParameterUnknown,
				fmt.Sprintf("parameter %q is not part of the ruleset", supplied),
				map[string]string{"parameter": supplied})
		}
	}

	mounts, err := validateAttachments("mounts", input.Mounts)
	if err != nil {
		return Record{}, err
	}
	clothing, err := validateAttachments("clothing", input.Clothing)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Name:       name,
		Parameters: parameters,
		Mounts:     mounts,
		Clothing:   clothing,
	}, nil
}

func validateAttachments(list string, attachments []Attachment) ([]Attachment, error) {
	validated := make([]Attachment, 0, len(attachments))
	for i, attachment := range attachments {
		name := strings.TrimSpace(attachment.Name)
		if name == "" {
			return nil, apperrors.WithMetadata(apperrors.CodeCharacterAttachmentInvalid,
				fmt.Sprintf("%s entry %d has no name", list, i),
				map[string]string{"list": list, "index": fmt.Sprintf("%d", i)})
		}
		for attribute := range attachment.Attributes {
			if strings.TrimSpace(attribute) == "" {
				return nil, apperrors.WithMetadata(apperrors.CodeCharacterAttachmentInvalid,
					fmt.Sprintf("%s entry %q has an unnamed attribute", list, name),
					map[string]string{"list": list, "attachment": name})
			}
		}
		cloned := attachment.clone()
		cloned.Name = name
		validated = append(validated, cloned)
	}
	return validated, nil
}
