package character

import (
	"errors"
	"testing"

	apperrors "github.com/osfrkit/charforge/internal/platform/errors"
)

func testSchema() Schema {
	return Schema{Params: []ParamSpec{
		{Name: "strength", Kind: KindNumber},
		{Name: "class", Kind: KindText},
	}}
}

func TestValidateSuccess(t *testing.T) {
	input := Input{
		Name: "Aria",
		Parameters: map[string]Value{
			"strength": NumberValue(12),
			"class":    TextValue("ranger"),
		},
	}

	record, err := testSchema().Validate(input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if record.Name != "Aria" {
		t.Fatalf("expected name Aria, got %q", record.Name)
	}
	if !record.Parameters["strength"].Equal(NumberValue(12)) {
		t.Fatalf("expected strength 12, got %v", record.Parameters["strength"])
	}
	if record.Mounts == nil || len(record.Mounts) != 0 {
		t.Fatalf("expected empty mounts, got %v", record.Mounts)
	}
	if record.Clothing == nil || len(record.Clothing) != 0 {
		t.Fatalf("expected empty clothing, got %v", record.Clothing)
	}
}

func TestValidateTrimsName(t *testing.T) {
	input := Input{
		Name: "  Aria  ",
		Parameters: map[string]Value{
			"strength": NumberValue(12),
			"class":    TextValue("ranger"),
		},
	}

	record, err := testSchema().Validate(input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if record.Name != "Aria" {
		t.Fatalf("expected trimmed name, got %q", record.Name)
	}
}

func TestValidateEmptyNameAlwaysRejected(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		input := Input{
			Name: name,
			Parameters: map[string]Value{
				"strength": NumberValue(12),
				"class":    TextValue("ranger"),
			},
		}
		_, err := testSchema().Validate(input)
		if !errors.Is(err, ErrEmptyName) {
			t.Fatalf("expected ErrEmptyName for %q, got %v", name, err)
		}
	}
}

func TestValidateMissingParameterNamesField(t *testing.T) {
	input := Input{
		Name: "Aria",
		Parameters: map[string]Value{
			"strength": NumberValue(12),
		},
	}

	_, err := testSchema().Validate(input)
	if !errors.Is(err, ErrParameterMissing) {
		t.Fatalf("expected ErrParameterMissing, got %v", err)
	}

	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected structured error, got %T", err)
	}
	if domainErr.Metadata["parameter"] != "class" {
		t.Fatalf("expected offending parameter class, got %q", domainErr.Metadata["parameter"])
	}
}

func TestValidateWrongTypeNamesExpectedAndActual(t *testing.T) {
	input := Input{
		Name: "Aria",
		Parameters: map[string]Value{
			"strength": TextValue("twelve"),
			"class":    TextValue("ranger"),
		},
	}

	_, err := testSchema().Validate(input)
	if !errors.Is(err, ErrParameterWrongType) {
		t.Fatalf("expected ErrParameterWrongType, got %v", err)
	}

	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected structured error, got %T", err)
	}
	if domainErr.Metadata["parameter"] != "strength" {
		t.Fatalf("expected offending parameter strength, got %q", domainErr.Metadata["parameter"])
	}
	if domainErr.Metadata["expected"] != "number" || domainErr.Metadata["actual"] != "text" {
		t.Fatalf("expected number/text metadata, got %v", domainErr.Metadata)
	}
}

func TestValidateRejectsUnknownParameter(t *testing.T) {
	input := Input{
		Name: "Aria",
		Parameters: map[string]Value{
			"strength": NumberValue(12),
			"class":    TextValue("ranger"),
			"luck":     NumberValue(7),
		},
	}

	_, err := testSchema().Validate(input)
	if !errors.Is(err, ErrParameterUnknown) {
		t.Fatalf("expected ErrParameterUnknown, got %v", err)
	}

	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected structured error, got %T", err)
	}
	if domainErr.Metadata["parameter"] != "luck" {
		t.Fatalf("expected offending parameter luck, got %q", domainErr.Metadata["parameter"])
	}
}

func TestValidateAttachments(t *testing.T) {
	input := Input{
		Name: "Aria",
		Parameters: map[string]Value{
			"strength": NumberValue(12),
			"class":    TextValue("ranger"),
		},
		Mounts: []Attachment{
			{Name: "Gryphon", Attributes: map[string]Value{"speed": NumberValue(18)}},
		},
		Clothing: []Attachment{
			{Name: "Traveler's Cloak", Attributes: map[string]Value{"color": TextValue("moss")}},
		},
	}

	record, err := testSchema().Validate(input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(record.Mounts) != 1 || record.Mounts[0].Name != "Gryphon" {
		t.Fatalf("expected one mount named Gryphon, got %v", record.Mounts)
	}
	if !record.Mounts[0].Attributes["speed"].Equal(NumberValue(18)) {
		t.Fatalf("expected mount speed 18, got %v", record.Mounts[0].Attributes["speed"])
	}
	if len(record.Clothing) != 1 || record.Clothing[0].Name != "Traveler's Cloak" {
		t.Fatalf("expected one clothing entry, got %v", record.Clothing)
	}
}

func TestValidateRejectsUnnamedAttachment(t *testing.T) {
	input := Input{
		Name: "Aria",
		Parameters: map[string]Value{
			"strength": NumberValue(12),
			"class":    TextValue("ranger"),
		},
		Mounts: []Attachment{{Name: "   "}},
	}

	_, err := testSchema().Validate(input)
	if !errors.Is(err, ErrAttachmentInvalid) {
		t.Fatalf("expected ErrAttachmentInvalid, got %v", err)
	}
}

func TestValidateDoesNotAliasInput(t *testing.T) {
	params := map[string]Value{
		"strength": NumberValue(12),
		"class":    TextValue("ranger"),
	}
	mounts := []Attachment{{Name: "Gryphon", Attributes: map[string]Value{"speed": NumberValue(18)}}}

	record, err := testSchema().Validate(Input{Name: "Aria", Parameters: params, Mounts: mounts})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	mounts[0].Attributes["speed"] = NumberValue(1)
	if !record.Mounts[0].Attributes["speed"].Equal(NumberValue(18)) {
		t.Fatal("expected record to own a copy of attachment attributes")
	}
}

func TestDefaultSchemaParses(t *testing.T) {
	schema := DefaultSchema()
	if len(schema.Params) == 0 {
		t.Fatal("expected built-in schema to declare parameters")
	}
	strength, ok := schema.Spec("strength")
	if !ok {
		t.Fatal("expected built-in schema to declare strength")
	}
	if strength.Kind != KindNumber {
		t.Fatalf("expected strength to be a number, got %s", strength.Kind)
	}
	if strength.Default == nil || strength.Default.Kind() != KindNumber {
		t.Fatal("expected strength to carry a numeric default")
	}
}

func TestParseSchemaRejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty parameter name", data: `{"parameters":[{"name":"","kind":"number"}]}`},
		{name: "duplicate parameter", data: `{"parameters":[{"name":"strength","kind":"number"},{"name":"strength","kind":"text"}]}`},
		{name: "unknown kind", data: `{"parameters":[{"name":"strength","kind":"bool"}]}`},
		{name: "default kind mismatch", data: `{"parameters":[{"name":"strength","kind":"number","default":"ten"}]}`},
		{name: "unknown field", data: `{"params":[]}`},
		{name: "not json", data: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.data))
			if !errors.Is(err, ErrSchemaInvalid) {
				t.Fatalf("expected ErrSchemaInvalid, got %v", err)
			}
		})
	}
}
