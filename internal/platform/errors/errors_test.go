package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	base := New(CodeCharacterEmptyName, "character name is required")
	detailed := WithMetadata(CodeCharacterEmptyName, "name was blank", map[string]string{"field": "name"})

	if !errors.Is(detailed, base) {
		t.Fatal("expected errors with the same code to match")
	}

	other := New(CodeVaultWriteFailed, "write failed")
	if errors.Is(detailed, other) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestErrorIsMatchesThroughWrapping(t *testing.T) {
	base := New(CodeVaultWriteFailed, "write failed")
	wrapped := fmt.Errorf("save character: %w", Wrap(CodeVaultWriteFailed, "rename failed", errors.New("disk full")))

	if !errors.Is(wrapped, base) {
		t.Fatal("expected wrapped error to match by code")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(CodeVaultWriteFailed, "write failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
}

func TestMetadataCarriesFieldContext(t *testing.T) {
	err := WithMetadata(CodeCharacterParameterMissing, "parameter is required", map[string]string{"parameter": "strength"})

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("expected *Error")
	}
	if domainErr.Metadata["parameter"] != "strength" {
		t.Fatalf("expected metadata parameter %q, got %q", "strength", domainErr.Metadata["parameter"])
	}
}
