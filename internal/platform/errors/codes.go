package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors (recoverable; the form re-prompts the user)
	CodeCharacterEmptyName          Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterParameterMissing   Code = "CHARACTER_PARAMETER_MISSING"
	CodeCharacterParameterWrongType Code = "CHARACTER_PARAMETER_WRONG_TYPE"
	CodeCharacterParameterUnknown   Code = "CHARACTER_PARAMETER_UNKNOWN"
	CodeCharacterAttachmentInvalid  Code = "CHARACTER_ATTACHMENT_INVALID"
	CodeCharacterAlreadyExists      Code = "CHARACTER_ALREADY_EXISTS"

	// Format errors (corrupt or foreign documents on load)
	CodeDocumentMalformed      Code = "DOCUMENT_MALFORMED"
	CodeDocumentSchemaMismatch Code = "DOCUMENT_SCHEMA_MISMATCH"

	// Ruleset schema errors
	CodeSchemaInvalid Code = "SCHEMA_INVALID"

	// Vault errors (environment problems)
	CodeVaultDirectoryMissing Code = "VAULT_DIRECTORY_MISSING"
	CodeVaultWriteFailed      Code = "VAULT_WRITE_FAILED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
