package character

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/osfrkit/charforge/internal/platform/errors"
)

var (
	// ErrMalformed indicates bytes that are not valid JSON.
	ErrMalformed = apperrors.New(apperrors.CodeDocumentMalformed, "document is not valid JSON")
	// ErrSchemaMismatch indicates a document missing a required field,
	// carrying a mistyped field, or written with an unsupported version.
	ErrSchemaMismatch = apperrors.New(apperrors.CodeDocumentSchemaMismatch, "document does not match the character format")
)

// Encode serializes a record to its canonical JSON document. Encoding is
// deterministic: top-level fields keep a fixed order and map keys are
// emitted sorted, so the same record always yields the same bytes.
func Encode(record Record) ([]byte, error) {
	doc := Document{
		SchemaVersion: SchemaVersion,
		Name:          record.Name,
		Parameters:    record.Parameters,
		Mounts:        toDocumentAttachments(record.Mounts),
		Clothing:      toDocumentAttachments(record.Clothing),
	}
	if doc.Parameters == nil {
		doc.Parameters = map[string]Value{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode character document: %w", err)
	}
	return data, nil
}

// Decode is the inverse of Encode. The field set is closed over the schema
// version: unknown fields are a mismatch, never silently dropped.
func Decode(data []byte) (Record, error) {
	if !json.Valid(data) {
		return Record{}, ErrMalformed
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return Record{}, apperrors.WrapWithMetadata(apperrors.CodeDocumentSchemaMismatch,
				fmt.Sprintf("field %q has the wrong type", typeErr.Field),
				map[string]string{"field": typeErr.Field}, err)
		}
		return Record{}, apperrors.Wrap(apperrors.CodeDocumentSchemaMismatch, "decode character document", err)
	}

	if doc.SchemaVersion != SchemaVersion {
		return Record{}, apperrors.WithMetadata(apperrors.CodeDocumentSchemaMismatch,
			fmt.Sprintf("unsupported schema_version %d", doc.SchemaVersion),
			map[string]string{"field": "schema_version"})
	}
	if strings.TrimSpace(doc.Name) == "" {
		return Record{}, apperrors.WithMetadata(apperrors.CodeDocumentSchemaMismatch,
			"field \"name\" is required", map[string]string{"field": "name"})
	}
	if doc.Parameters == nil {
		return Record{}, apperrors.WithMetadata(apperrors.CodeDocumentSchemaMismatch,
			"field \"parameters\" is required", map[string]string{"field": "parameters"})
	}

	mounts, err := fromDocumentAttachments("mounts", doc.Mounts)
	if err != nil {
		return Record{}, err
	}
	clothing, err := fromDocumentAttachments("clothing", doc.Clothing)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Name:       doc.Name,
		Parameters: cloneValues(doc.Parameters),
		Mounts:     mounts,
		Clothing:   clothing,
	}, nil
}

func toDocumentAttachments(attachments []Attachment) []DocumentAttachment {
	docs := make([]DocumentAttachment, 0, len(attachments))
	for _, attachment := range attachments {
		attributes := attachment.Attributes
		if attributes == nil {
			attributes = map[string]Value{}
		}
		docs = append(docs, DocumentAttachment{
			Name:       attachment.Name,
			Attributes: attributes,
		})
	}
	return docs
}

func fromDocumentAttachments(field string, docs []DocumentAttachment) ([]Attachment, error) {
	attachments := make([]Attachment, 0, len(docs))
	for i, doc := range docs {
		if strings.TrimSpace(doc.Name) == "" {
			return nil, apperrors.WithMetadata(apperrors.CodeDocumentSchemaMismatch,
				fmt.Sprintf("%s entry %d has no name", field, i),
				map[string]string{"field": field})
		}
		attributes := cloneValues(doc.Attributes)
		attachments = append(attachments, Attachment{
			Name:       doc.Name,
			Attributes: attributes,
		})
	}
	return attachments, nil
}
