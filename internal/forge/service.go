// Package forge orchestrates the character workflow: forging new records
// from the ruleset defaults, patching individual fields, and outfitting
// characters with catalog options. It validates on every mutation and never
// logs; errors carry the context the caller needs to present them.
package forge

import (
	"context"
	"fmt"

	"github.com/osfrkit/charforge/internal/catalog"
	"github.com/osfrkit/charforge/internal/character"
	apperrors "github.com/osfrkit/charforge/internal/platform/errors"
	"github.com/osfrkit/charforge/internal/vault"
)

// ErrAlreadyExists indicates a character file is already present under the
// requested name.
var ErrAlreadyExists = apperrors.New(apperrors.CodeCharacterAlreadyExists, "character already exists")

// Service wires the ruleset schema, the character vault and the option
// catalog together. The catalog may be nil; attachment operations then fail
// with a configuration error.
type Service struct {
	schema  character.Schema
	vault   *vault.Vault
	catalog *catalog.Store
}

// New creates a forge service.
func New(schema character.Schema, v *vault.Vault, options *catalog.Store) *Service {
	return &Service{schema: schema, vault: v, catalog: options}
}

// Schema returns the ruleset schema the service validates against.
func (s *Service) Schema() character.Schema {
	return s.schema
}

// Create validates and persists a new character. Parameters left unset fall
// back to the ruleset defaults. Creating over an existing character is
// refused; re-saving an existing character goes through the patch
// operations instead.
func (s *Service) Create(name string, parameters map[string]character.Value) (character.Record, error) {
	merged := make(map[string]character.Value, len(s.schema.Params))
	for _, spec := range s.schema.Params {
		if spec.Default != nil {
			merged[spec.Name] = *spec.Default
		}
	}
	for parameter, value := range parameters {
		merged[parameter] = value
	}

	record, err := s.schema.Validate(character.Input{Name: name, Parameters: merged})
	if err != nil {
		return character.Record{}, err
	}

	if s.vault.Exists(record.Name) {
		return character.Record{}, apperrors.WithMetadata(apperrors.CodeCharacterAlreadyExists,
			fmt.Sprintf("character %q already exists", record.Name),
			map[string]string{"name": record.Name})
	}
	if err := s.vault.Save(record); err != nil {
		return character.Record{}, err
	}
	return record, nil
}

// Get loads a character by name.
func (s *Service) Get(name string) (character.Record, error) {
	return s.vault.Load(name)
}

// List returns the names of all persisted characters.
func (s *Service) List() ([]string, error) {
	return s.vault.List()
}

// SetParameter loads a character, replaces one parameter value, re-validates
// the whole record and saves it. The value must match the declared kind.
func (s *Service) SetParameter(name string, parameter string, value character.Value) (character.Record, error) {
	record, err := s.vault.Load(name)
	if err != nil {
		return character.Record{}, err
	}

	input := record.Input()
	input.Parameters[parameter] = value

	updated, err := s.schema.Validate(input)
	if err != nil {
		return character.Record{}, err
	}
	if err := s.vault.Save(updated); err != nil {
		return character.Record{}, err
	}
	return updated, nil
}

// AttachMount resolves a mount option from the catalog and attaches an owned
// copy of it to the character.
func (s *Service) AttachMount(ctx context.Context, name string, mountName string) (character.Record, error) {
	return s.attach(ctx, name, mountName, func(input *character.Input, attachment character.Attachment) {
		input.Mounts = append(input.Mounts, attachment)
	}, s.lookupMount)
}

// DetachMount removes every mount with the given name from the character.
func (s *Service) DetachMount(name string, mountName string) (character.Record, error) {
	return s.detach(name, func(input *character.Input) {
		input.Mounts = removeAttachment(input.Mounts, mountName)
	})
}

// AttachClothing resolves a clothing option from the catalog and attaches an
// owned copy of it to the character.
func (s *Service) AttachClothing(ctx context.Context, name string, clothingName string) (character.Record, error) {
	return s.attach(ctx, name, clothingName, func(input *character.Input, attachment character.Attachment) {
		input.Clothing = append(input.Clothing, attachment)
	}, s.lookupClothing)
}

// DetachClothing removes every clothing entry with the given name from the
// character.
func (s *Service) DetachClothing(name string, clothingName string) (character.Record, error) {
	return s.detach(name, func(input *character.Input) {
		input.Clothing = removeAttachment(input.Clothing, clothingName)
	})
}

func (s *Service) lookupMount(ctx context.Context, name string) (catalog.Option, error) {
	if s.catalog == nil {
		return catalog.Option{}, fmt.Errorf("catalog is not configured")
	}
	return s.catalog.GetMount(ctx, name)
}

func (s *Service) lookupClothing(ctx context.Context, name string) (catalog.Option, error) {
	if s.catalog == nil {
		return catalog.Option{}, fmt.Errorf("catalog is not configured")
	}
	return s.catalog.GetClothing(ctx, name)
}

func (s *Service) attach(
	ctx context.Context,
	name string,
	optionName string,
	apply func(*character.Input, character.Attachment),
	lookup func(context.Context, string) (catalog.Option, error),
) (character.Record, error) {
	option, err := lookup(ctx, optionName)
	if err != nil {
		return character.Record{}, err
	}

	record, err := s.vault.Load(name)
	if err != nil {
		return character.Record{}, err
	}

	input := record.Input()
	apply(&input, option.Attachment())

	updated, err := s.schema.Validate(input)
	if err != nil {
		return character.Record{}, err
	}
	if err := s.vault.Save(updated); err != nil {
		return character.Record{}, err
	}
	return updated, nil
}

func (s *Service) detach(name string, apply func(*character.Input)) (character.Record, error) {
	record, err := s.vault.Load(name)
	if err != nil {
		return character.Record{}, err
	}

	input := record.Input()
	apply(&input)

	updated, err := s.schema.Validate(input)
	if err != nil {
		return character.Record{}, err
	}
	if err := s.vault.Save(updated); err != nil {
		return character.Record{}, err
	}
	return updated, nil
}

func removeAttachment(attachments []character.Attachment, name string) []character.Attachment {
	remaining := make([]character.Attachment, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment.Name == name {
			continue
		}
		remaining = append(remaining, attachment)
	}
	return remaining
}
