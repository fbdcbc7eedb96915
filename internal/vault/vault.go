// Package vault persists character documents as one JSON file per character
// inside a fixed directory. Saves are atomic: a failed save never leaves a
// partial file and never corrupts the prior one.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osfrkit/charforge/internal/character"
	apperrors "github.com/osfrkit/charforge/internal/platform/errors"
)

var (
	// ErrDirectoryMissing indicates the characters directory does not exist.
	ErrDirectoryMissing = apperrors.New(apperrors.CodeVaultDirectoryMissing, "characters directory is missing")
	// ErrWriteFailed indicates an environment failure while writing.
	ErrWriteFailed = apperrors.New(apperrors.CodeVaultWriteFailed, "character write failed")
	// ErrNotFound indicates a requested character file is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "character not found")
)

// Vault is a directory of character documents.
type Vault struct {
	dir string
}

// New creates a vault rooted at dir. The directory is not created; call
// Ensure for that.
func New(dir string) *Vault {
	return &Vault{dir: filepath.Clean(dir)}
}

// Dir returns the vault directory.
func (v *Vault) Dir() string {
	return v.dir
}

// Ensure creates the vault directory when it does not exist yet.
func (v *Vault) Ensure() error {
	if err := os.MkdirAll(v.dir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.CodeVaultWriteFailed, fmt.Sprintf("create directory %s", v.dir), err)
	}
	return nil
}

// Path returns the file path a character name maps to.
func (v *Vault) Path(name string) string {
	return filepath.Join(v.dir, FileName(name))
}

// Save writes the record's document to its deterministic file path,
// replacing any prior file for the same name. It refuses to run when the
// vault directory is missing.
func (v *Vault) Save(record character.Record) error {
	info, err := os.Stat(v.dir)
	if err != nil || !info.IsDir() {
		return apperrors.WithMetadata(apperrors.CodeVaultDirectoryMissing,
			fmt.Sprintf("characters directory %s is missing", v.dir),
			map[string]string{"path": v.dir})
	}

	data, err := character.Encode(record)
	if err != nil {
		return err
	}

	// Write to a temp file in the same directory, then rename over the
	// target so the prior file is never observed half-written.
	tmp, err := os.CreateTemp(v.dir, ".charforge-*")
	if err != nil {
		return apperrors.Wrap(apperrors.CodeVaultWriteFailed, "create temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return apperrors.Wrap(apperrors.CodeVaultWriteFailed, "write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.Wrap(apperrors.CodeVaultWriteFailed, "close temp file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.Wrap(apperrors.CodeVaultWriteFailed, "chmod temp file", err)
	}
	if err := os.Rename(tmpPath, v.Path(record.Name)); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.Wrap(apperrors.CodeVaultWriteFailed, fmt.Sprintf("rename into %s", v.Path(record.Name)), err)
	}
	return nil
}

// Load reads and decodes the document stored for a character name.
func (v *Vault) Load(name string) (character.Record, error) {
	data, err := os.ReadFile(v.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return character.Record{}, apperrors.WrapWithMetadata(apperrors.CodeNotFound,
				fmt.Sprintf("character %q not found", name),
				map[string]string{"name": name}, err)
		}
		return character.Record{}, apperrors.Wrap(apperrors.CodeVaultWriteFailed, fmt.Sprintf("read %s", v.Path(name)), err)
	}
	return character.Decode(data)
}

// Exists reports whether a character file is already present.
func (v *Vault) Exists(name string) bool {
	info, err := os.Stat(v.Path(name))
	return err == nil && !info.IsDir()
}

// List returns the character file names (without extension) in the vault,
// in directory order.
func (v *Vault) List() ([]string, error) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDirectoryMissing
		}
		return nil, apperrors.Wrap(apperrors.CodeVaultWriteFailed, fmt.Sprintf("read directory %s", v.dir), err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

// FileName derives the deterministic file name for a character name.
// Path separators, reserved punctuation and control runes map to an
// underscore, as do leading and trailing dots and spaces, so any validated
// name yields a usable file name on every platform.
func FileName(name string) string {
	sanitized := []rune(strings.TrimSpace(name))
	for i, r := range sanitized {
		switch {
		case r < 0x20:
			sanitized[i] = '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			sanitized[i] = '_'
		}
	}
	for i := 0; i < len(sanitized) && sanitized[i] == '.'; i++ {
		sanitized[i] = '_'
	}
	for i := len(sanitized) - 1; i >= 0 && sanitized[i] == '.'; i-- {
		sanitized[i] = '_'
	}
	return string(sanitized) + ".json"
}
