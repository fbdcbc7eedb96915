// Package catalog stores the selectable OSFR customization options: the
// mounts and clothing a character can be outfitted with. Options live in an
// embedded SQLite database so rulesets can ship and amend them without code
// changes.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/osfrkit/charforge/internal/catalog/migrations"
	"github.com/osfrkit/charforge/internal/character"
	apperrors "github.com/osfrkit/charforge/internal/platform/errors"
	"github.com/osfrkit/charforge/internal/platform/storage/sqlitemigrate"
)

// ErrNotFound indicates a requested catalog option is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "catalog option not found")

// Option is one selectable catalog entry.
type Option struct {
	ID         int64
	Name       string
	Attributes map[string]character.Value
	CreatedAt  time.Time
}

// Attachment converts the option into an owned character attachment.
func (o Option) Attachment() character.Attachment {
	attributes := make(map[string]character.Value, len(o.Attributes))
	for name, value := range o.Attributes {
		attributes[name] = value
	}
	return character.Attachment{Name: o.Name, Attributes: attributes}
}

// Store provides a SQLite-backed option catalog.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the catalog database at the provided path and applies embedded
// migrations, including the default OSFR option set.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping catalog db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run catalog migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("catalog is not configured")
	}
	return nil
}

// PutMount inserts or replaces a mount option.
func (s *Store) PutMount(ctx context.Context, option Option) error {
	return s.putOption(ctx, "mounts", option)
}

// GetMount retrieves a mount option by name.
func (s *Store) GetMount(ctx context.Context, name string) (Option, error) {
	return s.getOption(ctx, "mounts", name)
}

// ListMounts returns all mount options ordered by name.
func (s *Store) ListMounts(ctx context.Context) ([]Option, error) {
	return s.listOptions(ctx, "mounts")
}

// PutClothing inserts or replaces a clothing option.
func (s *Store) PutClothing(ctx context.Context, option Option) error {
	return s.putOption(ctx, "clothing", option)
}

// GetClothing retrieves a clothing option by name.
func (s *Store) GetClothing(ctx context.Context, name string) (Option, error) {
	return s.getOption(ctx, "clothing", name)
}

// ListClothing returns all clothing options ordered by name.
func (s *Store) ListClothing(ctx context.Context) ([]Option, error) {
	return s.listOptions(ctx, "clothing")
}

func (s *Store) putOption(ctx context.Context, table string, option Option) error {
	if err := s.validate(ctx); err != nil {
		return err
	}
	name := strings.TrimSpace(option.Name)
	if name == "" {
		return fmt.Errorf("option name is required")
	}

	attributesJSON, err := json.Marshal(option.Attributes)
	if err != nil {
		return fmt.Errorf("marshal option attributes: %w", err)
	}
	createdAt := option.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.sqlDB.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, attributes_json, created_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET attributes_json = excluded.attributes_json`, table),
		name, string(attributesJSON), toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("put %s option %q: %w", table, name, err)
	}
	return nil
}

func (s *Store) getOption(ctx context.Context, table string, name string) (Option, error) {
	if err := s.validate(ctx); err != nil {
		return Option{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, name, attributes_json, created_at FROM %s WHERE name = ?", table), name)
	option, err := scanOption(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Option{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				fmt.Sprintf("%s option %q not found", table, name),
				map[string]string{"catalog": table, "name": name})
		}
		return Option{}, fmt.Errorf("get %s option %q: %w", table, name, err)
	}
	return option, nil
}

func (s *Store) listOptions(ctx context.Context, table string) ([]Option, error) {
	if err := s.validate(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		fmt.Sprintf("SELECT id, name, attributes_json, created_at FROM %s ORDER BY name", table))
	if err != nil {
		return nil, fmt.Errorf("list %s options: %w", table, err)
	}
	defer rows.Close()

	var options []Option
	for rows.Next() {
		option, err := scanOption(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan %s option: %w", table, err)
		}
		options = append(options, option)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s options: %w", table, err)
	}
	return options, nil
}

func scanOption(scan func(...any) error) (Option, error) {
	var option Option
	var attributesJSON string
	var createdAt int64
	if err := scan(&option.ID, &option.Name, &attributesJSON, &createdAt); err != nil {
		return Option{}, err
	}
	if err := json.Unmarshal([]byte(attributesJSON), &option.Attributes); err != nil {
		return Option{}, fmt.Errorf("unmarshal option attributes: %w", err)
	}
	if option.Attributes == nil {
		option.Attributes = map[string]character.Value{}
	}
	option.CreatedAt = fromMillis(createdAt)
	return option, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
