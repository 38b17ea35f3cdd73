package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Template is a saved, serialized document.
type Template struct {
	ID        string          `json:"id" db:"id"`
	OwnerID   string          `json:"ownerId" db:"owner_id"`
	Name      string          `json:"name" db:"name"`
	Public    bool            `json:"public" db:"public"`
	Document  json.RawMessage `json:"document" db:"document"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// Repository persists templates.
type Repository interface {
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	Get(ctx context.Context, id string) (*Template, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Template, error)
	ListPublic(ctx context.Context, limit int) ([]Template, error)
	Delete(ctx context.Context, id string) error
}

// Store is the Postgres Repository.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const templateColumns = `id, owner_id, name, public, document, created_at, updated_at`

func (s *Store) Create(ctx context.Context, t *Template) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO templates (id, owner_id, name, public, document)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		t.ID, t.OwnerID, t.Name, t.Public, t.Document,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, t *Template) error {
	err := s.pool.QueryRow(ctx, `
		UPDATE templates
		SET name = $2, public = $3, document = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Public, t.Document,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Template, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Template])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+templateColumns+` FROM templates
		WHERE owner_id = $1
		ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[Template])
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *Store) ListPublic(ctx context.Context, limit int) ([]Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+templateColumns+` FROM templates
		WHERE public
		ORDER BY updated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list public templates: %w", err)
	}
	templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[Template])
	if err != nil {
		return nil, fmt.Errorf("list public templates: %w", err)
	}
	return templates, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
