package template

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/typeid"
)

var (
	ErrNotFound        = errors.New("template not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidDocument = errors.New("invalid document")
	ErrNameRequired    = errors.New("name is required")
)

const publicListLimit = 100

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveParams describes a template write. An empty ID creates a new template.
type SaveParams struct {
	ID       string
	OwnerID  string
	Name     string
	Public   bool
	Document []byte
}

// Save validates the document and creates or updates a template owned by OwnerID.
func (s *Service) Save(ctx context.Context, p SaveParams) (*Template, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	// Store the normalized form so loads never see guides or defaults drift.
	doc, err := document.Unmarshal(p.Document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	normalized, err := document.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	t := &Template{
		ID:       p.ID,
		OwnerID:  p.OwnerID,
		Name:     name,
		Public:   p.Public,
		Document: normalized,
	}

	if t.ID == "" {
		t.ID = typeid.NewTemplateID()
		if err := s.repo.Create(ctx, t); err != nil {
			return nil, fmt.Errorf("create template: %w", err)
		}
		return t, nil
	}

	existing, err := s.repo.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != p.OwnerID {
		return nil, ErrForbidden
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a template the user owns or that is public.
func (s *Service) Get(ctx context.Context, id, userID string) (*Template, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Public && t.OwnerID != userID {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Template, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *Service) ListPublic(ctx context.Context) ([]Template, error) {
	return s.repo.ListPublic(ctx, publicListLimit)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.OwnerID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
