package component

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildforge/buildforge-backend/pkg/enums"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/pagination"
)

// Service exposes read access to the component catalog.
type Service interface {
	ListComponents(ctx context.Context, input ListComponentsInput) (*ComponentListResult, error)
	GetComponent(ctx context.Context, id uuid.UUID) (*ComponentDTO, error)
	ListCategories(ctx context.Context) []string
}

// ListComponentsInput holds the validated catalog query.
type ListComponentsInput struct {
	Pagination pagination.Params
	Filters    ComponentListFilters
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("component repository required")
	}
	return &service{repo: repo}, nil
}

// ListComponents pages through the catalog applying filters.
func (s *service) ListComponents(ctx context.Context, input ListComponentsInput) (*ComponentListResult, error) {
	if input.Filters.PriceMin != nil && input.Filters.PriceMax != nil && input.Filters.PriceMin.GreaterThan(*input.Filters.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}

	result, err := s.repo.ListComponents(ctx, componentListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list components")
	}
	return result, nil
}

// GetComponent returns one catalog row by ID.
func (s *service) GetComponent(ctx context.Context, id uuid.UUID) (*ComponentDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "component not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find component")
	}
	dto := toComponentDTO(row)
	return &dto, nil
}

// ListCategories returns the fixed category vocabulary.
func (s *service) ListCategories(_ context.Context) []string {
	categories := enums.AllComponentCategories()
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.String())
	}
	return out
}
