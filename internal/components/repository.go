package component

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buildforge/buildforge-backend/pkg/db/models"
	"github.com/buildforge/buildforge-backend/pkg/enums"
	"github.com/buildforge/buildforge-backend/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a single component.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Component, error) {
	var component models.Component
	if err := r.db.WithContext(ctx).First(&component, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

// FindByName loads a component by exact name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Component, error) {
	var component models.Component
	if err := r.db.WithContext(ctx).First(&component, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

// SearchByName returns the first component whose name contains the needle,
// case-insensitive. Used by the build persister to link LLM-named parts.
func (r *Repository) SearchByName(ctx context.Context, needle string) (*models.Component, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(needle)) + "%"
	var component models.Component
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		First(&component).
		Error; err != nil {
		return nil, err
	}
	return &component, nil
}

// CreateBatch inserts components in a single multi-row statement.
func (r *Repository) CreateBatch(ctx context.Context, rows []models.Component) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// DeleteAll removes every component row. Used by the catalog reset tool.
func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Component{}).Error
}

// Count returns the total number of catalog rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Component{}).Count(&count).Error
	return count, err
}

type componentListQuery struct {
	Pagination pagination.Params
	Filters    ComponentListFilters
}

// ListComponents pages through the catalog with keyset pagination.
func (r *Repository) ListComponents(ctx context.Context, query componentListQuery) (*ComponentListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Component{})

	filter := query.Filters
	if filter.Category != nil {
		qb = qb.Where("category = ?", *filter.Category)
	}
	if filter.Manufacturer != nil {
		qb = qb.Where("LOWER(manufacturer) = ?", strings.ToLower(*filter.Manufacturer))
	}
	if filter.PriceMin != nil {
		qb = qb.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("price <= ?", *filter.PriceMax)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var rows []models.Component
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}

	resultRows := rows
	nextCursor := ""
	if len(rows) > pageSize {
		resultRows = rows[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]ComponentDTO, 0, len(resultRows))
	for _, row := range resultRows {
		dtos = append(dtos, toComponentDTO(&row))
	}

	return &ComponentListResult{
		Components: dtos,
		NextCursor: nextCursor,
	}, nil
}

// ListByCategoryPriceBand returns the cheapest-first candidates inside a price
// band for one category, capped at limit.
func (r *Repository) ListByCategoryPriceBand(ctx context.Context, category enums.ComponentCategory, min, max decimal.Decimal, limit int) ([]models.Component, error) {
	var rows []models.Component
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Where("price >= ? AND price <= ?", min, max).
		Order("price ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}
