package build

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildforge/buildforge-backend/pkg/db/models"
	"github.com/buildforge/buildforge-backend/pkg/pagination"
)

// Repository wires together build persistence helpers.
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

// CreatePc inserts a new build row. Unique violations on the name bubble up
// so the caller can probe a suffixed name.
func (r *Repository) CreatePc(ctx context.Context, pc *models.Pc) (*models.Pc, error) {
	if err := r.db.WithContext(ctx).Create(pc).Error; err != nil {
		return nil, err
	}
	return pc, nil
}

// CreatePcComponents inserts the join rows for a build.
func (r *Repository) CreatePcComponents(ctx context.Context, rows []models.PcComponent) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// LinkUser attaches a build to the user's saved list.
func (r *Repository) LinkUser(ctx context.Context, userID, pcID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.UserPc{UserID: userID, PcID: pcID}).Error
}

// FindByID loads a build with its components and their catalog rows.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pc, error) {
	var pc models.Pc
	err := r.db.WithContext(ctx).
		Preload("Components").
		Preload("Components.Component").
		First(&pc, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

type buildListQuery struct {
	Pagination pagination.Params
	UserID     *uuid.UUID
}

// ListPcs pages through builds newest-first. When UserID is set only the
// user's saved builds are returned.
func (r *Repository) ListPcs(ctx context.Context, query buildListQuery) (*BuildListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Pc{}).
		Preload("Components").
		Preload("Components.Component")

	if query.UserID != nil {
		qb = qb.Joins("JOIN user_pcs up ON up.pc_id = pcs.id").
			Where("up.user_id = ?", *query.UserID)
	}

	if cursor != nil {
		qb = qb.Where("(pcs.created_at < ?) OR (pcs.created_at = ? AND pcs.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("pcs.created_at DESC").Order("pcs.id DESC").Limit(limitWithBuffer)

	var rows []models.Pc
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

	dtos := make([]BuildDTO, 0, len(resultRows))
	for i := range resultRows {
		dtos = append(dtos, toBuildDTO(&resultRows[i]))
	}

	return &BuildListResult{
		Builds:     dtos,
		NextCursor: nextCursor,
	}, nil
}

// DeleteAll removes every build and join row. Used by the catalog reset tool.
func (r *Repository) DeleteAll(ctx context.Context) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("1 = 1").Delete(&models.UserPc{}).Error; err != nil {
		return err
	}
	if err := tx.Where("1 = 1").Delete(&models.PcComponent{}).Error; err != nil {
		return err
	}
	return tx.Where("1 = 1").Delete(&models.Pc{}).Error
}
