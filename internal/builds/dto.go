package build

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildforge/buildforge-backend/pkg/db/models"
)

// BuildDTO represents a persisted build returned to clients.
type BuildDTO struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	IsCustomized bool                `json:"is_customized"`
	Components   []BuildComponentDTO `json:"components"`
	TotalPrice   string              `json:"total_price"`
	CreatedAt    time.Time           `json:"created_at"`
}

// BuildComponentDTO is one linked catalog part inside a build.
type BuildComponentDTO struct {
	ComponentID  uuid.UUID `json:"component_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Price        string    `json:"price"`
	Currency     string    `json:"currency"`
}

// BuildListResult is one page of builds plus the next cursor.
type BuildListResult struct {
	Builds     []BuildDTO `json:"builds"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toBuildDTO(pc *models.Pc) BuildDTO {
	dto := BuildDTO{
		ID:           pc.ID,
		Name:         pc.Name,
		Description:  pc.Description,
		IsCustomized: pc.IsCustomized,
		Components:   make([]BuildComponentDTO, 0, len(pc.Components)),
		CreatedAt:    pc.CreatedAt,
	}

	total := decimal.Zero
	for _, link := range pc.Components {
		if link.Component == nil {
			continue
		}
		comp := link.Component
		dto.Components = append(dto.Components, BuildComponentDTO{
			ComponentID:  comp.ID,
			Name:         comp.Name,
			Category:     string(comp.Category),
			Manufacturer: comp.Manufacturer,
			Price:        comp.Price.StringFixed(2),
			Currency:     string(comp.Currency),
		})
		total = total.Add(comp.Price)
	}
	dto.TotalPrice = total.StringFixed(2)

	return dto
}
