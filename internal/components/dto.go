package component

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildforge/buildforge-backend/pkg/db/models"
	"github.com/buildforge/buildforge-backend/pkg/enums"
)

// ComponentDTO represents the catalog payload returned to clients.
type ComponentDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Manufacturer     string    `json:"manufacturer"`
	Price            string    `json:"price"`
	Currency         string    `json:"currency"`
	Description      string    `json:"description,omitempty"`
	TechnicalDetails string    `json:"technical_details,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ComponentListFilters narrows catalog list queries.
type ComponentListFilters struct {
	Category     *enums.ComponentCategory
	Manufacturer *string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Query        string
}

// ComponentListResult is one page of catalog rows plus the next cursor.
type ComponentListResult struct {
	Components []ComponentDTO `json:"components"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func toComponentDTO(component *models.Component) ComponentDTO {
	return ComponentDTO{
		ID:               component.ID,
		Name:             component.Name,
		Category:         string(component.Category),
		Manufacturer:     component.Manufacturer,
		Price:            component.Price.StringFixed(2),
		Currency:         string(component.Currency),
		Description:      component.Description,
		TechnicalDetails: component.TechnicalDetails,
		CreatedAt:        component.CreatedAt,
	}
}
