package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildforge/buildforge-backend/pkg/enums"
)

// Component represents a single catalog part. Rows are written by the bulk
// import tool and treated as immutable by the recommendation pipeline.
type Component struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string                  `gorm:"column:name;not null"`
	Category         enums.ComponentCategory `gorm:"column:category;not null"`
	Manufacturer     string                  `gorm:"column:manufacturer;not null"`
	Price            decimal.Decimal         `gorm:"column:price;type:numeric(10,2);not null"`
	Currency         enums.Currency          `gorm:"column:currency;not null;default:EUR"`
	Description      string                  `gorm:"column:description"`
	TechnicalDetails string                  `gorm:"column:technical_details"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the GORM default.
func (Component) TableName() string {
	return "components"
}
