package models

import (
	"time"

	"github.com/google/uuid"
)

// Pc is a persisted build. The name carries a UNIQUE constraint; the build
// persister relies on it to probe suffixed names instead of check-then-insert.
type Pc struct {
	ID           uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string        `gorm:"column:name;not null;uniqueIndex:pcs_name_key"`
	Description  string        `gorm:"column:description"`
	IsCustomized bool          `gorm:"column:is_customized;not null;default:false"`
	Components   []PcComponent `gorm:"foreignKey:PcID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the GORM default.
func (Pc) TableName() string {
	return "pcs"
}

// PcComponent is one row of the pc/component join table. A build cannot
// reference the same component twice.
type PcComponent struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PcID        uuid.UUID  `gorm:"column:pc_id;type:uuid;not null;uniqueIndex:pc_components_pc_component_key"`
	ComponentID uuid.UUID  `gorm:"column:component_id;type:uuid;not null;uniqueIndex:pc_components_pc_component_key"`
	Component   *Component `gorm:"foreignKey:ComponentID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the GORM default.
func (PcComponent) TableName() string {
	return "pc_components"
}
