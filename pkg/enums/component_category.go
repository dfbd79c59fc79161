package enums

import "fmt"

// ComponentCategory represents the canonical part categories supported by the catalog.
type ComponentCategory string

const (
	ComponentCategoryCPU         ComponentCategory = "cpu"
	ComponentCategoryGPU         ComponentCategory = "gpu"
	ComponentCategoryRAM         ComponentCategory = "ram"
	ComponentCategoryStorage     ComponentCategory = "storage"
	ComponentCategoryPowerSupply ComponentCategory = "power_supply"
	ComponentCategoryCase        ComponentCategory = "case"
	ComponentCategoryMotherboard ComponentCategory = "motherboard"
	ComponentCategoryCooler      ComponentCategory = "cooler"
)

var validComponentCategories = []ComponentCategory{
	ComponentCategoryCPU,
	ComponentCategoryGPU,
	ComponentCategoryRAM,
	ComponentCategoryStorage,
	ComponentCategoryPowerSupply,
	ComponentCategoryCase,
	ComponentCategoryMotherboard,
	ComponentCategoryCooler,
}

// AllComponentCategories returns every category a complete build must cover.
func AllComponentCategories() []ComponentCategory {
	out := make([]ComponentCategory, len(validComponentCategories))
	copy(out, validComponentCategories)
	return out
}

// String implements fmt.Stringer.
func (c ComponentCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComponentCategory.
func (c ComponentCategory) IsValid() bool {
	for _, candidate := range validComponentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComponentCategory converts raw input into a ComponentCategory.
func ParseComponentCategory(value string) (ComponentCategory, error) {
	for _, candidate := range validComponentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid component category %q", value)
}
