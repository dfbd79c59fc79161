package importer

import "strings"

// knownBrands maps a lowercase needle found in the product name to the
// canonical manufacturer label. Rows whose name matches no entry are skipped.
var knownBrands = []struct {
	needle string
	label  string
}{
	{"amd", "AMD"},
	{"intel", "Intel"},
	{"nvidia", "NVIDIA"},
	{"gigabyte", "Gigabyte"},
	{"msi", "MSI"},
	{"asus", "ASUS"},
	{"corsair", "Corsair"},
	{"samsung", "Samsung"},
	{"crucial", "Crucial"},
	{"seagate", "Seagate"},
	{"western digital", "Western Digital"},
	{"zebronics", "ZEBRONICS"},
	{"ant esports", "Ant Esports"},
	{"cooler master", "Cooler Master"},
	{"deepcool", "Deepcool"},
	{"frontech", "Frontech"},
	{"artis", "Artis"},
	{"ars infotech", "ARS Infotech"},
	{"matrix", "Matrix"},
	{"rubaintech", "Rubaintech"},
	{"wefly", "WEFLY"},
	{"techon", "TECHON"},
	{"betaohm", "Betaohm"},
	{"gigastar", "GIGASTAR"},
	{"asrock", "ASRock"},
}

// detectManufacturer returns the canonical brand for a product name, or ""
// when no known brand appears in it.
func detectManufacturer(name string) string {
	lower := strings.ToLower(name)
	for _, brand := range knownBrands {
		if strings.Contains(lower, brand.needle) {
			return brand.label
		}
	}
	return ""
}
