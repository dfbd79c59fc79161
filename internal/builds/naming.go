package build

import (
	"regexp"
	"strings"
)

// DefaultBuildName is used when the composer response carries no name.
const DefaultBuildName = "Custom Build"

// maxNameProbes bounds the suffix search for a free build name.
const maxNameProbes = 50

var trailingParentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// normalizePartName strips a trailing parenthetical manufacturer annotation
// from an LLM-provided part name, e.g. "Ryzen 5 5600X (AMD)" -> "Ryzen 5 5600X".
func normalizePartName(name string) string {
	cleaned := trailingParentheticalRe.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.TrimSpace(cleaned)
}
