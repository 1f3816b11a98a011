package normalize

import "strings"

// DefaultCategoryIcon is used for category names missing from categoryIcons.
const DefaultCategoryIcon = "mappin.and.ellipse"

// keys are lower case
var categoryIcons = map[string]string{
	"dining":      "fork.knife",
	"restaurants": "fork.knife",
	"activities":  "figure.hiking",
	"golf":        "figure.golf",
	"shopping":    "bag",
	"medical":     "cross.case",
	"beaches":     "beach.umbrella",
	"beach":       "beach.umbrella",
	"nightlife":   "music.note",
	"grocery":     "cart",
	"coffee":      "cup.and.saucer",
	"fitness":     "dumbbell",
	"spa":         "leaf",
	"other":       DefaultCategoryIcon,
}

// CategoryIcon returns the icon for a category name, ignoring case and
// surrounding whitespace.
func CategoryIcon(name string) string {
	if icon, ok := categoryIcons[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return DefaultCategoryIcon
}
