package models

// Category is one of the fixed waste-handling classes. The set is closed
// and known at build time; see internal/taxonomy for the definitions.
type Category string

const (
	CategoryRecycle   Category = "RECYCLE"
	CategoryCompost   Category = "COMPOST"
	CategoryEwaste    Category = "EWASTE"
	CategoryHazardous Category = "HAZARDOUS"
	CategoryLandfill  Category = "LANDFILL"
)

// Valid reports whether c names a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRecycle, CategoryCompost, CategoryEwaste, CategoryHazardous, CategoryLandfill:
		return true
	}
	return false
}

// CategoryDefinition is an immutable taxonomy entry. Keywords are
// lowercased substrings used for fallback matching when the upstream
// category guess does not resolve.
type CategoryDefinition struct {
	Name       Category `json:"name"`
	Keywords   []string `json:"keywords"`
	Color      string   `json:"color"`
	Icon       string   `json:"icon"`
	CO2PerItem float64  `json:"co2_per_item_kg"`
	Points     int      `json:"points_per_item"`
	Guidance   string   `json:"guidance"`
}
