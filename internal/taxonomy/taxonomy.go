// Package taxonomy holds the closed waste-category table and the
// classification normalizer. The table is immutable static data loaded
// once at build time; there is no runtime mutation path.
package taxonomy

import (
	"strings"

	"cleancity/pkg/models"
)

// definitions is the canonical category table. Declaration order is the
// normalizer's priority order: when several categories match a label by
// keyword, the earliest declared wins. Ties are broken by order, not
// specificity; that coarseness is a documented approximation.
var definitions = []models.CategoryDefinition{
	{
		Name: models.CategoryRecycle,
		Keywords: []string{
			"plastic", "bottle", "can", "paper", "cardboard", "glass",
			"metal", "aluminum", "tin", "newspaper", "magazine", "jar",
		},
		Color:      "#4CAF50",
		Icon:       "recycle",
		CO2PerItem: 0.5,
		Points:     10,
		Guidance:   "Rinse the item and place it in a recycling bin. Remove caps and labels where possible.",
	},
	{
		Name: models.CategoryCompost,
		Keywords: []string{
			"food", "banana", "apple", "peel", "organic", "leaf", "leaves",
			"vegetable", "fruit", "coffee", "tea", "eggshell", "garden",
		},
		Color:      "#8BC34A",
		Icon:       "compost",
		CO2PerItem: 0.3,
		Points:     8,
		Guidance:   "Add to a compost bin or green-waste collection. Keep out plastics and stickers.",
	},
	{
		Name: models.CategoryEwaste,
		Keywords: []string{
			"battery", "phone", "laptop", "charger", "cable", "electronic",
			"computer", "tablet", "screen", "appliance", "headphone",
		},
		Color:      "#2196F3",
		Icon:       "ewaste",
		CO2PerItem: 1.2,
		Points:     15,
		Guidance:   "Take to an e-waste drop-off point. Never put electronics in household bins.",
	},
	{
		Name: models.CategoryHazardous,
		Keywords: []string{
			"paint", "chemical", "oil", "medicine", "bulb", "syringe",
			"pesticide", "solvent", "aerosol", "thermometer",
		},
		Color:      "#F44336",
		Icon:       "hazard",
		CO2PerItem: 0.0,
		Points:     12,
		Guidance:   "Hazardous waste needs a dedicated collection facility. Do not mix with general waste.",
	},
	{
		Name: models.CategoryLandfill,
		Keywords: []string{
			"wrapper", "styrofoam", "diaper", "cigarette", "ceramic",
			"tissue", "chip bag",
		},
		Color:      "#9E9E9E",
		Icon:       "trash",
		CO2PerItem: 0.1,
		Points:     5,
		Guidance:   "Dispose of in general waste. Check local guidelines before assuming an item is landfill.",
	},
}

// byName is the read-only lookup index, built once at init.
var byName = func() map[models.Category]*models.CategoryDefinition {
	m := make(map[models.Category]*models.CategoryDefinition, len(definitions))
	for i := range definitions {
		m[definitions[i].Name] = &definitions[i]
	}
	return m
}()

// All returns the category table in declaration order.
func All() []models.CategoryDefinition {
	out := make([]models.CategoryDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for a category name, if known.
func Lookup(name models.Category) (*models.CategoryDefinition, bool) {
	def, ok := byName[name]
	return def, ok
}

// Fallback returns the designated fallback category (landfill).
func Fallback() *models.CategoryDefinition {
	return byName[models.CategoryLandfill]
}

// Normalize resolves an upstream label plus raw category guess to a
// canonical taxonomy entry. Pure and total: the fallback guarantees a
// result for any input.
//
// Resolution order:
//  1. exact name match on the uppercased, trimmed category guess
//  2. first category (declaration order) with a keyword that is a
//     substring of the lowercased label
//  3. the landfill fallback
func Normalize(rawLabel, rawCategoryGuess string) *models.CategoryDefinition {
	guess := models.Category(strings.ToUpper(strings.TrimSpace(rawCategoryGuess)))
	if def, ok := byName[guess]; ok {
		return def
	}

	label := strings.ToLower(rawLabel)
	for i := range definitions {
		for _, kw := range definitions[i].Keywords {
			if strings.Contains(label, kw) {
				return &definitions[i]
			}
		}
	}

	return Fallback()
}
