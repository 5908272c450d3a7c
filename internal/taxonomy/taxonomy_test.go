package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleancity/pkg/models"
)

func TestNormalizeCategoryGuess(t *testing.T) {
	tests := []struct {
		name  string
		label string
		guess string
		want  models.Category
	}{
		{"exact match", "some item", "RECYCLE", models.CategoryRecycle},
		{"lowercase guess", "some item", "compost", models.CategoryCompost},
		{"whitespace trimmed", "some item", "  ewaste  ", models.CategoryEwaste},
		{"guess wins over label keywords", "plastic bottle", "HAZARDOUS", models.CategoryHazardous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Normalize(tt.label, tt.guess)
			assert.Equal(t, tt.want, def.Name)
		})
	}
}

func TestNormalizeKeywordFallback(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  models.Category
	}{
		{"recycle keyword", "empty plastic bottle", models.CategoryRecycle},
		{"compost keyword", "banana peel", models.CategoryCompost},
		{"ewaste keyword", "old phone charger", models.CategoryEwaste},
		{"hazardous keyword", "expired medicine", models.CategoryHazardous},
		{"landfill keyword", "used styrofoam cup", models.CategoryLandfill},
		{"case-insensitive label", "GLASS JAR", models.CategoryRecycle},
		// "tin can" matches both recycle ("can") and nothing earlier, but
		// declaration order decides when several categories share a label.
		{"declaration order wins", "battery in a plastic bag", models.CategoryRecycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Normalize(tt.label, "not-a-category")
			assert.Equal(t, tt.want, def.Name)
		})
	}
}

func TestNormalizeFallsBackToLandfill(t *testing.T) {
	def := Normalize("mystery object", "")
	require.NotNil(t, def)
	assert.Equal(t, models.CategoryLandfill, def.Name)
	assert.Equal(t, 5, def.Points)
	assert.InDelta(t, 0.1, def.CO2PerItem, 1e-9)
}

func TestNormalizeNeverNil(t *testing.T) {
	inputs := []struct{ label, guess string }{
		{"", ""},
		{"   ", "   "},
		{"zzzz", "zzzz"},
	}
	for _, in := range inputs {
		def := Normalize(in.label, in.guess)
		require.NotNil(t, def)
		assert.True(t, def.Name.Valid())
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	assert.Equal(t, models.CategoryRecycle, all[0].Name)
	assert.Equal(t, models.CategoryLandfill, all[4].Name)

	// Mutating the returned slice must not touch the canonical table.
	all[0].Points = 9999
	again := All()
	assert.Equal(t, 10, again[0].Points)
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(models.CategoryEwaste)
	require.True(t, ok)
	assert.Equal(t, 15, def.Points)
	assert.InDelta(t, 1.2, def.CO2PerItem, 1e-9)

	_, ok = Lookup(models.Category("PLASMA"))
	assert.False(t, ok)
}

func TestFallback(t *testing.T) {
	def := Fallback()
	require.NotNil(t, def)
	assert.Equal(t, models.CategoryLandfill, def.Name)
}
