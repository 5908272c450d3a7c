package geo

import (
	"sort"

	"cleancity/pkg/models"
)

// FindNearest ranks the given bins by distance from (lat, lon), keeping
// only bins eligible for the category. An empty category disables the
// eligibility filter; maxRadiusKm <= 0 means unlimited.
// The sort is stable, so equal distances keep store order; the result is
// truncated to limit. An empty result is not an error.
//
// The store is scanned fully on every call. At the expected scale
// (hundreds of bins) that is fine, and the contract lets a spatial index
// replace the scan later without changing caller-visible ordering.
func FindNearest(bins []models.BinLocation, lat, lon float64, category models.Category, limit int, maxRadiusKm float64) []models.RankedBin {
	ranked := make([]models.RankedBin, 0, len(bins))
	for _, b := range bins {
		if category != "" && !b.AcceptsCategory(category) {
			continue
		}
		d := HaversineKm(lat, lon, b.Latitude, b.Longitude)
		if maxRadiusKm > 0 && d > maxRadiusKm {
			continue
		}
		ranked = append(ranked, models.RankedBin{Bin: b, DistanceKm: d})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
