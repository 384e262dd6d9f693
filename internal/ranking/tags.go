package ranking

import (
	"sort"

	"github.com/dharmasatrya/jetset/internal/models"
)

// ApplyTags marks every flight priced at minPrice as cheapest and every
// flight whose duration label equals fastestLabel as fastest. Ties are all
// tagged. Tags are appended in place and the slice is returned.
func ApplyTags(flights []models.Flight, minPrice float64, fastestLabel string) []models.Flight {
	for i := range flights {
		if flights[i].Price == minPrice {
			flights[i].Tags = append(flights[i].Tags, models.TagCheapest)
		}
		if fastestLabel != "" && flights[i].Duration == fastestLabel {
			flights[i].Tags = append(flights[i].Tags, models.TagFastest)
		}
	}
	return flights
}

// Highlights are the offers called out in the reply text.
type Highlights struct {
	Cheapest *models.Flight
	Fastest  *models.Flight
	Budget   *models.Flight
}

// Pick selects the first cheapest-tagged flight, the first fastest-tagged
// flight and, as budget alternative, the cheapest remaining flight that is
// neither of those.
func Pick(flights []models.Flight) Highlights {
	var h Highlights
	for i := range flights {
		if h.Cheapest == nil && flights[i].HasTag(models.TagCheapest) {
			h.Cheapest = &flights[i]
		}
		if h.Fastest == nil && flights[i].HasTag(models.TagFastest) {
			h.Fastest = &flights[i]
		}
	}

	for _, f := range SortByPrice(flights) {
		if isSame(h.Cheapest, f) || isSame(h.Fastest, f) {
			continue
		}
		budget := f
		h.Budget = &budget
		break
	}

	return h
}

// SortByPrice returns a copy ordered by price, then duration, keeping input
// order for full ties.
func SortByPrice(flights []models.Flight) []models.Flight {
	sorted := make([]models.Flight, len(flights))
	copy(sorted, flights)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Price != sorted[j].Price {
			return sorted[i].Price < sorted[j].Price
		}
		return sorted[i].DurationMinutes < sorted[j].DurationMinutes
	})

	return sorted
}

func PriceRange(flights []models.Flight) (float64, float64) {
	if len(flights) == 0 {
		return 0, 0
	}

	lo, hi := flights[0].Price, flights[0].Price
	for _, f := range flights[1:] {
		if f.Price < lo {
			lo = f.Price
		}
		if f.Price > hi {
			hi = f.Price
		}
	}
	return lo, hi
}

func isSame(picked *models.Flight, f models.Flight) bool {
	return picked != nil && picked.ID == f.ID
}
