package trends

import (
	"encoding/json"
	"strconv"
	"strings"

	"swissprop/server/internal/extraction"
	"swissprop/server/internal/models"
)

// ToPoints converts raw location records, skipping rows without a location
// name. Missing or unreadable figures are 0; negative prices per m² are
// clamped to 0.
func ToPoints(records []extraction.Record) []models.LocationTrendPoint {
	points := make([]models.LocationTrendPoint, 0, len(records))
	for _, r := range records {
		location, _ := r["location"].(string)
		location = strings.TrimSpace(location)
		if location == "" {
			continue
		}
		p := models.LocationTrendPoint{
			Location:       location,
			PricePerSqm:    number(r["price_per_sqm"]),
			AnnualIncrease: number(r["annual_increase"]),
			RentalYield:    number(r["rental_yield"]),
		}
		if p.PricePerSqm < 0 {
			p.PricePerSqm = 0
		}
		points = append(points, p)
	}
	return points
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "%"))
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
