package config

import "strings"

// City represents a city configuration
type City struct {
	Name       string    `json:"name"`
	Canton     string    `json:"canton"`
	Center     []float64 `json:"center"`
	ZoomLevel  int       `json:"zoom_level"`
	Population int       `json:"population"`
	Features   string    `json:"features"`
}

// SupportedCities is the static table of Swiss cities with known figures
var SupportedCities = []City{
	{Name: "Zürich", Canton: "ZH", Center: []float64{47.3769, 8.5417}, ZoomLevel: 12, Population: 402762, Features: "Financial hub, largest city"},
	{Name: "Geneva", Canton: "GE", Center: []float64{46.2044, 6.1432}, ZoomLevel: 13, Population: 203856, Features: "International organizations, CERN"},
	{Name: "Basel", Canton: "BS", Center: []float64{47.5596, 7.5886}, ZoomLevel: 13, Population: 172258, Features: "Pharmaceutical industry, art and culture"},
	{Name: "Bern", Canton: "BE", Center: []float64{46.9480, 7.4474}, ZoomLevel: 13, Population: 133883, Features: "Capital city, UNESCO World Heritage Old Town"},
	{Name: "Lausanne", Canton: "VD", Center: []float64{46.5197, 6.6323}, ZoomLevel: 13, Population: 139111, Features: "Olympic Capital, university city"},
	{Name: "Winterthur", Canton: "ZH", Center: []float64{47.4988, 8.7237}, ZoomLevel: 13, Population: 111851, Features: "Cultural city, museums"},
	{Name: "Lucerne", Canton: "LU", Center: []float64{47.0502, 8.3093}, ZoomLevel: 13, Population: 81592, Features: "Tourism, Lake Lucerne"},
	{Name: "St. Gallen", Canton: "SG", Center: []float64{47.4245, 9.3767}, ZoomLevel: 13, Population: 75833, Features: "Textile industry, University of St. Gallen"},
	{Name: "Lugano", Canton: "TI", Center: []float64{46.0037, 8.9511}, ZoomLevel: 13, Population: 62615, Features: "Financial center, Mediterranean flair"},
	{Name: "Biel/Bienne", Canton: "BE", Center: []float64{47.1368, 7.2468}, ZoomLevel: 13, Population: 55206, Features: "Bilingual city, watchmaking industry"},
}

// GetCityNames returns a list of supported city names
func GetCityNames() []string {
	names := make([]string, len(SupportedCities))
	for i, city := range SupportedCities {
		names[i] = city.Name
	}
	return names
}

// GetCityByName returns a city configuration by exact name
func GetCityByName(name string) *City {
	for i := range SupportedCities {
		if SupportedCities[i].Name == name {
			city := SupportedCities[i]
			return &city
		}
	}
	return nil
}

// NormalizeCity turns a city name into the slug used by listing-site URLs:
// lower case with every space replaced by a hyphen.
func NormalizeCity(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
