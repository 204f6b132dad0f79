package models

// PriceRange is an inclusive price window used to filter listings.
type PriceRange struct {
	Min float64 `json:"min_price"`
	Max float64 `json:"max_price"`
}

// Contains checks if a parsed price lies within the range, bounds included
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Valid reports whether the range can match anything meaningful.
// A range whose minimum is not strictly below its maximum is rejected.
func (r PriceRange) Valid() bool {
	return r.Min >= 0 && r.Min < r.Max
}
