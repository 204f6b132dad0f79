package models

import (
	"strings"

	"github.com/paulmach/orb"
)

// CityOverview is the descriptive record built from the static city tables.
// Every display field falls back to a default and is never empty.
type CityOverview struct {
	City               string     `json:"city"`
	Population         string     `json:"Population"`
	Canton             string     `json:"Canton"`
	GeographicLocation string     `json:"Geographic Location"`
	Languages          []string   `json:"-"`
	MainLanguages      string     `json:"Main Language(s)"`
	NotableFeatures    string     `json:"Notable Features"`
	Coordinates        *orb.Point `json:"coordinates,omitempty"`
}

// JoinLanguages renders a language list the way it is displayed.
func JoinLanguages(languages []string) string {
	return strings.Join(languages, ", ")
}
