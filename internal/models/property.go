package models

import "strings"

// PriceOnRequest is the sentinel listings use when no asking price is published.
const PriceOnRequest = "Price on request"

// summaryLength is the number of description runes kept by Summary.
const summaryLength = 200

// PropertyRecord is a single listing as handed to callers after normalization.
type PropertyRecord struct {
	BuildingName    string  `json:"building_name"`
	PropertyType    string  `json:"property_type"`
	LocationAddress string  `json:"location_address"`
	Canton          string  `json:"canton"`
	Price           string  `json:"price"`
	Description     string  `json:"description"`
	Size            *string `json:"size"`
	Rooms           *string `json:"rooms"`
	ImageURL        *string `json:"image_url"`
	ListingURL      *string `json:"listing_url"`
}

// Summary returns the description cut to 200 runes with a trailing ellipsis.
func (p PropertyRecord) Summary() string {
	runes := []rune(p.Description)
	if len(runes) <= summaryLength {
		return p.Description
	}
	return strings.TrimSpace(string(runes[:summaryLength])) + "..."
}

// LocationTrendPoint is one location row extracted from a market-analysis page.
type LocationTrendPoint struct {
	Location       string  `json:"location"`
	PricePerSqm    float64 `json:"price_per_sqm"`
	AnnualIncrease float64 `json:"annual_increase"`
	RentalYield    float64 `json:"rental_yield"`
}

// TrendItem is one header/subheader bullet of a trend summary.
type TrendItem struct {
	Header    string `json:"header"`
	Subheader string `json:"subheader"`
}

// MarketTrendSummary always holds exactly five items in the order
// Price Trends, Demand, Supply, Rental Yield, Future Outlook.
type MarketTrendSummary struct {
	City         string       `json:"city"`
	MarketTrends [5]TrendItem `json:"market_trends"`
}

// CantonStatistics is the canton-scoped counterpart of MarketTrendSummary.
type CantonStatistics struct {
	CantonName           string       `json:"canton_name"`
	RealEstateStatistics [5]TrendItem `json:"real_estate_statistics"`
}
