// Package trends reduces scraped market-analysis pages into fixed five-slot
// summaries for a city or a canton.
package trends

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"swissprop/server/config"
	"swissprop/server/internal/cantons"
	"swissprop/server/internal/extraction"
	"swissprop/server/internal/failure"
	"swissprop/server/internal/models"
)

const (
	HeaderPriceTrends   = "Price Trends"
	HeaderDemand        = "Demand"
	HeaderSupply        = "Supply"
	HeaderRentalYield   = "Rental Yield"
	HeaderFutureOutlook = "Future Outlook"

	// DataUnavailable fills every slot when the extraction service fails.
	DataUnavailable = "Data Unavailable"

	marketAnalysisURL = "https://www.homegate.ch/market-analysis/"
)

// Headers lists the summary slots in their fixed order.
var Headers = [5]string{HeaderPriceTrends, HeaderDemand, HeaderSupply, HeaderRentalYield, HeaderFutureOutlook}

// Synthesizer builds market trend summaries from the extraction service.
type Synthesizer struct {
	extractor extraction.Service
	registry  *cantons.Registry
	logger    *logrus.Logger
	tracer    trace.Tracer
}

// NewSynthesizer creates a new trend synthesizer
func NewSynthesizer(extractor extraction.Service, registry *cantons.Registry, logger *logrus.Logger) *Synthesizer {
	if registry == nil {
		registry = cantons.Default()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Synthesizer{
		extractor: extractor,
		registry:  registry,
		logger:    logger,
		tracer:    otel.Tracer("swissprop/server/internal/trends"),
	}
}

// CityURLs returns the market-analysis pages scraped for a city and, when
// canton is set, for its canton.
func CityURLs(city, canton string) []string {
	urls := []string{marketAnalysisURL + config.NormalizeCity(city)}
	if strings.TrimSpace(canton) != "" {
		urls = append(urls, CantonURL(canton))
	}
	return urls
}

// CantonURL returns the market-analysis page of a canton.
func CantonURL(canton string) string {
	return marketAnalysisURL + "canton-" + config.NormalizeCity(canton)
}

// Trends returns the five-slot summary for city. It never fails: a missing
// match yields per-slot "unable to assess" messages and an extraction failure
// yields DataUnavailable in every slot.
func (s *Synthesizer) Trends(ctx context.Context, city, canton string) models.MarketTrendSummary {
	ctx, span := s.tracer.Start(ctx, "trends.Trends", trace.WithAttributes(
		attribute.String("city", city),
		attribute.String("canton", canton),
	))
	defer span.End()

	summary := models.MarketTrendSummary{City: city}
	if strings.TrimSpace(city) == "" {
		summary.MarketTrends = unassessed(city)
		return summary
	}

	points, err := s.Locations(ctx, city, canton)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		s.logger.WithError(err).WithField("city", city).Warn("Market trend extraction failed")
		summary.MarketTrends = Unavailable()
		return summary
	}

	point, ok := matchLocation(points, func(location string) bool {
		return fold(location) == fold(city)
	})
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"city":      city,
			"locations": len(points),
		}).Info("No trend data matched city")
		summary.MarketTrends = unassessed(city)
		return summary
	}

	summary.MarketTrends = fromPoint(point)
	return summary
}

// CantonStatistics returns the five-slot summary scoped to a canton page.
// A record matches when its location names the same canton in any language.
func (s *Synthesizer) CantonStatistics(ctx context.Context, canton string) models.CantonStatistics {
	ctx, span := s.tracer.Start(ctx, "trends.CantonStatistics", trace.WithAttributes(
		attribute.String("canton", canton),
	))
	defer span.End()

	stats := models.CantonStatistics{CantonName: canton}
	if strings.TrimSpace(canton) == "" {
		stats.RealEstateStatistics = unassessed(canton)
		return stats
	}

	prompt := fmt.Sprintf("Extract real estate statistics for the canton of %s: price per square meter in CHF, "+
		"annual price increase in percent and gross rental yield in percent.", canton)
	points, err := s.extract(ctx, []string{CantonURL(canton)}, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		s.logger.WithError(err).WithField("canton", canton).Warn("Canton statistics extraction failed")
		stats.RealEstateStatistics = Unavailable()
		return stats
	}

	code, resolved := s.registry.ResolveCode(canton)
	point, ok := matchLocation(points, func(location string) bool {
		if fold(location) == fold(canton) {
			return true
		}
		if !resolved {
			return false
		}
		other, ok := s.registry.ResolveCode(location)
		return ok && other == code
	})
	if !ok {
		stats.RealEstateStatistics = unassessed(canton)
		return stats
	}

	stats.RealEstateStatistics = fromPoint(point)
	return stats
}

// Locations extracts the trend rows for a city (and its canton page). Unlike
// Trends it reports failures, as a ServiceFailure.
func (s *Synthesizer) Locations(ctx context.Context, city, canton string) ([]models.LocationTrendPoint, error) {
	prompt := fmt.Sprintf("Extract price trends for %s: price per square meter in CHF, annual price increase "+
		"in percent and gross rental yield in percent for every location listed.", city)
	if strings.TrimSpace(canton) != "" {
		prompt += fmt.Sprintf(" Include the figures for the canton of %s.", canton)
	}
	return s.extract(ctx, CityURLs(city, canton), prompt)
}

func (s *Synthesizer) extract(ctx context.Context, urls []string, prompt string) ([]models.LocationTrendPoint, error) {
	if s.extractor == nil {
		return nil, failure.Service("trends", fmt.Errorf("no extraction service configured"))
	}
	resp, err := s.extractor.Extract(ctx, urls, extraction.Request{
		Prompt: prompt,
		Schema: extraction.LocationsSchema,
	})
	if err != nil {
		return nil, failure.Service("trends", err)
	}
	return ToPoints(resp.Locations), nil
}

// Unavailable returns the uniform placeholder summary.
func Unavailable() [5]models.TrendItem {
	var items [5]models.TrendItem
	for i, header := range Headers {
		items[i] = models.TrendItem{Header: header, Subheader: DataUnavailable}
	}
	return items
}

func unassessed(subject string) [5]models.TrendItem {
	if strings.TrimSpace(subject) == "" {
		subject = "this location"
	}
	return [5]models.TrendItem{
		{Header: HeaderPriceTrends, Subheader: "Unable to assess price trends for " + subject},
		{Header: HeaderDemand, Subheader: "Unable to assess demand for " + subject},
		{Header: HeaderSupply, Subheader: "Unable to assess supply for " + subject},
		{Header: HeaderRentalYield, Subheader: "Unable to assess rental yield for " + subject},
		{Header: HeaderFutureOutlook, Subheader: "Unable to assess the future outlook for " + subject},
	}
}

func fromPoint(p models.LocationTrendPoint) [5]models.TrendItem {
	printer := message.NewPrinter(language.English)
	return [5]models.TrendItem{
		{Header: HeaderPriceTrends, Subheader: printer.Sprintf("Average price: CHF %.2f per m²", p.PricePerSqm)},
		{Header: HeaderDemand, Subheader: demand(printer, p.AnnualIncrease)},
		{Header: HeaderSupply, Subheader: supply(p.AnnualIncrease)},
		{Header: HeaderRentalYield, Subheader: printer.Sprintf("Gross rental yield: %.2f%%", p.RentalYield)},
		{Header: HeaderFutureOutlook, Subheader: outlook(p.AnnualIncrease, p.RentalYield)},
	}
}

func demand(printer *message.Printer, increase float64) string {
	switch {
	case increase > 5:
		return printer.Sprintf("Very strong demand: prices up %.2f%% year over year", increase)
	case increase > 2:
		return printer.Sprintf("Strong demand: prices up %.2f%% year over year", increase)
	case increase > 0:
		return printer.Sprintf("Moderate demand: prices up %.2f%% year over year", increase)
	case increase == 0:
		return "Stable demand: prices unchanged year over year"
	default:
		return printer.Sprintf("Softening demand: prices down %.2f%% year over year", -increase)
	}
}

func supply(increase float64) string {
	switch {
	case increase > 2:
		return "Tight supply: rising prices point to limited inventory"
	case increase >= 0:
		return "Balanced supply: inventory broadly matches demand"
	default:
		return "Ample supply: falling prices point to growing inventory"
	}
}

func outlook(increase, yield float64) string {
	switch {
	case increase > 0 && yield >= 3:
		return "Positive: sustained price growth with solid rental returns"
	case increase > 0:
		return "Moderately positive: prices rising while rental returns stay below 3%"
	case yield >= 3:
		return "Stable: flat or falling prices offset by solid rental returns"
	default:
		return "Cautious: flat or falling prices and modest rental returns"
	}
}

func matchLocation(points []models.LocationTrendPoint, match func(string) bool) (models.LocationTrendPoint, bool) {
	for _, p := range points {
		if match(p.Location) {
			return p, true
		}
	}
	return models.LocationTrendPoint{}, false
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
