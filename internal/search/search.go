// Package search orchestrates a property query: it validates the request,
// builds the listing-site URLs and instruction for the extraction service and
// narrows the answer down through the normalizer.
package search

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"swissprop/server/config"
	"swissprop/server/internal/cantons"
	"swissprop/server/internal/extraction"
	"swissprop/server/internal/failure"
	"swissprop/server/internal/models"
	"swissprop/server/internal/normalizer"
)

const op = "search"

// overFetch is how many candidates are requested per wanted listing, so that
// price and canton narrowing still leaves enough records.
const overFetch = 2

// Query is one property search request.
type Query struct {
	City         string
	MinPrice     float64
	MaxPrice     float64
	PropertyType string
	Canton       string
	Limit        int
	Sort         SortOrder
}

// Result is the outcome of a successful search. UnderFilled is set when fewer
// than Requested properties survived normalization.
type Result struct {
	Properties  []models.PropertyRecord `json:"properties"`
	Requested   int                     `json:"requested"`
	UnderFilled bool                    `json:"under_filled"`
	CantonCode  string                  `json:"canton_code,omitempty"`
}

// Service runs property searches against the extraction service.
type Service struct {
	extractor  extraction.Service
	normalizer *normalizer.Normalizer
	registry   *cantons.Registry
	logger     *logrus.Logger
	tracer     trace.Tracer
}

// NewService creates a new search service
func NewService(extractor extraction.Service, registry *cantons.Registry, logger *logrus.Logger) *Service {
	if registry == nil {
		registry = cantons.Default()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Service{
		extractor:  extractor,
		normalizer: normalizer.New(registry, logger),
		registry:   registry,
		logger:     logger,
		tracer:     otel.Tracer("swissprop/server/internal/search"),
	}
}

// Validate checks q without contacting any external service and returns the
// resolved canton code, empty when no canton was given.
func (s *Service) Validate(q Query) (string, error) {
	if strings.TrimSpace(q.City) == "" {
		return "", failure.Validation(op, "city is required")
	}
	if q.MinPrice < 0 || q.MaxPrice < 0 {
		return "", failure.Validation(op, "prices must not be negative")
	}
	if math.IsInf(q.MinPrice, 0) || math.IsInf(q.MaxPrice, 0) {
		return "", failure.Validation(op, "prices must be finite")
	}
	if math.IsNaN(q.MinPrice) || math.IsNaN(q.MaxPrice) || !(models.PriceRange{Min: q.MinPrice, Max: q.MaxPrice}).Valid() {
		return "", failure.Validation(op, "min price %.0f must be below max price %.0f", q.MinPrice, q.MaxPrice)
	}
	if q.Limit <= 0 {
		return "", failure.Validation(op, "limit must be positive, got %d", q.Limit)
	}
	if _, err := ParseSortOrder(string(q.Sort)); err != nil {
		return "", failure.Validation(op, "%v", err)
	}
	if strings.TrimSpace(q.Canton) == "" {
		return "", nil
	}
	code, ok := s.registry.ResolveCode(q.Canton)
	if !ok {
		return "", failure.Validation(op, "unknown canton %q", q.Canton)
	}
	return code, nil
}

// Search runs q. Validation failures are reported before the extraction
// service is contacted; any extraction error is a ServiceFailure and no
// partial data is returned.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "search.Search", trace.WithAttributes(
		attribute.String("city", q.City),
		attribute.String("canton", q.Canton),
		attribute.Int("limit", q.Limit),
	))
	defer span.End()

	code, err := s.Validate(q)
	if err != nil {
		span.SetStatus(codes.Error, "invalid query")
		return Result{}, err
	}
	if s.extractor == nil {
		return Result{}, failure.Service(op, fmt.Errorf("no extraction service configured"))
	}

	urls := BuildURLs(q.City, q.PropertyType)
	hint := ""
	if code != "" {
		hint, _ = s.registry.NameFor(code, "en")
	}

	logger := s.logger.WithFields(logrus.Fields{
		"city":   q.City,
		"canton": code,
		"limit":  q.Limit,
	})
	logger.Info("Starting property search")

	resp, err := s.extractor.Extract(ctx, urls, extraction.Request{
		Prompt: BuildPrompt(q.City, q.PropertyType, q.MinPrice, q.MaxPrice, q.Limit, hint),
		Schema: extraction.PropertiesSchema,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		logger.WithError(err).Error("Property extraction failed")
		return Result{}, failure.Service(op, err)
	}

	properties := s.normalizer.Normalize(resp.Properties, q.MinPrice, q.MaxPrice, code, q.Limit)
	SortProperties(properties, q.Sort)

	result := Result{
		Properties:  properties,
		Requested:   q.Limit,
		UnderFilled: len(properties) < q.Limit,
		CantonCode:  code,
	}
	span.SetAttributes(
		attribute.Int("raw_count", len(resp.Properties)),
		attribute.Int("result_count", len(properties)),
	)
	if result.UnderFilled {
		logger.WithFields(logrus.Fields{
			"raw":      len(resp.Properties),
			"returned": len(properties),
		}).Warn("Fewer properties than requested")
	} else {
		logger.WithField("returned", len(properties)).Info("Property search completed")
	}
	return result, nil
}

// BuildURLs returns the fixed listing-site pages searched for a city.
func BuildURLs(city, propertyType string) []string {
	slug := config.NormalizeCity(city)
	kind := strings.ToLower(strings.TrimSpace(propertyType))
	if kind == "" {
		kind = "real-estate"
	}
	return []string{
		fmt.Sprintf("https://www.homegate.ch/buy/%s/city-%s", kind, slug),
		fmt.Sprintf("https://www.immoscout24.ch/en/real-estate/buy/city-%s", slug),
		fmt.Sprintf("https://www.comparis.ch/immobilien/marktplatz/%s/kaufen", slug),
	}
}

// BuildPrompt assembles the extraction instruction. cantonHint, when set, is
// appended as a preference only; canton filtering happens after extraction.
func BuildPrompt(city, propertyType string, minPrice, maxPrice float64, limit int, cantonHint string) string {
	kind := strings.TrimSpace(propertyType)
	if kind == "" {
		kind = "properties"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Extract at least %d %s listings for sale in %s priced between CHF %.0f and CHF %.0f. ",
		limit*overFetch, kind, city, minPrice, maxPrice)
	sb.WriteString("For each listing include the building name, property type, full address, canton, price, " +
		"description, size, number of rooms, the image URL and the listing URL. ")
	sb.WriteString("Image and listing URLs must be absolute links taken from the page; leave them empty when not present.")
	if cantonHint != "" {
		fmt.Fprintf(&sb, " Focus on properties in the canton of %s.", cantonHint)
	}
	return sb.String()
}
