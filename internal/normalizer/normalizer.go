// Package normalizer repairs raw extraction records and narrows them down to
// the listings that match a query.
package normalizer

import (
	"encoding/json"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"swissprop/server/internal/cantons"
	"swissprop/server/internal/extraction"
	"swissprop/server/internal/models"
	"swissprop/server/internal/pricing"
)

// Alternate keys the extraction service has been seen to use for the two URL
// fields. The canonical key comes first.
var (
	imageURLKeys   = []string{"image_url", "image", "imageUrl", "image_link", "thumbnail", "thumbnail_url", "photo", "picture", "images"}
	listingURLKeys = []string{"listing_url", "url", "link", "listingUrl", "detail_url", "href", "source_url"}
)

// Normalizer turns raw extraction records into bounded PropertyRecord lists.
type Normalizer struct {
	registry *cantons.Registry
	logger   *logrus.Logger
}

// New creates a new normalizer
func New(registry *cantons.Registry, logger *logrus.Logger) *Normalizer {
	if registry == nil {
		registry = cantons.Default()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Normalizer{registry: registry, logger: logger}
}

// Normalize walks raw in extraction order, keeping records whose price lies in
// [minPrice, maxPrice] until limit records are kept. Records after that point
// are never looked at, so a raw order that front-loads out-of-canton listings
// can leave the result short even when later records would qualify. When
// cantonCode is set the kept records are then narrowed to that canton and
// truncated to limit again. Unpriced listings are never kept, whatever the
// range. The result may hold fewer than limit records.
func (n *Normalizer) Normalize(raw []extraction.Record, minPrice, maxPrice float64, cantonCode string, limit int) []models.PropertyRecord {
	if limit <= 0 {
		return []models.PropertyRecord{}
	}
	priceRange := models.PriceRange{Min: minPrice, Max: maxPrice}

	kept := make([]models.PropertyRecord, 0, limit)
	evaluated := 0
	for _, r := range raw {
		if len(kept) >= limit {
			break
		}
		evaluated++
		record := n.ToRecord(r)
		if price := pricing.ParsePrice(record.Price); pricing.IsPriced(price) && priceRange.Contains(price) {
			kept = append(kept, record)
		}
	}

	if cantonCode != "" {
		filtered := make([]models.PropertyRecord, 0, len(kept))
		for _, record := range kept {
			if record.Canton == cantonCode {
				filtered = append(filtered, record)
			}
		}
		kept = filtered
		if len(kept) > limit {
			kept = kept[:limit]
		}
	}

	n.logger.WithFields(logrus.Fields{
		"raw":       len(raw),
		"evaluated": evaluated,
		"kept":      len(kept),
		"canton":    cantonCode,
		"limit":     limit,
	}).Debug("Normalized extraction records")

	return kept
}

// ToRecord maps one raw record onto a PropertyRecord. Missing image and
// listing URLs are taken from alternate fields when those hold an absolute
// http(s) URL; otherwise they stay nil.
func (n *Normalizer) ToRecord(raw extraction.Record) models.PropertyRecord {
	record := models.PropertyRecord{
		BuildingName:    stringField(raw, "building_name"),
		PropertyType:    stringField(raw, "property_type"),
		LocationAddress: stringField(raw, "location_address"),
		Price:           stringField(raw, "price"),
		Description:     stringField(raw, "description"),
		Size:            optionalField(raw, "size"),
		Rooms:           optionalField(raw, "rooms"),
		ImageURL:        firstURL(raw, imageURLKeys),
		ListingURL:      firstURL(raw, listingURLKeys),
	}

	canton := stringField(raw, "canton")
	if code, ok := n.registry.ResolveCode(canton); ok {
		record.Canton = code
	} else {
		record.Canton = strings.ToUpper(canton)
	}
	return record
}

func stringField(raw extraction.Record, key string) string {
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func optionalField(raw extraction.Record, key string) *string {
	value := stringField(raw, key)
	if value == "" {
		return nil
	}
	return &value
}

func firstURL(raw extraction.Record, keys []string) *string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		var candidate string
		switch v := value.(type) {
		case string:
			candidate = v
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && isAbsoluteURL(s) {
					candidate = s
					break
				}
			}
		case []string:
			if len(v) > 0 {
				candidate = v[0]
			}
		}
		candidate = strings.TrimSpace(candidate)
		if isAbsoluteURL(candidate) {
			return &candidate
		}
	}
	return nil
}

func isAbsoluteURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
