// Package overview assembles a descriptive record for a city from static tables.
package overview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"swissprop/server/config"
	"swissprop/server/internal/cantons"
	"swissprop/server/internal/failure"
	"swissprop/server/internal/models"
)

const (
	DataNotAvailable = "Data not available"
	DefaultLocation  = "Located in Switzerland"
)

var ErrMissingInput = errors.New("city and canton are required")

// Locator resolves coordinates for cities missing from the static table.
type Locator interface {
	Locate(ctx context.Context, city, canton string) (orb.Point, error)
}

// Builder combines the population, language, region and feature tables.
type Builder struct {
	registry *cantons.Registry
	logger   *logrus.Logger
	printer  *message.Printer
	locator  Locator
}

// NewBuilder creates a new overview builder
func NewBuilder(registry *cantons.Registry, logger *logrus.Logger) *Builder {
	if registry == nil {
		registry = cantons.Default()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Builder{
		registry: registry,
		logger:   logger,
		printer:  message.NewPrinter(language.English),
	}
}

// Overview builds the record for city in canton. Both arguments are required.
// Each lookup falls back independently when the tables have no entry.
func (b *Builder) Overview(city, canton string) (models.CityOverview, error) {
	city = strings.TrimSpace(city)
	canton = strings.TrimSpace(canton)
	if city == "" || canton == "" {
		return models.CityOverview{}, &failure.Error{Kind: failure.ValidationFailure, Op: "overview", Err: ErrMissingInput}
	}

	languages := b.languages(canton)
	result := models.CityOverview{
		City:               city,
		Population:         DataNotAvailable,
		Canton:             canton,
		GeographicLocation: b.location(canton),
		Languages:          languages,
		MainLanguages:      models.JoinLanguages(languages),
		NotableFeatures:    fmt.Sprintf("A significant city in the canton of %s", canton),
	}

	if c := config.GetCityByName(city); c != nil {
		if c.Population > 0 {
			result.Population = b.printer.Sprintf("%d", c.Population)
		}
		if c.Features != "" {
			result.NotableFeatures = c.Features
		}
		if len(c.Center) == 2 {
			// Centers are stored lat/lng; orb points are lng/lat.
			point := orb.Point{c.Center[1], c.Center[0]}
			result.Coordinates = &point
		}
	}

	b.logger.WithFields(logrus.Fields{
		"city":   city,
		"canton": canton,
		"known":  result.Population != DataNotAvailable,
	}).Debug("Built city overview")

	return result, nil
}

// SetLocator enables coordinate lookups for cities outside the static table.
func (b *Builder) SetLocator(l Locator) {
	b.locator = l
}

// Feature returns the overview as a GeoJSON feature. Coordinates come from
// the static table, then from the locator if one is set; a city neither
// knows produces a feature without geometry.
func (b *Builder) Feature(ctx context.Context, city, canton string) (*geojson.Feature, error) {
	ov, err := b.Overview(city, canton)
	if err != nil {
		return nil, err
	}
	if ov.Coordinates == nil && b.locator != nil {
		point, err := b.locator.Locate(ctx, ov.City, ov.Canton)
		if err != nil {
			b.logger.WithError(err).WithField("city", ov.City).Warn("Could not locate city")
		} else {
			ov.Coordinates = &point
		}
	}

	var feature *geojson.Feature
	if ov.Coordinates != nil {
		feature = geojson.NewFeature(*ov.Coordinates)
	} else {
		feature = &geojson.Feature{Type: "Feature", Properties: geojson.Properties{}}
	}
	feature.Properties["city"] = ov.City
	feature.Properties["population"] = ov.Population
	feature.Properties["canton"] = ov.Canton
	feature.Properties["location"] = ov.GeographicLocation
	feature.Properties["languages"] = ov.MainLanguages
	feature.Properties["features"] = ov.NotableFeatures
	if c := config.GetCityByName(ov.City); c != nil && c.ZoomLevel > 0 {
		feature.Properties["zoom_level"] = c.ZoomLevel
	}
	return feature, nil
}

func (b *Builder) languages(canton string) []string {
	code, ok := b.registry.ResolveCode(canton)
	if !ok {
		return []string{DataNotAvailable}
	}
	langs, ok := config.CantonLanguages[code]
	if !ok || len(langs) == 0 {
		return []string{DataNotAvailable}
	}
	out := make([]string, len(langs))
	copy(out, langs)
	return out
}

// location finds the region whose canton list holds the canton, first by
// exact name and then by substring in either direction.
func (b *Builder) location(canton string) string {
	candidates := []string{canton}
	if code, ok := b.registry.ResolveCode(canton); ok {
		candidates = append(candidates, b.registry.Names(code)...)
	}

	fold := func(s string) string { return cases.Fold().String(s) }

	for _, region := range config.Regions {
		for _, member := range region.Cantons {
			for _, c := range candidates {
				if fold(member) == fold(c) {
					return "Located in " + region.Name
				}
			}
		}
	}
	for _, region := range config.Regions {
		for _, member := range region.Cantons {
			m := fold(member)
			for _, c := range candidates {
				fc := fold(c)
				if strings.Contains(fc, m) || strings.Contains(m, fc) {
					return "Located in " + region.Name
				}
			}
		}
	}
	return DefaultLocation
}
