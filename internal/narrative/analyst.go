package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"swissprop/server/internal/failure"
	"swissprop/server/internal/models"
)

// Analysis is a generated narrative in Markdown and its HTML rendering.
type Analysis struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Analyst asks the narrative service for analyses of already normalized data.
type Analyst struct {
	service  Service
	markdown goldmark.Markdown
	logger   *logrus.Logger
}

// NewAnalyst creates a new analyst
func NewAnalyst(service Service, logger *logrus.Logger) *Analyst {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Analyst{
		service:  service,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   logger,
	}
}

// AnalyzeProperties asks for recommendations on a set of listings.
func (a *Analyst) AnalyzeProperties(ctx context.Context, city, canton string, properties []models.PropertyRecord) (Analysis, error) {
	const op = "analyze_properties"
	if strings.TrimSpace(city) == "" {
		return Analysis{}, failure.Validation(op, "city is required")
	}
	if len(properties) == 0 {
		return Analysis{}, failure.Validation(op, "at least one property is required")
	}

	data, err := json.MarshalIndent(properties, "", "  ")
	if err != nil {
		return Analysis{}, failure.Service(op, fmt.Errorf("failed to encode properties: %w", err))
	}
	location := city
	if strings.TrimSpace(canton) != "" {
		location = fmt.Sprintf("%s (canton %s)", city, canton)
	}
	prompt := fmt.Sprintf("Analyze these properties from %s and provide recommendations:\n%s", location, data)
	return a.run(ctx, op, prompt)
}

// InvestmentInsights asks for investment advice from extracted trend rows.
func (a *Analyst) InvestmentInsights(ctx context.Context, city string, points []models.LocationTrendPoint) (Analysis, error) {
	const op = "investment_insights"
	if len(points) == 0 {
		return Analysis{}, failure.Validation(op, "no trend data for %s", city)
	}

	var sb strings.Builder
	for _, p := range points {
		fmt.Fprintf(&sb, "- %s: CHF %.2f per m², annual increase %.2f%%, rental yield %.2f%%\n",
			p.Location, p.PricePerSqm, p.AnnualIncrease, p.RentalYield)
	}
	prompt := fmt.Sprintf("Provide investment insights for %s based on these trends:\n%s", city, sb.String())
	return a.run(ctx, op, prompt)
}

func (a *Analyst) run(ctx context.Context, op, prompt string) (Analysis, error) {
	if a.service == nil {
		return Analysis{}, failure.Service(op, fmt.Errorf("no narrative service configured"))
	}
	text, err := a.service.Run(ctx, prompt)
	if err != nil {
		a.logger.WithError(err).WithField("op", op).Error("Narrative generation failed")
		return Analysis{}, failure.Service(op, err)
	}

	html, err := a.Render(text)
	if err != nil {
		return Analysis{}, failure.Service(op, err)
	}
	return Analysis{Markdown: text, HTML: html}, nil
}

// Render converts Markdown to HTML.
func (a *Analyst) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := a.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
