package trends

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swissprop/server/internal/cantons"
	"swissprop/server/internal/extraction"
	"swissprop/server/internal/failure"
)

// MockExtractor is a mock implementation of extraction.Service
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, urls []string, req extraction.Request) (extraction.Response, error) {
	args := m.Called(ctx, urls, req)
	return args.Get(0).(extraction.Response), args.Error(1)
}

func newTestSynthesizer(extractor extraction.Service) *Synthesizer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewSynthesizer(extractor, cantons.Default(), logger)
}

func TestTrends_MatchingLocation(t *testing.T) {
	extractor := &MockExtractor{}
	extractor.On("Extract", mock.Anything,
		[]string{"https://www.homegate.ch/market-analysis/zurich", "https://www.homegate.ch/market-analysis/canton-zh"},
		mock.AnythingOfType("extraction.Request"),
	).Return(extraction.Response{Locations: []extraction.Record{
		{"location": "Winterthur", "price_per_sqm": 9000.0, "annual_increase": 1.0, "rental_yield": 3.5},
		{"location": "zurich", "price_per_sqm": 15234.5, "annual_increase": 3.2, "rental_yield": 2.8},
	}}, nil)

	summary := newTestSynthesizer(extractor).Trends(context.Background(), "Zurich", "ZH")

	assert.Equal(t, "Zurich", summary.City)
	items := summary.MarketTrends
	for i, header := range Headers {
		assert.Equal(t, header, items[i].Header)
	}
	assert.Equal(t, "Average price: CHF 15,234.50 per m²", items[0].Subheader)
	assert.Equal(t, "Strong demand: prices up 3.20% year over year", items[1].Subheader)
	assert.Equal(t, "Tight supply: rising prices point to limited inventory", items[2].Subheader)
	assert.Equal(t, "Gross rental yield: 2.80%", items[3].Subheader)
	assert.Equal(t, "Moderately positive: prices rising while rental returns stay below 3%", items[4].Subheader)
	extractor.AssertExpectations(t)
}

func TestTrends_NoMatch(t *testing.T) {
	extractor := &MockExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(extraction.Response{Locations: []extraction.Record{
			{"location": "Basel", "price_per_sqm": 9000.0},
		}}, nil)

	summary := newTestSynthesizer(extractor).Trends(context.Background(), "Lugano", "")

	require.Len(t, summary.MarketTrends, 5)
	assert.Equal(t, "Unable to assess price trends for Lugano", summary.MarketTrends[0].Subheader)
	assert.Equal(t, "Unable to assess the future outlook for Lugano", summary.MarketTrends[4].Subheader)
	for i, header := range Headers {
		assert.Equal(t, header, summary.MarketTrends[i].Header)
	}
}

func TestTrends_ExtractionFailure(t *testing.T) {
	extractor := &MockExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(extraction.Response{}, errors.New("connection refused"))

	summary := newTestSynthesizer(extractor).Trends(context.Background(), "Bern", "BE")

	for i, item := range summary.MarketTrends {
		assert.Equal(t, Headers[i], item.Header)
		assert.Equal(t, DataUnavailable, item.Subheader)
	}
}

func TestTrends_EmptyCitySkipsExtraction(t *testing.T) {
	extractor := &MockExtractor{}

	summary := newTestSynthesizer(extractor).Trends(context.Background(), "  ", "")

	assert.Equal(t, "Unable to assess price trends for this location", summary.MarketTrends[0].Subheader)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrends_DemandAndOutlookBands(t *testing.T) {
	tests := []struct {
		name     string
		increase float64
		yield    float64
		demand   string
		supply   string
		outlook  string
	}{
		{
			name:     "very strong",
			increase: 6.5,
			yield:    3.4,
			demand:   "Very strong demand: prices up 6.50% year over year",
			supply:   "Tight supply: rising prices point to limited inventory",
			outlook:  "Positive: sustained price growth with solid rental returns",
		},
		{
			name:     "flat",
			increase: 0,
			yield:    3.0,
			demand:   "Stable demand: prices unchanged year over year",
			supply:   "Balanced supply: inventory broadly matches demand",
			outlook:  "Stable: flat or falling prices offset by solid rental returns",
		},
		{
			name:     "falling",
			increase: -1.25,
			yield:    2.1,
			demand:   "Softening demand: prices down 1.25% year over year",
			supply:   "Ample supply: falling prices point to growing inventory",
			outlook:  "Cautious: flat or falling prices and modest rental returns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &MockExtractor{}
			extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
				Return(extraction.Response{Locations: []extraction.Record{
					{"location": "Basel", "price_per_sqm": 10000.0, "annual_increase": tt.increase, "rental_yield": tt.yield},
				}}, nil)

			items := newTestSynthesizer(extractor).Trends(context.Background(), "Basel", "").MarketTrends

			assert.Equal(t, tt.demand, items[1].Subheader)
			assert.Equal(t, tt.supply, items[2].Subheader)
			assert.Equal(t, tt.outlook, items[4].Subheader)
		})
	}
}

func TestCantonStatistics_MatchesAcrossLanguages(t *testing.T) {
	extractor := &MockExtractor{}
	extractor.On("Extract", mock.Anything,
		[]string{"https://www.homegate.ch/market-analysis/canton-valais"},
		mock.AnythingOfType("extraction.Request"),
	).Return(extraction.Response{Locations: []extraction.Record{
		{"location": "Sion", "price_per_sqm": 5000.0},
		{"location": "Wallis", "price_per_sqm": "6,100.00", "annual_increase": "2.5%", "rental_yield": 4.1},
	}}, nil)

	stats := newTestSynthesizer(extractor).CantonStatistics(context.Background(), "Valais")

	assert.Equal(t, "Valais", stats.CantonName)
	assert.Equal(t, "Average price: CHF 6,100.00 per m²", stats.RealEstateStatistics[0].Subheader)
	assert.Equal(t, "Strong demand: prices up 2.50% year over year", stats.RealEstateStatistics[1].Subheader)
	assert.Equal(t, "Gross rental yield: 4.10%", stats.RealEstateStatistics[3].Subheader)
}

func TestCantonStatistics_ExtractionFailure(t *testing.T) {
	extractor := &MockExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(extraction.Response{}, errors.New("timeout"))

	stats := newTestSynthesizer(extractor).CantonStatistics(context.Background(), "Bern")

	assert.Equal(t, Unavailable(), stats.RealEstateStatistics)
}

func TestLocations_ReportsServiceFailure(t *testing.T) {
	extractor := &MockExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(extraction.Response{}, errors.New("boom"))

	_, err := newTestSynthesizer(extractor).Locations(context.Background(), "Zug", "")

	require.Error(t, err)
	assert.True(t, failure.IsService(err))
}

func TestToPoints(t *testing.T) {
	points := ToPoints([]extraction.Record{
		{"location": "  "},
		{"price_per_sqm": 100.0},
		{"location": "Chur", "price_per_sqm": -5.0, "annual_increase": "n/a", "rental_yield": 3},
	})

	require.Len(t, points, 1)
	assert.Equal(t, "Chur", points[0].Location)
	assert.Zero(t, points[0].PricePerSqm)
	assert.Zero(t, points[0].AnnualIncrease)
	assert.Equal(t, 3.0, points[0].RentalYield)
}
