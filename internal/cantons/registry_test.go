package cantons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHas26UniqueCodes(t *testing.T) {
	r := Default()
	require.Equal(t, 26, r.Len())

	seen := make(map[string]bool)
	for _, c := range r.Cantons() {
		assert.Len(t, c.Code, 2)
		assert.False(t, seen[c.Code], "duplicate code %s", c.Code)
		seen[c.Code] = true
		assert.NotEmpty(t, c.Names)
	}
}

func TestResolveCode(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{name: "German name", input: "Freiburg", expected: "FR", found: true},
		{name: "French name", input: "Fribourg", expected: "FR", found: true},
		{name: "Umlaut name", input: "Zürich", expected: "ZH", found: true},
		{name: "English name", input: "Zurich", expected: "ZH", found: true},
		{name: "Upper case umlaut", input: "ZÜRICH", expected: "ZH", found: true},
		{name: "Romansh name", input: "grischun", expected: "GR", found: true},
		{name: "Accented name", input: "genève", expected: "GE", found: true},
		{name: "Direct code", input: "vs", expected: "VS", found: true},
		{name: "Surrounding spaces", input: "  St. Gallen ", expected: "SG", found: true},
		{name: "Unknown", input: "Bavaria", expected: "", found: false},
		{name: "Empty", input: "", expected: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := r.ResolveCode(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestResolveCodeRoundTrip(t *testing.T) {
	r := Default()
	for _, c := range r.Cantons() {
		for _, lang := range c.Languages() {
			name, ok := r.NameFor(c.Code, lang)
			require.True(t, ok)
			code, ok := r.ResolveCode(name)
			assert.True(t, ok, "name %q did not resolve", name)
			assert.Equal(t, c.Code, code, "round trip for %s/%s", c.Code, lang)
		}
	}
}

func TestNameFor(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		code     string
		language string
		expected string
		found    bool
	}{
		{name: "Requested language", code: "GR", language: "it", expected: "Grigioni", found: true},
		{name: "English fallback", code: "GR", language: "fr", expected: "Grisons", found: true},
		{name: "First translation fallback", code: "VS", language: "en", expected: "Wallis", found: true},
		{name: "Single name canton", code: "TI", language: "de", expected: "Ticino", found: true},
		{name: "Lower case code", code: "zh", language: "de", expected: "Zürich", found: true},
		{name: "Unknown code", code: "XX", language: "en", expected: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := r.NameFor(tt.code, tt.language)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestAllNames(t *testing.T) {
	r := Default()

	names := r.AllNames("en")
	require.Len(t, names, 26)
	assert.Equal(t, "Aargau", names[0])
	assert.Equal(t, "Freiburg", names[6])
	assert.Equal(t, "Geneva", names[7])
	assert.Equal(t, "Zurich", names[25])

	deNames := r.AllNames("de")
	assert.Equal(t, "Zürich", deNames[25])
	assert.Equal(t, "Luzern", deNames[11])
}
