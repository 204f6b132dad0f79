// Package cantons holds the closed set of Swiss cantons and resolves canton
// names in any of the national languages to their two-letter codes.
package cantons

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultLanguage is the language used when a translation is missing.
const DefaultLanguage = "en"

// Translation is a canton name in one language.
type Translation struct {
	Language string `json:"language"`
	Name     string `json:"name"`
}

// Canton is one entry of the registry. Names keeps definition order so that
// the fallback translation is deterministic.
type Canton struct {
	Code  string        `json:"code"`
	Names []Translation `json:"names"`
}

// Name returns the translation for language, if the canton defines one.
func (c Canton) Name(language string) (string, bool) {
	for _, t := range c.Names {
		if t.Language == language {
			return t.Name, true
		}
	}
	return "", false
}

// Languages returns the language codes the canton defines, in definition order.
func (c Canton) Languages() []string {
	langs := make([]string, len(c.Names))
	for i, t := range c.Names {
		langs[i] = t.Language
	}
	return langs
}

// Registry is an immutable, ordered canton table.
type Registry struct {
	cantons []Canton
}

var defaultRegistry = newRegistry(cantonTable)

// Default returns the registry of the 26 Swiss cantons.
func Default() *Registry {
	return defaultRegistry
}

func newRegistry(table []Canton) *Registry {
	return &Registry{cantons: table}
}

// fold builds a fresh Caser per call: casers are stateful and must not be
// shared between goroutines.
func (r *Registry) fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ResolveCode returns the code of the first canton whose code or name, in any
// language, matches name case-insensitively.
func (r *Registry) ResolveCode(name string) (string, bool) {
	needle := r.fold(name)
	if needle == "" {
		return "", false
	}
	for _, c := range r.cantons {
		if r.fold(c.Code) == needle {
			return c.Code, true
		}
		for _, t := range c.Names {
			if r.fold(t.Name) == needle {
				return c.Code, true
			}
		}
	}
	return "", false
}

// Lookup returns the canton registered under code.
func (r *Registry) Lookup(code string) (Canton, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range r.cantons {
		if c.Code == code {
			return c, true
		}
	}
	return Canton{}, false
}

// NameFor returns the canton name in language, falling back to English and
// then to the first translation the canton defines.
func (r *Registry) NameFor(code, language string) (string, bool) {
	c, ok := r.Lookup(code)
	if !ok || len(c.Names) == 0 {
		return "", false
	}
	if name, ok := c.Name(language); ok {
		return name, true
	}
	if name, ok := c.Name(DefaultLanguage); ok {
		return name, true
	}
	return c.Names[0].Name, true
}

// AllNames returns one name per canton in registry order.
func (r *Registry) AllNames(language string) []string {
	names := make([]string, 0, len(r.cantons))
	for _, c := range r.cantons {
		if name, ok := r.NameFor(c.Code, language); ok {
			names = append(names, name)
		}
	}
	return names
}

// Names returns every translation of the canton identified by code.
func (r *Registry) Names(code string) []string {
	c, ok := r.Lookup(code)
	if !ok {
		return nil
	}
	names := make([]string, len(c.Names))
	for i, t := range c.Names {
		names[i] = t.Name
	}
	return names
}

// Cantons returns a copy of the registry entries.
func (r *Registry) Cantons() []Canton {
	out := make([]Canton, len(r.cantons))
	copy(out, r.cantons)
	return out
}

// Len returns the number of cantons in the registry.
func (r *Registry) Len() int {
	return len(r.cantons)
}
