// Package extraction talks to the external extraction service: given a set of
// URLs, a natural-language instruction and a JSON schema it returns
// structured records scraped from those pages.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Record is one raw object returned by the extraction service. Fields are
// kept untyped so that normalization can inspect alternate keys.
type Record map[string]any

// Request is the instruction sent alongside the target URLs.
type Request struct {
	Prompt string
	Schema *Schema
}

// Response holds the records of a completed extraction. Depending on the
// schema only one of the slices is populated.
type Response struct {
	Properties []Record `json:"properties"`
	Locations  []Record `json:"locations"`
}

// Service is the extraction collaborator used by the search and trend pipelines.
type Service interface {
	Extract(ctx context.Context, urls []string, req Request) (Response, error)
}

// Schema is a JSON schema both sent to the service and used to validate its
// answer.
type Schema struct {
	name     string
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

// NewSchema compiles raw as a JSON schema registered under name.
func NewSchema(name, raw string) (*Schema, error) {
	compiled, err := jsonschema.CompileString(name, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return &Schema{name: name, raw: json.RawMessage(raw), compiled: compiled}, nil
}

// MustSchema is like NewSchema but panics on error. Used for package-level schemas.
func MustSchema(name, raw string) *Schema {
	s, err := NewSchema(name, raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled under.
func (s *Schema) Name() string { return s.name }

// Raw returns the schema document.
func (s *Schema) Raw() json.RawMessage { return s.raw }

// Validate checks decoded JSON data against the schema.
func (s *Schema) Validate(data any) error {
	if err := s.compiled.Validate(data); err != nil {
		return fmt.Errorf("response does not match schema %s: %w", s.name, err)
	}
	return nil
}

// DecodeResponse validates data against schema and maps it onto a Response.
func DecodeResponse(schema *Schema, data json.RawMessage) (Response, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return Response{}, fmt.Errorf("failed to parse extraction data: %w", err)
	}
	if schema != nil {
		if err := schema.Validate(generic); err != nil {
			return Response{}, err
		}
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("failed to decode extraction data: %w", err)
	}
	return resp, nil
}
