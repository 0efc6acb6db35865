// Package generator wraps the external content-generation call. It turns a
// SKU and optional raw description into a complete Shopify listing (title,
// HTML body, SEO tags) voiced by one of a fixed set of trade personas, and
// normalizes every failure mode of the external service into a
// GenerationError.
package generator

import (
	"context"
	"fmt"
)

// Persona is the trade voice attached to generated copy. The set is closed;
// the external service is constrained to it via a response schema and any
// value outside the set is rejected as a schema violation.
type Persona string

const (
	PersonaWoodworker  Persona = "Woodworker"
	PersonaPlumber     Persona = "Plumber"
	PersonaElectrician Persona = "Electrician"
	PersonaHeavyCivil  Persona = "Heavy Civil"
	PersonaToolExpert  Persona = "Tool Expert"
)

// Personas lists every valid persona, with PersonaToolExpert serving as the
// default voice for universal tools.
var Personas = []Persona{
	PersonaWoodworker,
	PersonaPlumber,
	PersonaElectrician,
	PersonaHeavyCivil,
	PersonaToolExpert,
}

// Valid reports whether p is a member of the closed persona set.
func (p Persona) Valid() bool {
	for _, v := range Personas {
		if p == v {
			return true
		}
	}
	return false
}

// Content is a successfully generated listing.
type Content struct {
	Title   string
	HTML    string
	Tags    string // comma-separated SEO tags
	Persona Persona
}

// Generator produces listing content for a single SKU.
type Generator interface {
	Generate(ctx context.Context, sku, description string) (*Content, error)
}

// GenerationError is the normalized failure for a generator call: transport
// errors, quota exhaustion, timeouts, malformed JSON, and schema-violating
// responses all surface through it.
type GenerationError struct {
	SKU     string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.SKU == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.SKU, e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// genErr builds a GenerationError with a formatted message.
func genErr(sku string, err error, format string, args ...any) *GenerationError {
	return &GenerationError{
		SKU:     sku,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
