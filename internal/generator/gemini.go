package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-3-flash-preview"

	// DefaultTimeout bounds a single generation call, including the
	// service's own live-search round trips.
	DefaultTimeout = 60 * time.Second

	// temperature keeps copy varied without drifting from grounded specs.
	temperature float32 = 0.5
)

// ErrAPIKeyNotSet is returned when the client is constructed without a
// credential.
var ErrAPIKeyNotSet = errors.New("generative API key not set")

// GeminiClient implements Generator against the Gemini API with Google
// Search grounding and a strict JSON response schema.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a client for the given API key and model.
// An empty model selects DefaultModel.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiClient{
		client:  client,
		model:   model,
		timeout: DefaultTimeout,
	}, nil
}

// SetTimeout overrides the per-call timeout.
func (c *GeminiClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// responseSchema constrains the model to the exact payload shape the queue
// needs. The persona enum is enforced here as well as in validation.
func responseSchema() *genai.Schema {
	personas := make([]string, len(Personas))
	for i, p := range Personas {
		personas[i] = string(p)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"htmlContent": {Type: genai.TypeString},
			"tags":        {Type: genai.TypeString},
			"personaUsed": {Type: genai.TypeString, Enum: personas},
		},
		Required: []string{"title", "htmlContent", "tags", "personaUsed"},
	}
}

// Generate produces a listing for one SKU. Every failure mode, from
// transport errors to schema-violating payloads, is returned as a
// *GenerationError.
func (c *GeminiClient) Generate(ctx context.Context, sku, description string) (*Content, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(buildPrompt(sku, description)), cfg)
	if err != nil {
		return nil, genErr(sku, err, "content generation failed: %v", err)
	}

	return parseContent(sku, resp.Text())
}

// payload is the wire shape of a generation response.
type payload struct {
	Title       string `json:"title"`
	HTMLContent string `json:"htmlContent"`
	Tags        string `json:"tags"`
	PersonaUsed string `json:"personaUsed"`
}

// parseContent decodes and validates a raw response body. Responses missing
// any field, carrying an unknown persona, or lacking the required HTML
// structure are rejected, never coerced.
func parseContent(sku, raw string) (*Content, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, genErr(sku, err, "malformed response: %v", err)
	}

	if p.Title == "" || p.HTMLContent == "" || p.Tags == "" || p.PersonaUsed == "" {
		return nil, genErr(sku, nil, "incomplete response: title, htmlContent, tags and personaUsed are all required")
	}

	persona := Persona(p.PersonaUsed)
	if !persona.Valid() {
		return nil, genErr(sku, nil, "unknown persona %q", p.PersonaUsed)
	}

	if err := validateStructure(p.HTMLContent); err != nil {
		return nil, genErr(sku, err, "response does not match listing template: %v", err)
	}

	return &Content{
		Title:   p.Title,
		HTML:    p.HTMLContent,
		Tags:    p.Tags,
		Persona: persona,
	}, nil
}

// requiredSections are the structural landmarks of the listing template:
// headline, feature list, collapsible specs block, what's-in-the-box header.
var requiredSections = []string{"<h3", "<ul", "<details", "</details>", "<h4"}

// validateStructure checks that the generated body carries the fixed
// listing skeleton.
func validateStructure(html string) error {
	lower := strings.ToLower(html)
	for _, tag := range requiredSections {
		if !strings.Contains(lower, tag) {
			return errors.New("missing " + tag + " section")
		}
	}
	return nil
}

var _ Generator = (*GeminiClient)(nil)
