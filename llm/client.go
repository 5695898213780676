// Package llm talks to the hosted chat-completion APIs (OpenAI, Anthropic,
// Google) and builds the translation prompts on top of them.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client is a single chat-completion round trip against one provider.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	temperature    = 0.3
	requestTimeout = 2 * time.Minute
)

// ModelSpec binds an app-level model type to a provider and the model id sent
// on the wire.
type ModelSpec struct {
	Provider  string
	WireModel string
}

var catalog = map[string]ModelSpec{
	"gpt":          {Provider: "openai", WireModel: "gpt-4.1"},
	"gpt-mini":     {Provider: "openai", WireModel: "gpt-4.1-mini"},
	"claude":       {Provider: "anthropic", WireModel: "claude-sonnet-4-5"},
	"claude-haiku": {Provider: "anthropic", WireModel: "claude-haiku-4-5"},
	"gemini":       {Provider: "google", WireModel: "gemini-2.5-pro"},
	"gemini-flash": {Provider: "google", WireModel: "gemini-2.5-flash"},
}

// LookupModel resolves an app-level model type.
func LookupModel(modelType string) (ModelSpec, error) {
	spec, ok := catalog[modelType]
	if !ok {
		return ModelSpec{}, fmt.Errorf("unsupported model type: %q", modelType)
	}
	return spec, nil
}

// NewClient builds the provider client for the given model type.
func NewClient(modelType, apiKey string) (Client, error) {
	spec, err := LookupModel(modelType)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for provider %s", spec.Provider)
	}

	switch spec.Provider {
	case "openai":
		return NewOpenAI(apiKey, spec.WireModel), nil
	case "anthropic":
		return NewAnthropic(apiKey, spec.WireModel), nil
	case "google":
		return NewGemini(apiKey, spec.WireModel), nil
	}
	return nil, fmt.Errorf("unsupported provider: %q", spec.Provider)
}

// APIError is a non-2xx reply from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed on a retry.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}
