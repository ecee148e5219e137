package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// Registry hands out completers and reuses the same instance for an
// identical (model, temperature) configuration. It is built once at startup,
// shared process-wide, populated lazily and needs no teardown beyond process
// exit. The underlying API client is shared by all completers.
type Registry struct {
	client *genai.Client

	mu         sync.Mutex
	completers map[completerKey]*GeminiCompleter
}

type completerKey struct {
	model       string
	temperature float32
}

// NewRegistry builds the shared API client and an empty registry.
func NewRegistry(ctx context.Context, apiKey string) (*Registry, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewRegistry: create genai client: %w", err)
	}

	return &Registry{
		client:     client,
		completers: make(map[completerKey]*GeminiCompleter),
	}, nil
}

// Completer returns the cached completer for the configuration pair,
// creating it on first use.
func (r *Registry) Completer(model string, temperature float32) Completer {
	key := completerKey{model: model, temperature: temperature}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.completers[key]; ok {
		return c
	}

	c := &GeminiCompleter{
		client:      r.client,
		model:       model,
		temperature: temperature,
	}
	r.completers[key] = c
	return c
}
