package llm

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// Provider IDs as listed in the model catalog
const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Factory builds a gollem client for the selected model
type Factory func(ctx context.Context, model string) (gollem.LLMClient, error)

// Registry maps provider IDs to client factories. Clients are cached per
// provider/model pair.
type Registry struct {
	factories map[string]Factory

	mu      sync.Mutex
	clients map[string]gollem.LLMClient
}

// Option registers a provider
type Option func(*Registry)

// WithGemini enables the "google" provider on Vertex AI
func WithGemini(projectID, location string) Option {
	return WithFactory(ProviderGoogle, func(ctx context.Context, model string) (gollem.LLMClient, error) {
		return gemini.New(ctx, projectID, location, gemini.WithModel(model))
	})
}

// WithOpenAI enables the "openai" provider
func WithOpenAI(apiKey string) Option {
	return WithFactory(ProviderOpenAI, func(ctx context.Context, model string) (gollem.LLMClient, error) {
		return openai.New(ctx, apiKey, openai.WithModel(model))
	})
}

// WithAnthropic enables the "anthropic" provider
func WithAnthropic(apiKey string) Option {
	return WithFactory(ProviderAnthropic, func(ctx context.Context, model string) (gollem.LLMClient, error) {
		return claude.New(ctx, apiKey, claude.WithModel(model))
	})
}

// WithFactory registers a custom provider
func WithFactory(provider string, f Factory) Option {
	return func(r *Registry) {
		r.factories[provider] = f
	}
}

// New creates a provider registry
func New(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		clients:   make(map[string]gollem.LLMClient),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ interfaces.LLMProvider = (*Registry)(nil)

// NewClient implements interfaces.LLMProvider
func (r *Registry) NewClient(ctx context.Context, provider, model string) (gollem.LLMClient, error) {
	factory, ok := r.factories[provider]
	if !ok {
		return nil, goerr.New("LLM provider is not configured",
			goerr.V("provider", provider),
			goerr.T(types.ErrTagUnsupported))
	}

	key := provider + "/" + model
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[key]; ok {
		return client, nil
	}

	client, err := factory(ctx, model)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM client",
			goerr.V("provider", provider),
			goerr.V("model", model))
	}

	ctxlog.From(ctx).Info("Created LLM client", "provider", provider, "model", model)
	r.clients[key] = client
	return client, nil
}

// Providers returns the registered provider IDs
func (r *Registry) Providers() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	return ids
}
