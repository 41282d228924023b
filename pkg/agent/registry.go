package agent

import (
	"sync"

	"github.com/jllopis/boardroom/pkg/llm"
	"github.com/jllopis/boardroom/pkg/persona"
)

// Registry lazily instantiates agents from a persona source and caches them.
// Repeated lookups of the same identifier return the same *Agent.
type Registry struct {
	source    persona.Source
	provider  llm.Provider
	model     string
	maxTokens int

	mu     sync.Mutex
	agents map[string]*Agent
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryModel sets the model passed to every instantiated agent.
func WithRegistryModel(model string) RegistryOption {
	return func(r *Registry) { r.model = model }
}

// WithRegistryMaxTokens sets the token budget passed to every agent.
func WithRegistryMaxTokens(n int) RegistryOption {
	return func(r *Registry) { r.maxTokens = n }
}

// NewRegistry creates a Registry over a persona source and a shared provider.
func NewRegistry(source persona.Source, provider llm.Provider, opts ...RegistryOption) *Registry {
	r := &Registry{
		source:   source,
		provider: provider,
		agents:   make(map[string]*Agent),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the agent for id, loading and caching it on first use.
func (r *Registry) Get(id string) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.agents[id]; ok {
		return a, nil
	}
	raw, err := r.source.Load(id)
	if err != nil {
		return nil, err
	}
	a := New(persona.Parse(id, raw), r.provider, WithModel(r.model), WithMaxTokens(r.maxTokens))
	r.agents[id] = a
	return a, nil
}

// Has reports whether id resolves to a persona without constructing the
// agent.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	_, cached := r.agents[id]
	r.mu.Unlock()
	if cached {
		return true
	}
	return r.source.Exists(id)
}

// GetMultiple resolves a list of identifiers, preserving order. The first
// failed lookup aborts the whole call.
func (r *Registry) GetMultiple(ids []string) ([]*Agent, error) {
	agents := make([]*Agent, 0, len(ids))
	for _, id := range ids {
		a, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// ListAvailable returns the identifiers the underlying source can load.
func (r *Registry) ListAvailable() []string {
	return r.source.ListIDs()
}
