package resilience

import "sync"

// Group lazily keeps one Breaker per key (the relay keys by upstream host)
// so a failing host cannot trip calls to healthy ones.
type Group struct {
	settings Settings

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewGroup creates a group whose breakers share settings
func NewGroup(settings Settings) *Group {
	return &Group{
		settings: settings,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for key, creating it on first use
func (g *Group) Get(key string) *Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.breakers[key]
	if !ok {
		b = New(key, g.settings)
		g.breakers[key] = b
	}
	return b
}

// Execute runs req through the breaker for key
func (g *Group) Execute(key string, req func() error) error {
	return g.Get(key).Execute(req)
}

// States reports the current state of every known breaker
func (g *Group) States() map[string]State {
	g.mu.Lock()
	keys := make([]*Breaker, 0, len(g.breakers))
	for _, b := range g.breakers {
		keys = append(keys, b)
	}
	g.mu.Unlock()

	states := make(map[string]State, len(keys))
	for _, b := range keys {
		states[b.Name()] = b.State()
	}
	return states
}
