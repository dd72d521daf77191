package script

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tilerpg/tilemap"
)

// Controller wires map specific behavior (dialog, scripted movement) onto
// the actors of a freshly loaded map.
type Controller interface {
	Attach(m *tilemap.Map) error
}

type ControllerFunc func(m *tilemap.Map) error

func (f ControllerFunc) Attach(m *tilemap.Map) error { return f(m) }

// Registry maps map names to their controllers. The application owns one
// instance and hands it to the scenes that load maps.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string][]Controller
	logger      *log.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string][]Controller),
		logger:      log.WithPrefix("script"),
	}
}

// Register adds c to the controllers of the named map.
func (r *Registry) Register(mapName string, c Controller) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[mapName] = append(r.controllers[mapName], c)
}

// Set replaces every controller of the named map.
func (r *Registry) Set(mapName string, cs ...Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(cs) == 0 {
		delete(r.controllers, mapName)
		return
	}
	r.controllers[mapName] = cs
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attach runs the controllers registered for m. Maps without controllers
// are left alone.
func (r *Registry) Attach(m *tilemap.Map) error {
	r.mu.RLock()
	cs := append([]Controller(nil), r.controllers[m.Name()]...)
	r.mu.RUnlock()
	for i, c := range cs {
		if err := c.Attach(m); err != nil {
			return fmt.Errorf("script: attach %s controller %d: %w", m.Name(), i, err)
		}
	}
	if len(cs) > 0 {
		r.logger.Debug("controllers attached", "map", m.Name(), "count", len(cs))
	}
	return nil
}
