package platform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lukman83/offerscrap/internal/models"
	"golang.org/x/text/cases"
)

// Registry maps store identifiers and URL fragments to adapters.
// Lookup order is registration order.
type Registry struct {
	mu       sync.RWMutex
	adapters []Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter, replacing any adapter for the same store.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.adapters {
		if existing.Store() == a.Store() {
			r.adapters[i] = a
			return
		}
	}
	r.adapters = append(r.adapters, a)
}

func (r *Registry) Get(store models.StoreID) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.adapters {
		if a.Store() == store {
			return a, nil
		}
	}
	return nil, fmt.Errorf("store %q not registered", store)
}

func (r *Registry) List() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// ResolveStore returns the first store whose domain fragment occurs in url,
// ignoring case, or StoreUnknown.
func (r *Registry) ResolveStore(url string) models.StoreID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fold := cases.Fold()
	u := fold.String(url)
	for _, a := range r.adapters {
		if d := a.Domain(); d != "" && strings.Contains(u, fold.String(d)) {
			return a.Store()
		}
	}
	return models.StoreUnknown
}
