package platform

import (
	"sync"

	"github.com/lukman83/offerscrap/internal/models"
)

// SessionState records which stores have completed their one-time
// interactive setup in the current browser. It lives as long as its owner;
// a fresh state means every store sets up again.
type SessionState struct {
	mu          sync.Mutex
	initialized map[models.StoreID]bool
}

func NewSessionState() *SessionState {
	return &SessionState{initialized: make(map[models.StoreID]bool)}
}

// Initialized reports whether store has completed setup.
func (s *SessionState) Initialized(store models.StoreID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized[store]
}

// MarkInitialized records a completed setup for store.
func (s *SessionState) MarkInitialized(store models.StoreID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized[store] = true
}
