package cart

import (
	"sort"
	"sync"
	"time"
)

type signalKey struct {
	scope     string
	productID int
}

// Signals tracks the transient "just added" pulse raised when a product
// lands in a cart. Each (visitor, product) pair expires independently
// after the TTL; marking one product never cancels another's pulse, and
// re-marking the same product restarts its clock.
type Signals struct {
	ttl time.Duration

	mu     sync.Mutex
	timers map[signalKey]*time.Timer
}

func NewSignals(ttl time.Duration) *Signals {
	return &Signals{
		ttl:    ttl,
		timers: make(map[signalKey]*time.Timer),
	}
}

// Mark raises the pulse for a product within a visitor scope.
func (s *Signals) Mark(scope string, productID int) {
	key := signalKey{scope: scope, productID: productID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}

	s.timers[key] = time.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.timers, key)
	})
}

// Active reports whether a product's pulse is still live for the scope.
func (s *Signals) Active(scope string, productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.timers[signalKey{scope: scope, productID: productID}]
	return ok
}

// All returns the products with a live pulse for the scope, sorted.
func (s *Signals) All(scope string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int
	for key := range s.timers {
		if key.scope == scope {
			ids = append(ids, key.productID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Stop cancels every pending expiry. Used on shutdown and in tests.
func (s *Signals) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}
