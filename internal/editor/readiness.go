package editor

import (
	"math"
	"strings"

	"github.com/hammamikhairi/larder/internal/domain"
)

// AvailableSet holds the names of products that are currently usable,
// compared case-insensitively.
type AvailableSet map[string]struct{}

// NewAvailableSet builds a set from product names.
func NewAvailableSet(names []string) AvailableSet {
	set := make(AvailableSet, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Has reports whether name is available.
func (a AvailableSet) Has(name string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Readiness returns the fraction of ingredients that are available. With
// no ingredients there is nothing to measure and the result is NaN.
func (a AvailableSet) Readiness(ingredients []domain.Ingredient) float64 {
	total, ready := 0, 0
	for _, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		total++
		if a.Has(ing.Name) {
			ready++
		}
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(ready) / float64(total)
}

// SetAvailable replaces the set of available product names.
func (s *Session) SetAvailable(names []string) {
	set := NewAvailableSet(names)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = set
	s.recompute()
	s.log.Debug("available set now has %d products", len(set))
}

// Readiness returns the readiness of the current recipe as last computed.
func (s *Session) Readiness() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readiness
}

func (s *Session) recompute() {
	s.readiness = s.available.Readiness(s.current().Ingredients)
}
