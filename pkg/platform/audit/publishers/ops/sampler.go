package ops

import (
	"math/rand/v2"
	"sync"

	audit "warden/pkg/platform/audit"
)

// Sampler keeps a configurable fraction of ops events per action.
type Sampler struct {
	mu           sync.RWMutex
	defaultRate  float64
	rateByAction map[audit.AuditEvent]float64
	roll         func() float64
}

// NewSampler creates a sampler keeping defaultRate (0..1) of events.
func NewSampler(defaultRate float64) *Sampler {
	return &Sampler{
		defaultRate:  clampRate(defaultRate),
		rateByAction: make(map[audit.AuditEvent]float64),
		roll:         rand.Float64,
	}
}

// ShouldSample reports whether the event should be kept.
func (s *Sampler) ShouldSample(action audit.AuditEvent) bool {
	rate := s.rateFor(action)
	if rate >= 1 {
		return true
	}
	return s.roll() < rate
}

// SetRate overrides the rate for one action.
func (s *Sampler) SetRate(action audit.AuditEvent, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateByAction[action] = clampRate(rate)
}

func (s *Sampler) rateFor(action audit.AuditEvent) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rate, ok := s.rateByAction[action]; ok {
		return rate
	}
	return s.defaultRate
}

func clampRate(rate float64) float64 {
	return min(max(rate, 0), 1)
}
