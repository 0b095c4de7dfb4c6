package numbering

import (
	"context"
	"sync"

	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/shared"
)

// memCounterStore is a goroutine-safe CounterStore with real compare-and-swap semantics
type memCounterStore struct {
	mu       sync.Mutex
	counters map[numbering.CounterKey]int64
	advances int
}

func newMemCounterStore() *memCounterStore {
	return &memCounterStore{counters: make(map[numbering.CounterKey]int64)}
}

func (s *memCounterStore) Get(_ context.Context, key numbering.CounterKey) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.counters[key]
	return v, ok, nil
}

func (s *memCounterStore) Seed(_ context.Context, key numbering.CounterKey, start int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counters[key]; ok {
		return numbering.ErrAlreadyInitialized
	}
	s.counters[key] = start
	return nil
}

func (s *memCounterStore) Advance(_ context.Context, key numbering.CounterKey, expected, next int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.counters[key]; !ok || v != expected {
		return numbering.ErrConcurrentModification
	}
	s.counters[key] = next
	s.advances++
	return nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
