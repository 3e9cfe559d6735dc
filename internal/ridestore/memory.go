package ridestore

import (
	"context"
	"sync"

	"backend-ridetrack/internal/ride"
)

type Memory struct {
	mu    sync.RWMutex
	rides map[string][]ride.Record
}

func NewMemory() *Memory {
	return &Memory{rides: map[string][]ride.Record{}}
}

func (m *Memory) Append(_ context.Context, riderID string, rec ride.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[riderID] = append(m.rides[riderID], rec)
	return nil
}

func (m *Memory) List(_ context.Context, riderID string) ([]ride.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ride.Record, len(m.rides[riderID]))
	copy(out, m.rides[riderID])
	return out, nil
}
