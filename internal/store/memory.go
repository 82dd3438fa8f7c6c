// internal/store/memory.go
//
// In-memory implementation of the round Store.
// Holds server-side rounds for clients that let the server run the
// puzzle state engine (the /rounds endpoints).
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Tracks last access so idle rounds can be pruned.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/unquotable/internal/game"
)

// ErrNotFound is returned by Get for an unknown round ID.
var ErrNotFound = errors.New("round not found")

// Store defines the persistence interface for rounds.
type Store interface {
	// Save persists or updates a round and refreshes its last-access time.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a round by ID or returns ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a round; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Prune removes rounds not saved or read since cutoff and returns how many.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

type entry struct {
	game    *game.Game
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex      // guards rounds
	rounds map[string]*entry // keyed by Game.ID
	now    func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[g.ID] = &entry{game: g, touched: m.now()}
	return nil
}

// Get takes the write lock because it refreshes the access time.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.touched = m.now()
	return e.game, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.rounds {
		if e.touched.Before(cutoff) {
			delete(m.rounds, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored rounds.
func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}
