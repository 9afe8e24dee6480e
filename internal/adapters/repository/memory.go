package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/salesboard/internal/domain/model"
)

// MemoryStore keeps everything in process memory. Callers always receive
// copies, so returned slices may be modified freely.
type MemoryStore struct {
	mu         sync.RWMutex
	members    []model.Member
	activities []model.Activity
	events     []model.ActivityEvent
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadCatalogs implements Store.
func (s *MemoryStore) LoadCatalogs(ctx context.Context) (Catalogs, error) {
	if err := ctx.Err(); err != nil {
		return Catalogs{}, unavailable("load catalogs", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Catalogs{
		Members:    nonNil(slices.Clone(s.members)),
		Activities: nonNil(slices.Clone(s.activities)),
	}, nil
}

// LoadEvents implements Store.
func (s *MemoryStore) LoadEvents(ctx context.Context) ([]model.ActivityEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("load events", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.events)), nil
}

// ReplaceMembers implements Store.
func (s *MemoryStore) ReplaceMembers(ctx context.Context, members []model.Member) error {
	if err := ctx.Err(); err != nil {
		return writeFailed("replace members", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = slices.Clone(members)
	return nil
}

// ReplaceActivities implements Store.
func (s *MemoryStore) ReplaceActivities(ctx context.Context, activities []model.Activity) error {
	if err := ctx.Err(); err != nil {
		return writeFailed("replace activities", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = slices.Clone(activities)
	return nil
}

// AppendEvent implements Store.
func (s *MemoryStore) AppendEvent(ctx context.Context, e model.ActivityEvent) error {
	if err := ctx.Err(); err != nil {
		return writeFailed("append event", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
