package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/service-request-manager/internal/domain"
)

// MemoryStore is a map-backed implementation of both repository interfaces.
// It backs tests and any deployment that does not need durable storage.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[int64]domain.ServiceRequest
	users    map[string]domain.User
	nextID   int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: make(map[int64]domain.ServiceRequest),
		users:    make(map[string]domain.User),
		nextID:   1,
	}
}

// SeedServiceRequests inserts records with pre-assigned IDs, advancing the
// ID sequence past the highest seeded value.
func (s *MemoryStore) SeedServiceRequests(records []domain.ServiceRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.requests[record.ID] = record
		if record.ID >= s.nextID {
			s.nextID = record.ID + 1
		}
	}
}

// SeedUsers inserts authentication records keyed by username.
func (s *MemoryStore) SeedUsers(users []domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range users {
		s.users[user.Username] = user
	}
}

func (s *MemoryStore) List(_ context.Context, statusFilter string) ([]domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ServiceRequest, 0, len(s.requests))
	for _, record := range s.requests {
		if statusFilter != "" && !strings.EqualFold(record.Status, statusFilter) {
			continue
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *MemoryStore) Create(_ context.Context, request *domain.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request.ID = s.nextID
	s.nextID++
	s.requests[request.ID] = *request
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, request *domain.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[request.ID]; !ok {
		return ErrNotFound
	}
	s.requests[request.ID] = *request
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *MemoryStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}
