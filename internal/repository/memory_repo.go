package repository

import (
	"context"
	"sync"

	"github.com/fathima-sithara/person-service/internal/domain"
)

type memoryPersonRepo struct {
	mu      sync.RWMutex
	persons []*domain.Person
}

// NewMemoryPersonRepo keeps persons in insertion order. The seed slice is
// copied, so callers may reuse it.
func NewMemoryPersonRepo(seed []*domain.Person) PersonRepository {
	r := &memoryPersonRepo{persons: make([]*domain.Person, 0, len(seed))}
	for _, p := range seed {
		cp := *p
		r.persons = append(r.persons, &cp)
	}
	return r
}

func (r *memoryPersonRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.persons), nil
}

func (r *memoryPersonRepo) List(ctx context.Context, filter domain.PhoneFilter) ([]*domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Person, 0, len(r.persons))
	for _, p := range r.persons {
		if filter.Matches(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryPersonRepo) FindByName(ctx context.Context, name string) (*domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.find(name)
	if p == nil {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// Insert checks uniqueness and appends under one write lock.
func (r *memoryPersonRepo) Insert(ctx context.Context, p *domain.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(p.Name) != nil {
		return ErrDuplicateName
	}
	cp := *p
	r.persons = append(r.persons, &cp)
	return nil
}

func (r *memoryPersonRepo) UpdatePhone(ctx context.Context, name, phone string) (*domain.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(name)
	if p == nil {
		return nil, ErrNotFound
	}
	p.Phone = phone
	cp := *p
	return &cp, nil
}

func (r *memoryPersonRepo) find(name string) *domain.Person {
	for _, p := range r.persons {
		if p.Name == name {
			return p
		}
	}
	return nil
}
