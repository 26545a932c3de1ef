package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fathima-sithara/person-service/internal/domain"
	"github.com/fathima-sithara/person-service/internal/httpclient"
	"go.uber.org/zap"
)

const personsCacheKey = "persons"

// ListCache stores the last fetched person list. cache.Client implements it.
type ListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

type remotePersonRepo struct {
	client  *httpclient.Client
	baseURL string
	cache   ListCache
	ttl     time.Duration
	log     *zap.Logger
}

// NewRemotePersonRepo reads persons from GET {baseURL}/persons. cache may be
// nil. The source is read-only.
func NewRemotePersonRepo(client *httpclient.Client, baseURL string, cache ListCache, ttl time.Duration, logger *zap.Logger) PersonRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &remotePersonRepo{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
		ttl:     ttl,
		log:     logger,
	}
}

func (r *remotePersonRepo) fetch(ctx context.Context) ([]*domain.Person, error) {
	var persons []*domain.Person
	if r.cache != nil {
		hit, err := r.cache.GetJSON(ctx, personsCacheKey, &persons)
		if err != nil {
			r.log.Warn("person cache read failed", zap.Error(err))
		} else if hit {
			return persons, nil
		}
	}

	if err := r.client.GetJSON(ctx, r.baseURL+"/persons", &persons); err != nil {
		return nil, fmt.Errorf("fetch persons: %w", err)
	}

	if r.cache != nil && r.ttl > 0 {
		if err := r.cache.SetJSON(ctx, personsCacheKey, persons, r.ttl); err != nil {
			r.log.Warn("person cache write failed", zap.Error(err))
		}
	}
	return persons, nil
}

func (r *remotePersonRepo) Count(ctx context.Context) (int, error) {
	persons, err := r.fetch(ctx)
	if err != nil {
		return 0, err
	}
	return len(persons), nil
}

func (r *remotePersonRepo) List(ctx context.Context, filter domain.PhoneFilter) ([]*domain.Person, error) {
	persons, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return filterPersons(persons, filter), nil
}

func (r *remotePersonRepo) FindByName(ctx context.Context, name string) (*domain.Person, error) {
	persons, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range persons {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *remotePersonRepo) Insert(ctx context.Context, p *domain.Person) error {
	return ErrReadOnly
}

func (r *remotePersonRepo) UpdatePhone(ctx context.Context, name, phone string) (*domain.Person, error) {
	return nil, ErrReadOnly
}
