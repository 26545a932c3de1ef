package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fathima-sithara/person-service/internal/domain"
	"github.com/fathima-sithara/person-service/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data map[string][]byte
	sets int
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = b
	f.sets++
	return nil
}

func newPersonSource(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/persons" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Seed())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient() *httpclient.Client {
	return httpclient.NewClient(httpclient.ClientConfig{
		Timeout:              time.Second,
		RetryInitialInterval: 5 * time.Millisecond,
		RetryMaxElapsed:      50 * time.Millisecond,
	}, nil)
}

func TestRemoteRepoReads(t *testing.T) {
	ctx := context.Background()
	var calls int32
	srv := newPersonSource(t, &calls)
	repo := NewRemotePersonRepo(newTestClient(), srv.URL+"/", nil, 0, nil)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	no, err := repo.List(ctx, domain.PhoneNo)
	require.NoError(t, err)
	assert.Equal(t, []string{"Itzi"}, names(no))

	p, err := repo.FindByName(ctx, "Midu")
	require.NoError(t, err)
	assert.Equal(t, "Calle Frontend", p.Street)

	_, err = repo.FindByName(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestRemoteRepoUsesCache(t *testing.T) {
	ctx := context.Background()
	var calls int32
	srv := newPersonSource(t, &calls)
	c := &fakeCache{data: map[string][]byte{}}
	repo := NewRemotePersonRepo(newTestClient(), srv.URL, c, time.Minute, nil)

	for i := 0; i < 3; i++ {
		all, err := repo.List(ctx, domain.PhoneAny)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, c.sets)
}

func TestRemoteRepoIsReadOnly(t *testing.T) {
	ctx := context.Background()
	var calls int32
	srv := newPersonSource(t, &calls)
	repo := NewRemotePersonRepo(newTestClient(), srv.URL, nil, 0, nil)

	assert.ErrorIs(t, repo.Insert(ctx, &domain.Person{Name: "Someone"}), ErrReadOnly)
	_, err := repo.UpdatePhone(ctx, "Midu", "12345")
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestRemoteRepoSourceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	repo := NewRemotePersonRepo(newTestClient(), srv.URL, nil, 0, nil)

	_, err := repo.Count(context.Background())
	var se *httpclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}
