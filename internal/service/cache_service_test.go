package service

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

// memoryCacheRepo is an in-memory CacheRepository recording every delete so
// tests can assert on invalidation sets.
type memoryCacheRepo struct {
	entries         map[string][]byte
	deletedKeys     []string
	deletedPatterns []string
	getErr          error
	setErr          error
	deleteErr       error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, key := range keys {
		m.deletedKeys = append(m.deletedKeys, key)
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedPatterns = append(m.deletedPatterns, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCacheRepo) prime(t *testing.T, key string, value interface{}) {
	t.Helper()
	require.NoError(t, m.Set(context.Background(), key, value, time.Minute))
}

func newTestCache(repo *memoryCacheRepo) *CacheService {
	return NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
}

func TestCacheServiceGetMiss(t *testing.T) {
	svc := newTestCache(newMemoryCacheRepo())

	var out string
	hit, err := svc.Get(context.Background(), "student_courses:S1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceSetThenGet(t *testing.T) {
	svc := newTestCache(newMemoryCacheRepo())

	require.NoError(t, svc.Set(context.Background(), "student_courses:S1", []string{"C1"}, 0))

	var out []string
	hit, err := svc.Get(context.Background(), "student_courses:S1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"C1"}, out)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.Empty(t, repo.entries)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Invalidate(context.Background(), Invalidation{Keys: []string{"k"}}))
	assert.Empty(t, repo.deletedKeys)
}

func TestCacheServiceInvalidateKeysAndPatterns(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := newTestCache(repo)
	repo.prime(t, "pending_tasks:S1", []string{"A1"})
	repo.prime(t, "available_courses:S1", []string{"C1"})
	repo.prime(t, "available_courses:S2", []string{"C1"})

	err := svc.Invalidate(context.Background(), Invalidation{
		Keys:     []string{"pending_tasks:S1"},
		Patterns: []string{"available_courses:*"},
	})
	require.NoError(t, err)
	assert.Empty(t, repo.entries)
	assert.Contains(t, repo.deletedKeys, "pending_tasks:S1")
	assert.Contains(t, repo.deletedPatterns, "available_courses:*")
}

func TestCacheServiceInvalidateContinuesPastFailures(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.deleteErr = assert.AnError
	svc := newTestCache(repo)

	err := svc.Invalidate(context.Background(), Invalidation{
		Keys:     []string{"pending_tasks:S1"},
		Patterns: []string{"available_courses:*"},
	})
	assert.Error(t, err)
}
