package store

import (
	"context"
	"fmt"
	"testing"
	"time"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/constants"
	"usuarios-backend/app/server/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unreachableRedis points at a port nothing listens on, so every cache call
// fails fast and the backing store has to answer.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCached_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory()
	s := NewCached(backing, unreachableRedis(t), zap.NewNop())

	u := &models.User{Username: "ana", Name: "Ana", Age: 28}
	require.NoError(t, s.Create(ctx, u))

	byName, err := s.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	require.NoError(t, s.UpdateProfile(ctx, &models.User{ID: u.ID, Name: "Ana M.", Age: 29}))
	byID, err = s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 29, byID.Age)

	users, total, err := s.List(ctx, 0, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)

	require.NoError(t, s.Delete(ctx, u.ID))
	_, err = s.GetByUsername(ctx, "ana")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCached_PassesThroughStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := NewCached(NewMemory(), unreachableRedis(t), zap.NewNop())

	require.NoError(t, s.Create(ctx, &models.User{Username: "ana"}))
	assert.ErrorIs(t, s.Create(ctx, &models.User{Username: "ana"}), common.ErrConflict)
	assert.ErrorIs(t, s.Delete(ctx, 42), common.ErrNotFound)
	assert.ErrorIs(t, s.UpdateProfile(ctx, &models.User{ID: 42}), common.ErrNotFound)
}

func newCachedWithMiniredis(t *testing.T) (*Cached, *Memory, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backing := NewMemory()
	return NewCached(backing, rdb, zap.NewNop()), backing, mr
}

func TestCached_ServesHitsFromRedis(t *testing.T) {
	ctx := context.Background()
	s, backing, mr := newCachedWithMiniredis(t)

	u := &models.User{Username: "ana", Name: "Ana", Age: 28, Password: "$argon2id$secret-hash"}
	require.NoError(t, s.Create(ctx, u))

	// Miss, fills both keys
	first, err := s.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.Name)

	idKey := fmt.Sprintf(constants.CacheKeyUserByID, u.ID)
	nameKey := fmt.Sprintf(constants.CacheKeyUserByUsername, "ana")
	require.True(t, mr.Exists(idKey))
	require.True(t, mr.Exists(nameKey))
	assert.Equal(t, constants.CacheExpireUser, mr.TTL(idKey))
	mapped, err := mr.Get(nameKey)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(u.ID), mapped)

	raw, err := mr.Get(idKey)
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret-hash")

	// Change the row behind the cache's back: reads must still see the cached copy.
	require.NoError(t, backing.UpdateProfile(ctx, &models.User{ID: u.ID, Name: "Changed", Age: 99}))

	byName, err := s.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", byName.Name)
	assert.Equal(t, 28, byName.Age)
	assert.Empty(t, byName.Password)

	byID, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)
	assert.Equal(t, u.CreatedAt.Unix(), byID.CreatedAt.Unix())
}

func TestCached_GetCredentialsSkipsCache(t *testing.T) {
	ctx := context.Background()
	s, _, mr := newCachedWithMiniredis(t)

	u := &models.User{Username: "ana", Age: 28, Password: "$argon2id$secret-hash"}
	require.NoError(t, s.Create(ctx, u))

	creds, err := s.GetCredentials(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "$argon2id$secret-hash", creds.Password)
	assert.False(t, mr.Exists(fmt.Sprintf(constants.CacheKeyUserByID, u.ID)))
}

func TestCached_UpdateProfileInvalidates(t *testing.T) {
	ctx := context.Background()
	s, _, mr := newCachedWithMiniredis(t)

	u := &models.User{Username: "ana", Name: "Ana", Age: 28}
	require.NoError(t, s.Create(ctx, u))
	_, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, s.UpdateProfile(ctx, &models.User{ID: u.ID, Name: "Ana M.", Age: 29, IsAdmin: true}))
	assert.False(t, mr.Exists(fmt.Sprintf(constants.CacheKeyUserByID, u.ID)))

	got, err := s.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana M.", got.Name)
	assert.Equal(t, 29, got.Age)
	assert.True(t, got.IsAdmin)
}

func TestCached_DeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	s, _, mr := newCachedWithMiniredis(t)

	u := &models.User{Username: "ana", Age: 28}
	require.NoError(t, s.Create(ctx, u))
	_, err := s.GetByUsername(ctx, "ana")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, u.ID))

	_, err = s.GetByUsername(ctx, "ana")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = s.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, mr.Exists(fmt.Sprintf(constants.CacheKeyUserByUsername, "ana")))
}

func TestCached_StaleReadDoesNotRepopulateAfterWrite(t *testing.T) {
	ctx := context.Background()
	s, _, mr := newCachedWithMiniredis(t)

	u := &models.User{Username: "ana", Name: "Ana", Age: 28}
	require.NoError(t, s.Create(ctx, u))

	// A read loaded the row, then a delete ran before the read cached it.
	stale := toCached(u)
	require.NoError(t, s.Delete(ctx, u.ID))
	s.put(ctx, stale)

	assert.False(t, mr.Exists(fmt.Sprintf(constants.CacheKeyUserByID, u.ID)))
	_, err := s.GetByUsername(ctx, "ana")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Once the write window is over, caching resumes.
	other := &models.User{Username: "juan", Age: 30}
	require.NoError(t, s.Create(ctx, other))
	require.NoError(t, s.UpdateProfile(ctx, &models.User{ID: other.ID, Age: 31}))
	mr.FastForward(constants.CacheExpireUserWriteLock + time.Second)

	_, err = s.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(fmt.Sprintf(constants.CacheKeyUserByID, other.ID)))
}

func TestCached_DropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	s, _, mr := newCachedWithMiniredis(t)

	u := &models.User{Username: "ana", Name: "Ana", Age: 28}
	require.NoError(t, s.Create(ctx, u))

	require.NoError(t, mr.Set(fmt.Sprintf(constants.CacheKeyUserByID, u.ID), "{not json"))
	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	require.NoError(t, mr.Set(fmt.Sprintf(constants.CacheKeyUserByUsername, "ana"), "not-a-number"))
	got, err = s.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}
