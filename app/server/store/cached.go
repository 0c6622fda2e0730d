package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/constants"
	"usuarios-backend/app/server/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cached is a read-through Redis cache in front of another Store. Every
// authenticated request resolves its actor by username, so those lookups are
// the ones worth caching. Redis failures are logged and the backing store
// answers instead.
//
// Password hashes never reach Redis: users read through Cached come back
// without one, and GetCredentials always goes to the backing store.
type Cached struct {
	next Store
	rdb  *redis.Client
	l    *zap.Logger
}

// cachedUser is the Redis shape of models.User, minus the password hash.
type cachedUser struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	IsAdmin   bool      `json:"is_admin"`
}

func toCached(u *models.User) *cachedUser {
	return &cachedUser{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		IsAdmin:   u.IsAdmin,
	}
}

func (c *cachedUser) user() *models.User {
	return &models.User{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Username:  c.Username,
		Name:      c.Name,
		Email:     c.Email,
		Age:       c.Age,
		IsAdmin:   c.IsAdmin,
	}
}

var errSkipCache = errors.New("user is being written")

func NewCached(next Store, rdb *redis.Client, l *zap.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, l: l}
}

func (s *Cached) Create(ctx context.Context, user *models.User) error {
	if err := s.next.Create(ctx, user); err != nil {
		return err
	}
	// A deleted user with the same name may still be mapped.
	s.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyUserByUsername, user.Username))
	return nil
}

func (s *Cached) GetByID(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeyUserByID, id)

	// Query cache
	if cacheBytes, err := s.rdb.Get(ctx, cacheKey).Bytes(); err != nil {
		if !errors.Is(err, redis.Nil) {
			s.l.Error("failed to query cache for user", zap.Uint("id", id), zap.Error(err))
		}
	} else {
		var cached cachedUser
		if err = json.Unmarshal(cacheBytes, &cached); err != nil {
			s.l.Error("failed to unmarshal cached user", zap.Uint("id", id), zap.Error(err))
			// Probably a stale format, drop it
			s.rdb.Del(ctx, cacheKey)
		} else {
			return cached.user(), nil
		}
	}

	// Query store
	user, err := s.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cached := toCached(user)
	s.put(ctx, cached)
	return cached.user(), nil
}

func (s *Cached) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeyUserByUsername, username)

	if idStr, err := s.rdb.Get(ctx, cacheKey).Result(); err != nil {
		if !errors.Is(err, redis.Nil) {
			s.l.Error("failed to query cache for username", zap.String("username", username), zap.Error(err))
		}
	} else if id, err := strconv.ParseUint(idStr, 10, 64); err != nil {
		s.rdb.Del(ctx, cacheKey)
	} else if user, err := s.GetByID(ctx, uint(id)); err == nil && user.Username == username {
		return user, nil
	} else if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	} else {
		// The mapped user is gone or renamed, forget the mapping
		s.rdb.Del(ctx, cacheKey)
	}

	user, err := s.next.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	cached := toCached(user)
	s.put(ctx, cached)
	return cached.user(), nil
}

func (s *Cached) GetCredentials(ctx context.Context, username string) (*models.User, error) {
	return s.next.GetCredentials(ctx, username)
}

func (s *Cached) List(ctx context.Context, minAge int, page Page) ([]models.User, int64, error) {
	return s.next.List(ctx, minAge, page)
}

func (s *Cached) UpdateProfile(ctx context.Context, user *models.User) error {
	s.lockForWrite(ctx, user.ID)
	if err := s.next.UpdateProfile(ctx, user); err != nil {
		return err
	}
	s.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyUserByID, user.ID))
	return nil
}

func (s *Cached) Delete(ctx context.Context, id uint) error {
	s.lockForWrite(ctx, id)
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}
	s.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyUserByID, id))
	return nil
}

// lockForWrite marks id as being written so that a read which loaded the
// old row before the write cannot put it back into the cache afterwards.
func (s *Cached) lockForWrite(ctx context.Context, id uint) {
	if err := s.rdb.Set(ctx, fmt.Sprintf(constants.CacheKeyUserWriteLock, id), 1, constants.CacheExpireUserWriteLock).Err(); err != nil {
		s.l.Error("failed to set user write lock", zap.Uint("id", id), zap.Error(err))
	}
}

func (s *Cached) put(ctx context.Context, user *cachedUser) {
	cacheBytes, err := json.Marshal(user)
	if err != nil {
		s.l.Error("failed to marshal user", zap.Uint("id", user.ID), zap.Error(err))
		return
	}

	lockKey := fmt.Sprintf(constants.CacheKeyUserWriteLock, user.ID)

	// The lock key is watched, a write starting between the check and EXEC
	// aborts the transaction.
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, lockKey).Result()
		if err != nil {
			return err
		} else if n > 0 {
			return errSkipCache
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, fmt.Sprintf(constants.CacheKeyUserByID, user.ID), cacheBytes, constants.CacheExpireUser)
			pipe.Set(ctx, fmt.Sprintf(constants.CacheKeyUserByUsername, user.Username), user.ID, constants.CacheExpireUser)
			return nil
		})
		return err
	}, lockKey)

	switch {
	case err == nil:
	case errors.Is(err, errSkipCache), errors.Is(err, redis.TxFailedErr):
		s.l.Debug("user written concurrently, not caching", zap.Uint("id", user.ID))
	default:
		s.l.Error("failed to cache user", zap.Uint("id", user.ID), zap.Error(err))
	}
}
