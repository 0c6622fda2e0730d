package inits

import (
	"context"
	"errors"
	"fmt"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/config"
	"usuarios-backend/app/server/models"
	"usuarios-backend/app/server/password"
	"usuarios-backend/app/server/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const MemoryStore = "memory"

// Store picks the backing store from the connection string, puts the Redis
// cache in front of it when rdb is set, and seeds the initial admin.
func Store(cfg *config.Config, rdb *redis.Client, hasher *password.Hasher, l *zap.Logger) (s store.Store, err error) {
	if cfg.System.DBConnectionString == MemoryStore {
		l.Warn("using in-memory user store, data is lost on restart")
		s = store.NewMemory()
	} else {
		db, dbErr := DB(cfg.System.DBConnectionString)
		if dbErr != nil {
			return nil, dbErr
		}
		s = store.NewGorm(db)
	}

	if rdb != nil {
		s = store.NewCached(s, rdb, l)
	}

	if err = initData(context.Background(), s, hasher, cfg); err != nil {
		return nil, fmt.Errorf("failed to init data into store: %w", err)
	}

	return s, nil
}

func initData(ctx context.Context, s store.Store, hasher *password.Hasher, cfg *config.Config) error {
	// Count existing users
	_, counter, err := s.List(ctx, 0, store.Page{Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter > 0 {
		return nil
	}

	// No users yet, add the initial admin
	hash, err := hasher.Hash(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}

	if err = s.Create(ctx, &models.User{
		Username: cfg.Bootstrap.AdminUsername,
		Name:     "Administrador",
		IsAdmin:  true,
		Password: hash,
	}); err != nil && !errors.Is(err, common.ErrConflict) {
		// Another replica may have seeded concurrently.
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
