package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/models"
)

// Memory is a process-local Store. Records are copied in and out so callers
// never share state with the map.
type Memory struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewMemory() *Memory {
	return &Memory{
		nextID: 1,
		users:  make(map[uint]models.User),
	}
}

func (m *Memory) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %q", common.ErrConflict, user.Username)
		}
	}

	now := time.Now()
	user.ID = m.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	m.nextID++
	m.users[user.ID] = *user

	return nil
}

func (m *Memory) GetByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Memory) GetCredentials(ctx context.Context, username string) (*models.User, error) {
	return m.GetByUsername(ctx, username)
}

func (m *Memory) List(_ context.Context, minAge int, page Page) ([]models.User, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Age >= minAge {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if page.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: negative offset %d", common.ErrValidation, page.Offset)
	}

	total := int64(len(matched))
	if page.All() {
		return matched, total, nil
	}

	if page.Offset >= len(matched) {
		return []models.User{}, total, nil
	}
	end := page.Offset + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[page.Offset:end], total, nil
}

func (m *Memory) UpdateProfile(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	u.Name = user.Name
	u.Age = user.Age
	u.IsAdmin = user.IsAdmin
	u.UpdatedAt = time.Now()
	m.users[user.ID] = u

	return nil
}

func (m *Memory) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.users, id)

	return nil
}
