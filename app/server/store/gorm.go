package store

import (
	"context"
	"errors"
	"fmt"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %q", common.ErrConflict, user.Username)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Gorm) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Gorm) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Gorm) GetCredentials(ctx context.Context, username string) (*models.User, error) {
	return s.GetByUsername(ctx, username)
}

func (s *Gorm) List(ctx context.Context, minAge int, page Page) ([]models.User, int64, error) {
	if page.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: negative offset %d", common.ErrValidation, page.Offset)
	}

	var (
		users []models.User
		count int64
	)

	// Chained gorm statements are not reusable, build one per query.
	queryBase := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.User{}).Where("age >= ?", minAge)
	}

	if err := queryBase().Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := queryBase().Order("id ASC")
	if !page.All() {
		query = query.Limit(page.Limit).Offset(page.Offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return users, count, nil
}

func (s *Gorm) UpdateProfile(ctx context.Context, user *models.User) error {
	// Select forces zero values (age 0, is_admin false) to be written too.
	res := s.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("name", "age", "is_admin", "updated_at").
		Updates(user)
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *Gorm) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
