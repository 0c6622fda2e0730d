// Package service implements the user operations behind the HTTP surface:
// signup, login, actor resolution and the policy-gated CRUD calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/constants"
	"usuarios-backend/app/server/jwt"
	"usuarios-backend/app/server/models"
	"usuarios-backend/app/server/password"
	"usuarios-backend/app/server/policy"
	"usuarios-backend/app/server/store"

	"go.uber.org/zap"
)

const maxUsernameLength = 64

type SignupInput struct {
	Name     string
	Username string
	Email    string
	Age      *int // required, a pointer so a missing value is not read as 0
	Password string
	IsAdmin  bool
}

// UserPatch holds the mutable profile fields; nil leaves a field unchanged.
type UserPatch struct {
	Name    *string
	Age     *int
	IsAdmin *bool
}

type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

type UserService struct {
	store  store.Store
	hasher *password.Hasher
	jwt    *jwt.JWT
	l      *zap.Logger

	// Verified against when the username is unknown, so both login failures
	// cost the same.
	dummyHash string
}

func NewUserService(s store.Store, hasher *password.Hasher, j *jwt.JWT, l *zap.Logger) *UserService {
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		l.Warn("failed to prepare dummy password hash", zap.Error(err))
	}

	return &UserService{
		store:     s,
		hasher:    hasher,
		jwt:       j,
		l:         l,
		dummyHash: dummyHash,
	}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.PublicUser, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateSignup(username, in); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Name:     in.Name,
		Email:    in.Email,
		Age:      *in.Age,
		IsAdmin:  in.IsAdmin,
		Password: passwordHash,
	}
	if err := s.store.Create(ctx, &user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Errorf(common.ErrConflict, "el username %q ya está registrado", username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.l.Info("user created", zap.Uint("id", user.ID), zap.String("username", user.Username), zap.Bool("isAdmin", user.IsAdmin))
	return user.Public(), nil
}

func (s *UserService) Login(ctx context.Context, username, plaintext string) (*Token, error) {
	badCredentials := common.Errorf(common.ErrUnauthenticated, "usuario o contraseña incorrectos")

	// Usernames are stored trimmed.
	user, err := s.store.GetCredentials(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(plaintext, s.dummyHash)
			return nil, badCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.Password) {
		return nil, badCredentials
	}

	token, err := s.jwt.SignToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		AccessToken: token,
		TokenType:   constants.TokenType,
		ExpiresIn:   s.jwt.TTL(),
	}, nil
}

// ResolveActor loads the user a verified token subject refers to.
func (s *UserService) ResolveActor(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.store.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrUnauthenticated, "no se pudo identificar al usuario")
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return user, nil
}

func (s *UserService) GetSelf(actor *models.User) (*models.PublicUser, error) {
	if err := policy.Authorize(actor, policy.ReadSelf, 0); err != nil {
		return nil, err
	}
	return actor.Public(), nil
}

func (s *UserService) GetByID(ctx context.Context, actor *models.User, id uint) (*models.PublicUser, error) {
	if err := policy.Authorize(actor, policy.ReadOther, id); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// ListAll returns one page of users and the total number of users.
func (s *UserService) ListAll(ctx context.Context, actor *models.User, page store.Page) ([]*models.PublicUser, int64, error) {
	return s.ListOlderThan(ctx, actor, 0, page)
}

// ListOlderThan lists users whose age is at least minAge.
func (s *UserService) ListOlderThan(ctx context.Context, actor *models.User, minAge int, page store.Page) ([]*models.PublicUser, int64, error) {
	if err := policy.Authorize(actor, policy.ReadList, 0); err != nil {
		return nil, 0, err
	}
	if minAge < 0 {
		return nil, 0, common.Errorf(common.ErrValidation, "la edad no puede ser negativa")
	}

	users, total, err := s.store.List(ctx, minAge, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	res := make([]*models.PublicUser, 0, len(users))
	for i := range users {
		res = append(res, users[i].Public())
	}
	return res, total, nil
}

func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, patch UserPatch) (*models.PublicUser, error) {
	if err := policy.Authorize(actor, policy.Update, id); err != nil {
		return nil, err
	}
	if patch.Age != nil && *patch.Age < 0 {
		return nil, common.Errorf(common.ErrValidation, "la edad no puede ser negativa")
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Age != nil {
		user.Age = *patch.Age
	}
	if patch.IsAdmin != nil {
		if policy.CanChangeAdminFlag(actor) {
			user.IsAdmin = *patch.IsAdmin
		} else {
			s.l.Debug("ignoring admin flag change", zap.Uint("actor", actor.ID), zap.Uint("target", id))
		}
	}

	if err := s.store.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrNotFound, "usuario no encontrado")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user.Public(), nil
}

func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := policy.Authorize(actor, policy.Delete, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf(common.ErrNotFound, "usuario no encontrado")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.l.Info("user deleted", zap.Uint("id", id), zap.Uint("actor", actor.ID))
	return nil
}

func (s *UserService) load(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrNotFound, "usuario no encontrado")
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

func validateSignup(username string, in SignupInput) error {
	if username == "" {
		return common.Errorf(common.ErrValidation, "el username es obligatorio")
	}
	if len(username) > maxUsernameLength {
		return common.Errorf(common.ErrValidation, "el username no puede superar %d caracteres", maxUsernameLength)
	}

	if in.Age == nil {
		return common.Errorf(common.ErrValidation, "la edad es obligatoria")
	}
	if *in.Age < 0 {
		return common.Errorf(common.ErrValidation, "la edad no puede ser negativa")
	}

	if len(in.Password) < password.MinLength {
		return common.Errorf(common.ErrValidation, "la contraseña debe tener al menos %d caracteres", password.MinLength)
	}
	if len(in.Password) > password.MaxLength {
		return common.Errorf(common.ErrValidation, "la contraseña no puede superar %d bytes", password.MaxLength)
	}

	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return common.Errorf(common.ErrValidation, "el mail %q no es válido", in.Email)
		}
	}

	return nil
}
