package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
	"github.com/Artixsss/MVDProject/internal/validation"
)

// UserStore описывает зависимости AuthService от хранилища учётных записей.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (int64, error)
}

// RoleStore описывает доступ к справочнику ролей.
type RoleStore interface {
	GetRoleByID(ctx context.Context, id int64) (*models.Role, error)
}

// AuthService инкапсулирует аутентификацию сотрудников.
type AuthService struct {
	users        UserStore
	roles        RoleStore
	tokenManager *TokenManager
}

// AuthResult итог входа или обновления токенов.
type AuthResult struct {
	User      *models.User
	Role      string
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users UserStore, roles RoleStore, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		roles:        roles,
		tokenManager: tokenManager,
	}
}

// Login проверяет логин и пароль, выпускает пару токенов.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	role, err := s.roleName(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokenManager.GeneratePair(user, role)
	if err != nil {
		return nil, fmt.Errorf("auth service: выпуск токенов %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("auth: вход выполнен")

	return &AuthResult{User: user, Role: role, TokenPair: pair}, nil
}

// Refresh выпускает новую пару токенов по refresh токену.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	role, err := s.roleName(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokenManager.GeneratePair(user, role)
	if err != nil {
		return nil, fmt.Errorf("auth service: выпуск токенов %w", err)
	}

	return &AuthResult{User: user, Role: role, TokenPair: pair}, nil
}

// roleName разворачивает role_id в имя роли для клеймов токена.
func (s *AuthService) roleName(ctx context.Context, user *models.User) (string, error) {
	role, err := s.roles.GetRoleByID(ctx, user.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return "employee", nil
		}
		return "", fmt.Errorf("auth service: роль %w", err)
	}
	return role.Name, nil
}
