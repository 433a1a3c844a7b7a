package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
)

// mockUserDirectory реализует UserStore и RoleStore для тестов.
type mockUserDirectory struct {
	usersByName map[string]*models.User
	usersByID   map[int64]*models.User
	roles       map[int64]*models.Role
}

func newMockUserDirectory() *mockUserDirectory {
	return &mockUserDirectory{
		usersByName: make(map[string]*models.User),
		usersByID:   make(map[int64]*models.User),
		roles:       make(map[int64]*models.Role),
	}
}

func (m *mockUserDirectory) add(user *models.User) {
	m.usersByName[user.Username] = user
	m.usersByID[user.ID] = user
}

func (m *mockUserDirectory) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserDirectory) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.usersByName[username]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserDirectory) Create(ctx context.Context, user *models.User) (int64, error) {
	user.ID = int64(len(m.usersByID) + 1)
	m.add(user)
	return user.ID, nil
}

func (m *mockUserDirectory) GetRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	if role, ok := m.roles[id]; ok {
		return role, nil
	}
	return nil, repository.ErrRoleNotFound
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserDirectory, *TokenManager) {
	t.Helper()
	dir := newMockUserDirectory()
	tokens := NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 720*time.Hour)
	return NewAuthService(dir, dir, tokens), dir, tokens
}

func seedOperator(t *testing.T, dir *mockUserDirectory, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	dir.roles[2] = &models.Role{ID: 2, Name: models.RoleOperator}
	user := &models.User{ID: 10, Username: "petrov", PasswordHash: string(hash), EmployeeID: 3, RoleID: 2}
	dir.add(user)
	return user
}

func TestAuthService_Login(t *testing.T) {
	svc, dir, tokens := newAuthFixture(t)
	seedOperator(t, dir, "secret-1")

	result, err := svc.Login(context.Background(), "petrov", "secret-1")
	require.NoError(t, err)

	assert.Equal(t, models.RoleOperator, result.Role)
	assert.Equal(t, int64(3), result.User.EmployeeID)
	require.NotEmpty(t, result.TokenPair.AccessToken)

	userID, role, err := tokens.ParseAccess(result.TokenPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(10), userID)
	assert.Equal(t, models.RoleOperator, role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, dir, _ := newAuthFixture(t)
	seedOperator(t, dir, "secret-1")

	_, err := svc.Login(context.Background(), "petrov", "secret-2")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	// Неизвестный логин даёт ту же ошибку, что и неверный пароль.
	_, err := svc.Login(context.Background(), "sidorov", "secret-1")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownRoleFallsBackToEmployee(t *testing.T) {
	svc, dir, _ := newAuthFixture(t)
	user := seedOperator(t, dir, "secret-1")
	delete(dir.roles, user.RoleID)

	result, err := svc.Login(context.Background(), "petrov", "secret-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, result.Role)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, dir, _ := newAuthFixture(t)
	seedOperator(t, dir, "secret-1")

	login, err := svc.Login(context.Background(), "petrov", "secret-1")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.TokenPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(10), refreshed.User.ID)
	assert.Equal(t, models.RoleOperator, refreshed.Role)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "не-токен")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
