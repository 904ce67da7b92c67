package service

import (
	"testing"
	"time"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, testDB, testJWTSecret, 15*time.Minute, 7*24*time.Hour)

	return authService, testDB
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("new@example.com", "password123", "New", "User", "555-0100")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// Registration also creates the customer profile
	var customer model.Customer
	err = testDB.Where("user_id = ?", user.ID).First(&customer).Error
	require.NoError(t, err)
	assert.Equal(t, "555-0100", customer.Phone)
	assert.Equal(t, model.MembershipRegular, customer.Membership)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("dup@example.com", "password123", "First", "User", "")
	require.NoError(t, err)

	user, tokens, err := authService.Register("dup@example.com", "password456", "Second", "User", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("login@example.com", "password123", "Log", "In", "")
	require.NoError(t, err)

	user, tokens, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("wrongpw@example.com", "password123", "Wrong", "Pw", "")
	require.NoError(t, err)

	user, tokens, err := authService.Login("wrongpw@example.com", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, tokens, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("me@example.com", "password123", "Me", "User", "")
	require.NoError(t, err)

	user, err := authService.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
