package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashedUser(t *testing.T, id int, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{ID: id, Email: email, Password: string(hash), IsActive: true}
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret", time.Hour)

	mockRepo.On("GetByEmail", "a@x.com").Return(hashedUser(t, 7, "a@x.com", "Test1234!"), nil).Once()

	token, err := service.Login("a@x.com", "Test1234!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	profile, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, profile.Sub)
	assert.Equal(t, "a@x.com", profile.Email)
	assert.Equal(t, profile.Iat+3600, profile.Exp)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginRejected(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret", time.Hour)

	mockRepo.On("GetByEmail", "a@x.com").Return(hashedUser(t, 7, "a@x.com", "Test1234!"), nil).Once()
	_, err := service.Login("a@x.com", "wrong")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	mockRepo.On("GetByEmail", "nobody@x.com").
		Return(nil, fmt.Errorf("user with email nobody@x.com not found: %w", repositories.ErrNotFound)).Once()
	_, err = service.Login("nobody@x.com", "Test1234!")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	inactive := hashedUser(t, 8, "off@x.com", "Test1234!")
	inactive.IsActive = false
	mockRepo.On("GetByEmail", "off@x.com").Return(inactive, nil).Once()
	_, err = service.Login("off@x.com", "Test1234!")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateTokenRejected(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", "a@x.com").Return(hashedUser(t, 7, "a@x.com", "Test1234!"), nil)

	expired := services.NewAuthService(mockRepo, "secret", -time.Minute)
	token, err := expired.Login("a@x.com", "Test1234!")
	require.NoError(t, err)
	_, err = expired.ValidateToken(token)
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	other := services.NewAuthService(mockRepo, "other-secret", time.Hour)
	foreign, err := other.Login("a@x.com", "Test1234!")
	require.NoError(t, err)
	_, err = services.NewAuthService(mockRepo, "secret", time.Hour).ValidateToken(foreign)
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	_, err = other.ValidateToken("mock-jwt-token-1-1700000000")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))
}
