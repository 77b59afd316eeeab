package service_test

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository - мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsOther(ctx context.Context, userID uuid.UUID, username, email string) (bool, error) {
	args := m.Called(ctx, userID, username, email)
	return args.Bool(0), args.Error(1)
}

var _ service.UserRepository = (*MockUserRepository)(nil)

func strPtr(s string) *string { return &s }

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	current := func() *models.User {
		return &models.User{
			ID:       userID,
			Username: "alice",
			Email:    "alice@example.com",
			Profile:  models.Profile{FirstName: "Alice"},
		}
	}

	t.Run("success - partial update keeps other fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, userID).Return(current(), nil)
		// смена только имени - уникальность проверяется по текущим username/email
		mockRepo.On("ExistsOther", mock.Anything, userID, "alice", "alice@example.com").Return(false, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "alice" &&
				u.Email == "alice@example.com" &&
				u.Profile.FirstName == "Alice" &&
				u.Profile.LastName == "Liddell"
		})).Return(nil)

		svc := service.NewUserService(mockRepo)
		user, err := svc.UpdateProfile(ctx, userID, service.ProfileUpdate{LastName: strPtr("Liddell")})

		require.NoError(t, err)
		assert.Equal(t, "Liddell", user.Profile.LastName)
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - username taken by another user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, userID).Return(current(), nil)
		mockRepo.On("ExistsOther", mock.Anything, userID, "bob", "alice@example.com").Return(true, nil)

		svc := service.NewUserService(mockRepo)
		_, err := svc.UpdateProfile(ctx, userID, service.ProfileUpdate{Username: strPtr("bob")})

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeConflict, busErr.Code)
		assert.Equal(t, "Username or email already exists", busErr.Message)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("error - duplicate race on update", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, userID).Return(current(), nil)
		mockRepo.On("ExistsOther", mock.Anything, userID, "bob", "alice@example.com").Return(false, nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

		svc := service.NewUserService(mockRepo)
		_, err := svc.UpdateProfile(ctx, userID, service.ProfileUpdate{Username: strPtr("bob")})

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeConflict, busErr.Code)
	})

	t.Run("error - user not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, userID).Return(nil, repository.ErrNotFound)

		svc := service.NewUserService(mockRepo)
		_, err := svc.UpdateProfile(ctx, userID, service.ProfileUpdate{})

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeNotFound, busErr.Code)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("error - missing fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := service.NewUserService(mockRepo)

		err := svc.ChangePassword(ctx, userID, "", "new-password")

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeValidation, busErr.Code)
		assert.Equal(t, "All fields are required", busErr.Message)
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("error - new password too short", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := service.NewUserService(mockRepo)

		err := svc.ChangePassword(ctx, userID, "current", "short")

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeValidation, busErr.Code)
		assert.Equal(t, "New password must be at least 6 characters", busErr.Message)
		mockRepo.AssertNotCalled(t, "UpdatePassword")
	})

	t.Run("error - wrong current password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, userID).Return(&models.User{
			ID:           userID,
			PasswordHash: hashPassword(t, "correct-password"),
		}, nil)

		svc := service.NewUserService(mockRepo)
		err := svc.ChangePassword(ctx, userID, "wrong-password", "new-password")

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeValidation, busErr.Code)
		assert.Equal(t, "Current password is incorrect", busErr.Message)
		mockRepo.AssertNotCalled(t, "UpdatePassword")
	})

	t.Run("success - new hash stored", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, userID).Return(&models.User{
			ID:           userID,
			PasswordHash: hashPassword(t, "correct-password"),
		}, nil)
		mockRepo.On("UpdatePassword", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
		})).Return(nil)

		svc := service.NewUserService(mockRepo)
		err := svc.ChangePassword(ctx, userID, "correct-password", "new-password")

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_Stats(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, userID).Return(&models.User{
		ID:        userID,
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Now().Add(-10*24*time.Hour - time.Hour),
	}, nil)

	svc := service.NewUserService(mockRepo)
	stats, err := svc.Stats(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 10, stats.DaysSinceJoining)
	assert.Equal(t, 57, stats.ProfileCompletion)
	assert.False(t, stats.MemberSince.IsZero())
	assert.False(t, stats.LastLogin.IsZero())
}

func TestProfileCompletion(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want int
	}{
		{
			name: "empty profile - base slots only",
			user: models.User{},
			want: 29,
		},
		{
			name: "username and email",
			user: models.User{Username: "alice", Email: "alice@example.com"},
			want: 57,
		},
		{
			name: "five of seven slots",
			user: models.User{
				Username: "alice",
				Email:    "alice@example.com",
				Profile:  models.Profile{FirstName: "Alice"},
			},
			want: 71,
		},
		{
			name: "everything filled",
			user: models.User{
				Username: "alice",
				Email:    "alice@example.com",
				Profile: models.Profile{
					FirstName: "Alice",
					LastName:  "Liddell",
					Avatar:    "https://example.com/a.png",
				},
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.ProfileCompletion(&tt.user))
		})
	}
}
