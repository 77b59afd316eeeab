package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models"
	"taskflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// ProfileUpdate — присутствующее поле перезаписывает, отсутствующее не трогает
type ProfileUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

type UserStats struct {
	MemberSince       time.Time `json:"memberSince"`
	DaysSinceJoining  int       `json:"daysSinceJoining"`
	ProfileCompletion int       `json:"profileCompletion"`
	LastLogin         time.Time `json:"lastLogin"`
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", "User not found")
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", "User not found")
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	targetUsername := user.Username
	if update.Username != nil {
		targetUsername = *update.Username
	}
	targetEmail := user.Email
	if update.Email != nil {
		targetEmail = *update.Email
	}

	exists, err := s.repo.ExistsOther(ctx, userID, targetUsername, targetEmail)
	if err != nil {
		return nil, fmt.Errorf("проверка уникальности: %w", err)
	}
	if exists {
		logger.Info("Service: Конфликт имени или почты",
			zap.String("username", targetUsername),
			zap.String("email", targetEmail))
		return nil, NewConflict("Username or email already exists")
	}

	user.Username = targetUsername
	user.Email = targetEmail
	if update.FirstName != nil {
		user.Profile.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.Profile.LastName = *update.LastName
	}

	if err := s.repo.Update(ctx, user); err != nil {
		// гонка с параллельной регистрацией: уникальность добил индекс
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewConflict("Username or email already exists")
		}
		return nil, fmt.Errorf("обновление пользователя: %w", err)
	}

	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return NewValidationError("All fields are required")
	}
	if len(newPassword) < MinPasswordLength {
		return NewValidationError("New password must be at least 6 characters")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("user", "User not found")
		}
		return fmt.Errorf("получение пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return NewValidationError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("хэширование пароля: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("обновление пароля: %w", err)
	}

	return nil
}

func (s *UserService) Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", "User not found")
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	now := time.Now()
	return &UserStats{
		MemberSince:       user.CreatedAt,
		DaysSinceJoining:  int(now.Sub(user.CreatedAt).Hours() / 24),
		ProfileCompletion: ProfileCompletion(user),
		LastLogin:         now,
	}, nil
}

// ProfileCompletion — доля заполненных полей профиля из семи слотов;
// пароль и дата регистрации есть всегда, поэтому два слота зачтены заранее
func ProfileCompletion(user *models.User) int {
	completed := 2
	total := 7

	if user.Username != "" {
		completed++
	}
	if user.Email != "" {
		completed++
	}
	if user.Profile.FirstName != "" {
		completed++
	}
	if user.Profile.LastName != "" {
		completed++
	}
	if user.Profile.Avatar != "" {
		completed++
	}

	return int(math.Round(float64(completed) / float64(total) * 100))
}
