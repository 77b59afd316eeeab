package handlers

import (
	"context"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	ListTasks(ctx context.Context, userID uuid.UUID, q service.TaskQuery) ([]*models.Task, service.Pagination, error)
	CreateTask(ctx context.Context, userID uuid.UUID, title, description string, priority models.Priority, dueDate *time.Time, tags []string) (*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, options ...models.TaskOption) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (*service.TaskStats, error)
}

type UserService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update service.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	Stats(ctx context.Context, userID uuid.UUID) (*service.UserStats, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}
