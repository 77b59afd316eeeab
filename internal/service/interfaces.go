package service

import (
	"context"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/repository"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	List(ctx context.Context, filter repository.TaskFilter) ([]*models.Task, int, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[models.Status]int, error)
	CountByPriority(ctx context.Context, userID uuid.UUID) (map[models.Priority]int, error)
	CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
	CountAllOverdue(ctx context.Context, now time.Time) (int, error)
	HealthCheck(ctx context.Context) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ExistsOther(ctx context.Context, excludeID uuid.UUID, username, email string) (bool, error)
}
