package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models"
	"taskflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// TaskQuery — сырые параметры запроса списка, до нормализации
type TaskQuery struct {
	Status    string
	Priority  string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalTasks  int  `json:"totalTasks"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type TaskStats struct {
	ByStatus     map[models.Status]int   `json:"byStatus"`
	ByPriority   map[models.Priority]int `json:"byPriority"`
	OverdueCount int                     `json:"overdueCount"`
	TotalTasks   int                     `json:"totalTasks"`
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// buildFilter нормализует параметры: page и limit прижимаются к разумным
// границам вместо отрицательных смещений
func buildFilter(userID uuid.UUID, q TaskQuery) repository.TaskFilter {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}

	return repository.TaskFilter{
		UserID:    userID,
		Status:    models.Status(q.Status),
		Priority:  models.Priority(q.Priority),
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Page:      q.Page,
		Limit:     q.Limit,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, q TaskQuery) ([]*models.Task, Pagination, error) {
	filter := buildFilter(userID, q)

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("получение задач: %w", err)
	}

	pagination := Pagination{
		CurrentPage: filter.Page,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
		TotalTasks:  total,
		HasNext:     filter.Offset()+len(tasks) < total,
		HasPrev:     filter.Page > 1,
	}

	return tasks, pagination, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, title, description string, priority models.Priority, dueDate *time.Time, tags []string) (*models.Task, error) {
	if title == "" {
		return nil, NewValidationError("Title is required")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, NewValidationError("Invalid priority value")
	}
	if tags == nil {
		tags = []string{}
	}

	t := &models.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      models.StatusTodo,
		Priority:    priority,
		DueDate:     dueDate,
		Tags:        tags,
		UserID:      userID,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, options ...models.TaskOption) (*models.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", taskID.String()))
			return nil, NewNotFound("task", "Task not found")
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		opt(t)
	}

	if t.Title == "" {
		return nil, NewValidationError("Title is required")
	}
	if !t.Status.Valid() {
		return nil, NewValidationError("Invalid status value")
	}
	if !t.Priority.Valid() {
		return nil, NewValidationError("Invalid priority value")
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("task", "Task not found")
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", taskID.String()))
			return NewNotFound("task", "Task not found")
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// Stats — раздельные агрегаты по статусу и приоритету, плюс просроченные;
// "сейчас" фиксируется один раз на запрос
func (s *TaskService) Stats(ctx context.Context, userID uuid.UUID) (*TaskStats, error) {
	now := time.Now()

	statusCounts, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("агрегация по статусу: %w", err)
	}

	priorityCounts, err := s.repo.CountByPriority(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("агрегация по приоритету: %w", err)
	}

	overdue, err := s.repo.CountOverdue(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("подсчёт просроченных: %w", err)
	}

	stats := &TaskStats{
		ByStatus: map[models.Status]int{
			models.StatusTodo:       0,
			models.StatusInProgress: 0,
			models.StatusCompleted:  0,
		},
		ByPriority: map[models.Priority]int{
			models.PriorityLow:    0,
			models.PriorityMedium: 0,
			models.PriorityHigh:   0,
		},
		OverdueCount: overdue,
	}

	for status, count := range statusCounts {
		stats.ByStatus[status] = count
		stats.TotalTasks += count
	}
	for priority, count := range priorityCounts {
		stats.ByPriority[priority] = count
	}

	return stats, nil
}
