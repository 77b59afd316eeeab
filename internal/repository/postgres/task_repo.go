package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = `id, title, description, status, priority, due_date, tags, user_id, created_at, updated_at`

type TaskStorage struct {
	pool *pgxpool.Pool
}

func NewTaskStorage(s *Storage) *TaskStorage {
	return &TaskStorage{pool: s.pool}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *models.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, title, description, status, priority, due_date, tags, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.Priority,
		taskToCreate.DueDate,
		taskToCreate.Tags,
		taskToCreate.UserID,
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// GetByID всегда ограничен владельцем: чужая задача неотличима от несуществующей
func (s *TaskStorage) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1 AND user_id = $2`

	t := &models.Task{}
	err := s.pool.QueryRow(ctx, query, taskID, userID).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.Tags,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	return t, nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *models.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				priority = $4,
				due_date = $5,
				tags = $6,
				updated_at = NOW()
			WHERE id = $7 AND user_id = $8
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.Priority,
		taskToUpdate.DueDate,
		taskToUpdate.Tags,
		taskToUpdate.ID,
		taskToUpdate.UserID,
	).Scan(&taskToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// List возвращает страницу задач и общее число совпадений под фильтром
func (s *TaskStorage) List(ctx context.Context, filter repo.TaskFilter) ([]*models.Task, int, error) {
	start := time.Now()

	where := []string{"user_id = $1"}
	args := []any{filter.UserID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			`(title ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%d))`,
			n, n, n))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE `+cond, args...).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return nil, 0, fmt.Errorf("подсчёт задач: %w", err)
	}

	direction := "ASC"
	if filter.Descending() {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		taskColumns, cond, filter.SortColumn(), direction, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		t := &models.Task{}
		err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.Priority,
			&t.DueDate,
			&t.Tags,
			&t.UserID,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, 0, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*50+time.Millisecond*10*time.Duration(filter.Limit) {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, total, nil
}

func (s *TaskStorage) CountByStatus(ctx context.Context, userID uuid.UUID) (map[models.Status]int, error) {
	raw, err := s.countGroupedBy(ctx, userID, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[models.Status]int, len(raw))
	for key, count := range raw {
		counts[models.Status(key)] = count
	}
	return counts, nil
}

func (s *TaskStorage) CountByPriority(ctx context.Context, userID uuid.UUID) (map[models.Priority]int, error) {
	raw, err := s.countGroupedBy(ctx, userID, "priority")
	if err != nil {
		return nil, err
	}
	counts := make(map[models.Priority]int, len(raw))
	for key, count := range raw {
		counts[models.Priority(key)] = count
	}
	return counts, nil
}

func (s *TaskStorage) countGroupedBy(ctx context.Context, userID uuid.UUID, column string) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY %s`, column, column)

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: Не удалось сгруппировать задачи", err, zap.String("column", column))
		return nil, fmt.Errorf("группировка по %s: %w", column, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("сканирование группы: %w", err)
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return counts, nil
}

// CountOverdue — незавершённые задачи с дедлайном строго раньше now
func (s *TaskStorage) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM tasks
				WHERE user_id = $1
				AND status != $2
				AND due_date IS NOT NULL
				AND due_date < $3`

	var count int
	if err := s.pool.QueryRow(ctx, query, userID, models.StatusCompleted, now).Scan(&count); err != nil {
		logger.Error("Repository: Не удалось посчитать просроченные задачи", err)
		return 0, fmt.Errorf("подсчёт просроченных: %w", err)
	}
	return count, nil
}

// CountAllOverdue — то же по всем пользователям, для фонового отчёта
func (s *TaskStorage) CountAllOverdue(ctx context.Context, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM tasks
				WHERE status != $1
				AND due_date IS NOT NULL
				AND due_date < $2`

	var count int
	if err := s.pool.QueryRow(ctx, query, models.StatusCompleted, now).Scan(&count); err != nil {
		logger.Error("Repository: Не удалось посчитать просроченные задачи", err)
		return 0, fmt.Errorf("подсчёт просроченных: %w", err)
	}
	return count, nil
}
