package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskflow/internal/models"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage — потокобезопасное хранилище в памяти, для разработки и тестов
type TaskStorage struct {
	storage map[uuid.UUID]*models.Task
	mtx     *sync.RWMutex
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*models.Task),
		mtx:     &sync.RWMutex{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.CreatedAt = time.Now()

	stored := *taskToCreate
	s.storage[stored.ID] = &stored
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[taskID]
	if !ok || t.UserID != userID {
		return nil, repo.ErrNotFound
	}

	found := *t
	return &found, nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.ID]
	if !ok || existing.UserID != taskToUpdate.UserID {
		return repo.ErrNotFound
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now

	stored := *taskToUpdate
	s.storage[stored.ID] = &stored
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskID]
	if !ok || existing.UserID != userID {
		return repo.ErrNotFound
	}

	delete(s.storage, taskID)
	return nil
}

// List фильтрует, сортирует и отдаёт страницу вместе с общим числом совпадений
func (s *TaskStorage) List(ctx context.Context, filter repo.TaskFilter) ([]*models.Task, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	matched := []*models.Task{}
	for _, t := range s.storage {
		if matches(t, filter) {
			found := *t
			matched = append(matched, &found)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.Descending() {
			return less(matched[j], matched[i], filter.SortColumn())
		}
		return less(matched[i], matched[j], filter.SortColumn())
	})

	total := len(matched)

	offset := filter.Offset()
	if offset >= total {
		return []*models.Task{}, total, nil
	}
	end := offset + filter.Limit
	if end > total {
		end = total
	}

	return matched[offset:end], total, nil
}

func matches(t *models.Task, filter repo.TaskFilter) bool {
	if t.UserID != filter.UserID {
		return false
	}
	if filter.Status != "" && t.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && t.Priority != filter.Priority {
		return false
	}
	if filter.Search == "" {
		return true
	}

	// регистронезависимый поиск подстроки по названию, описанию и тегам
	query := strings.ToLower(filter.Search)
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func less(a, b *models.Task, column string) bool {
	switch column {
	case "title":
		return a.Title < b.Title
	case "status":
		return a.Status < b.Status
	case "priority":
		return a.Priority < b.Priority
	case "due_date":
		return timeOrZero(a.DueDate).Before(timeOrZero(b.DueDate))
	case "updated_at":
		return timeOrZero(a.UpdatedAt).Before(timeOrZero(b.UpdatedAt))
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (s *TaskStorage) CountByStatus(ctx context.Context, userID uuid.UUID) (map[models.Status]int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	counts := map[models.Status]int{}
	for _, t := range s.storage {
		if t.UserID == userID {
			counts[t.Status]++
		}
	}
	return counts, nil
}

func (s *TaskStorage) CountByPriority(ctx context.Context, userID uuid.UUID) (map[models.Priority]int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	counts := map[models.Priority]int{}
	for _, t := range s.storage {
		if t.UserID == userID {
			counts[t.Priority]++
		}
	}
	return counts, nil
}

func (s *TaskStorage) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.storage {
		if t.UserID == userID && t.IsOverdue(now) {
			count++
		}
	}
	return count, nil
}

func (s *TaskStorage) CountAllOverdue(ctx context.Context, now time.Time) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.storage {
		if t.IsOverdue(now) {
			count++
		}
	}
	return count, nil
}
