package models

import "time"

// TaskOption — функция частичного обновления: присутствующее в запросе
// поле превращается в опцию, отсутствующее поле задачу не трогает
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(t *Task) {
		t.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(t *Task) {
		t.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	return func(t *Task) {
		t.Status = status
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(t *Task) {
		t.Priority = priority
	}
}

func WithTags(tags []string) TaskOption {
	return func(t *Task) {
		if tags == nil {
			tags = []string{}
		}
		t.Tags = tags
	}
}

// WithDueDate с nil явно снимает дедлайн (null в теле запроса)
func WithDueDate(due *time.Time) TaskOption {
	return func(t *Task) {
		t.DueDate = due
	}
}
