package repository

import (
	"taskflow/internal/models"

	"github.com/google/uuid"
)

// TaskFilter — спецификация выборки задач: всегда ограничена владельцем,
// остальные условия опциональны (пустое значение — без фильтра)
type TaskFilter struct {
	UserID    uuid.UUID
	Status    models.Status
	Priority  models.Priority
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// SortColumn — имя колонки по белому списку, неизвестное поле сортируется по created_at
func (f TaskFilter) SortColumn() string {
	if col, ok := sortColumns[f.SortBy]; ok {
		return col
	}
	return "created_at"
}

// Descending — только явный "desc" даёт убывание, всё остальное по возрастанию
func (f TaskFilter) Descending() bool {
	return f.SortOrder == "desc"
}
