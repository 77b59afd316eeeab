package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"taskflow/internal/models"
)

type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
	Tags        []string        `json:"tags"`
}

// UpdateTaskRequest — частичное обновление: nil-поле не трогаем.
// DueDate хранится сырым JSON, чтобы отличать отсутствие от явного null.
type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *models.Status   `json:"status"`
	Priority    *models.Priority `json:"priority"`
	DueDate     json.RawMessage  `json:"dueDate"`
	Tags        *[]string        `json:"tags"`
}

// Options переводит присутствующие поля запроса в опции обновления:
// dueDate отсутствует — без изменений, null — снять дедлайн, значение — задать
func (r *UpdateTaskRequest) Options() ([]models.TaskOption, error) {
	options := []models.TaskOption{}

	if r.Title != nil {
		options = append(options, models.WithTitle(*r.Title))
	}
	if r.Description != nil {
		options = append(options, models.WithDescription(*r.Description))
	}
	if r.Status != nil {
		options = append(options, models.WithStatus(*r.Status))
	}
	if r.Priority != nil {
		options = append(options, models.WithPriority(*r.Priority))
	}
	if r.Tags != nil {
		options = append(options, models.WithTags(*r.Tags))
	}
	if len(r.DueDate) > 0 {
		if string(r.DueDate) == "null" {
			options = append(options, models.WithDueDate(nil))
		} else {
			var due time.Time
			if err := json.Unmarshal(r.DueDate, &due); err != nil {
				return nil, fmt.Errorf("неверный формат dueDate: %w", err)
			}
			options = append(options, models.WithDueDate(&due))
		}
	}

	return options, nil
}

type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
