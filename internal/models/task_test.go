package models_test

import (
	"testing"
	"time"

	"taskflow/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{
			name: "past deadline, not completed",
			task: models.Task{Status: models.StatusTodo, DueDate: &yesterday},
			want: true,
		},
		{
			name: "past deadline, in progress",
			task: models.Task{Status: models.StatusInProgress, DueDate: &yesterday},
			want: true,
		},
		{
			name: "past deadline, completed",
			task: models.Task{Status: models.StatusCompleted, DueDate: &yesterday},
			want: false,
		},
		{
			name: "future deadline",
			task: models.Task{Status: models.StatusTodo, DueDate: &tomorrow},
			want: false,
		},
		{
			name: "no deadline",
			task: models.Task{Status: models.StatusTodo},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdue(now))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, models.StatusTodo.Valid())
	assert.True(t, models.StatusInProgress.Valid())
	assert.True(t, models.StatusCompleted.Valid())
	assert.False(t, models.Status("done").Valid())
	assert.False(t, models.Status("").Valid())
}

func TestPriorityValid(t *testing.T) {
	assert.True(t, models.PriorityLow.Valid())
	assert.True(t, models.PriorityMedium.Valid())
	assert.True(t, models.PriorityHigh.Valid())
	assert.False(t, models.Priority("urgent").Valid())
}

func TestTaskOptions(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	task := models.Task{
		Title:    "Old",
		Status:   models.StatusTodo,
		Priority: models.PriorityLow,
		DueDate:  &due,
		Tags:     []string{"home"},
	}

	for _, opt := range []models.TaskOption{
		models.WithTitle("New"),
		models.WithDescription("details"),
		models.WithStatus(models.StatusCompleted),
		models.WithPriority(models.PriorityHigh),
		models.WithTags(nil),
		models.WithDueDate(nil),
	} {
		opt(&task)
	}

	assert.Equal(t, "New", task.Title)
	assert.Equal(t, "details", task.Description)
	assert.Equal(t, models.StatusCompleted, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	// nil-теги нормализуются в пустой список
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
	assert.Nil(t, task.DueDate)
}
