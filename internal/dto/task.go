package dto

import (
	"fmt"
	"time"

	"github.com/tracklane/task-tracker-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Key         string            `json:"key,omitempty"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status"`
	Priority    int               `json:"priority"`
	DueDate     *time.Time        `json:"due_date"`
	ProjectID   uint64            `json:"project_id"`
	LocalTaskID uint64            `json:"local_task_id"`
	CreatorID   uint64            `json:"creator_id"`
	AssigneeID  uint64            `json:"assignee_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Creator     *UserRefDTO       `json:"creator,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		LocalTaskID: task.LocalTaskID,
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// The ticket key needs the project prefix, so it is only set when the
	// project is preloaded.
	if task.Project.ID != 0 {
		dto.Key = fmt.Sprintf("%s-%d", task.Project.Prefix, task.LocalTaskID)
	}

	if task.Creator.ID != 0 {
		creator := ToUserRefDTO(task.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks for list responses
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
