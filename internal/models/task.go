package models

import "time"

type TaskStatus int

const (
	TaskStatusOpen       TaskStatus = 1
	TaskStatusInProgress TaskStatus = 2
	TaskStatusDone       TaskStatus = 3
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	ProjectID   uint64     `gorm:"not null;index;uniqueIndex:idx_tasks_project_local" json:"project_id"`
	CreatorID   uint64     `gorm:"not null;index" json:"creator_id"`
	AssigneeID  uint64     `gorm:"not null" json:"assignee_id"`
	Priority    int        `gorm:"not null" json:"priority"`
	Status      TaskStatus `gorm:"not null" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	// LocalTaskID is the human-facing per-project number; combined with the
	// project prefix it forms a ticket key like MPP-7.
	LocalTaskID uint64    `gorm:"not null;uniqueIndex:idx_tasks_project_local" json:"local_task_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}
