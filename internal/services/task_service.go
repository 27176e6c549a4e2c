package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/policy"
	"github.com/tracklane/task-tracker-api/internal/repository"
	"github.com/tracklane/task-tracker-api/internal/utils"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrNotProjectMember = errors.New("user is not a member of the project")
)

// TaskService handles task business logic. Every access decision reduces to
// membership in the task's owning project plus the manager-or-user role gate.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Name        string
	Description *string
	ProjectID   uint64
	AssigneeID  uint64
	Priority    int
	DueDate     *time.Time
}

// UpdateTaskInput represents input for updating a task. The owning project
// is never updatable; access is always evaluated against the stored one.
type UpdateTaskInput struct {
	Name        *string
	Description *string
	AssigneeID  *uint64
	Priority    *int
	Status      *models.TaskStatus
	DueDate     *time.Time
}

// ListTasksInput represents filters for listing a project's tasks.
type ListTasksInput struct {
	ProjectID  uint64
	Status     *models.TaskStatus
	AssigneeID *uint64
	Pagination utils.PaginationParams
}

// Get returns a task if the actor may access its project.
func (s *TaskService) Get(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureProjectAccess(actor, task.ProjectID); err != nil {
		return nil, err
	}

	return task, nil
}

// Create creates a task in the target project. The actor becomes creator,
// status starts at open, and the task receives the project's next local id.
func (s *TaskService) Create(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if err := s.ensureProjectAccess(actor, input.ProjectID); err != nil {
		return nil, err
	}

	// Membership implies the project exists; this guards the window where it
	// was deleted between the two lookups.
	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		CreatorID:   actor.ID,
		AssigneeID:  input.AssigneeID,
		Priority:    input.Priority,
		Status:      models.TaskStatusOpen,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Update modifies a task, gated by membership in its stored project.
func (s *TaskService) Update(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureProjectAccess(actor, task.ProjectID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.AssigneeID != nil {
		task.AssigneeID = *input.AssigneeID
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task, gated like read access.
func (s *TaskService) Delete(actor *models.User, taskID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if err := s.ensureProjectAccess(actor, task.ProjectID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListByProject returns a project's tasks, gated by membership in it.
func (s *TaskService) ListByProject(actor *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	if err := s.ensureProjectAccess(actor, input.ProjectID); err != nil {
		return nil, 0, err
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		ProjectID:  input.ProjectID,
		Status:     input.Status,
		AssigneeID: input.AssigneeID,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetByKey resolves a ticket key like MPP-7: project by prefix first (absent
// prefix is a not-found, before any policy answer), then the membership
// gate, then the local number.
func (s *TaskService) GetByKey(actor *models.User, prefix string, localTaskID uint64) (*models.Task, error) {
	project, err := s.projectRepo.FindByPrefix(prefix)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project by prefix: %w", err)
	}

	if err := s.ensureProjectAccess(actor, project.ID); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByProjectAndLocalID(project.ID, localTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListByPrefix lists a project's tasks addressed by prefix.
func (s *TaskService) ListByPrefix(actor *models.User, prefix string, pagination utils.PaginationParams) ([]models.Task, int64, error) {
	project, err := s.projectRepo.FindByPrefix(prefix)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project by prefix: %w", err)
	}

	return s.ListByProject(actor, ListTasksInput{
		ProjectID:  project.ID,
		Pagination: pagination,
	})
}

// ensureProjectAccess applies the task gate: role flag first, so an actor
// without any task role never learns whether the project exists, then the
// membership check, which degrades to false for an absent project.
func (s *TaskService) ensureProjectAccess(actor *models.User, projectID uint64) error {
	if !policy.HasTaskRole(actor) {
		return ErrPermissionDenied
	}

	isMember, err := s.projectRepo.IsMember(projectID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !policy.CanAccessTask(actor, isMember) {
		return ErrNotProjectMember
	}

	return nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
