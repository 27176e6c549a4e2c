package repository

import (
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project data access,
// membership store included.
type ProjectRepository interface {
	// CreateWithCreatorMember creates a project and the creator's membership
	// row within a single transaction.
	CreateWithCreatorMember(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByPrefix finds a project by its unique prefix code
	FindByPrefix(prefix string) (*models.Project, error)

	// FindAll lists every project, newest first
	FindAll() ([]models.Project, error)

	// ListForUser lists projects where the user is creator or member, newest first
	ListForUser(userID uint64) ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// Delete removes a project together with its tasks and membership rows
	Delete(id uint64) error

	// AddMember inserts a membership pair
	AddMember(projectID, userID uint64) error

	// RemoveMember deletes a membership pair
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific membership pair
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// IsMember reports membership as a plain boolean gate; an absent project
	// yields false, not an error.
	IsMember(projectID, userID uint64) (bool, error)

	// ListMembers lists the users belonging to a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  uint64
	Status     *models.TaskStatus
	AssigneeID *uint64
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task, assigning the next local_task_id of its project
	// as one atomic unit.
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindByProjectAndLocalID resolves a ticket key (project, local number)
	FindByProjectAndLocalID(projectID, localTaskID uint64) (*models.Task, error)

	// List retrieves a project's tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID; soft-deleted comments are not returned
	FindByID(id uint64) (*models.Comment, error)

	// ListByTask lists a task's comments, oldest first, excluding deleted ones
	ListByTask(taskID uint64) ([]models.Comment, error)

	// Update persists changes to a comment
	Update(comment *models.Comment) error

	// SoftDelete marks a comment as deleted
	SoftDelete(id uint64) error
}
