package repository

import (
	"sync"

	"github.com/tracklane/task-tracker-api/internal/database"
	"github.com/tracklane/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB

	// projectLocks serializes local_task_id assignment per project. The
	// unique(project_id, local_task_id) index backs this at the schema level:
	// a cross-process race fails loudly instead of producing a duplicate key.
	projectLocks sync.Map
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) lockProject(projectID uint64) *sync.Mutex {
	mu, _ := r.projectLocks.LoadOrStore(projectID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create inserts a task with the next local_task_id of its project. The
// counter bump and the insert happen under a per-project lock inside one
// transaction, so concurrent creations in the same project always observe
// distinct consecutive numbers, and numbers of deleted tasks are never
// handed out again.
func (r *GormTaskRepository) Create(task *models.Task) error {
	mu := r.lockProject(task.ProjectID)
	mu.Lock()
	defer mu.Unlock()

	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Project{}).
			Where("id = ?", task.ProjectID).
			UpdateColumn("last_task_id", gorm.Expr("last_task_id + 1")).Error
		if err != nil {
			return err
		}

		var nextLocalID uint64
		err = tx.Model(&models.Project{}).
			Where("id = ?", task.ProjectID).
			Select("last_task_id").
			Scan(&nextLocalID).Error
		if err != nil {
			return err
		}

		task.LocalTaskID = nextLocalID
		return tx.Create(task).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByProjectAndLocalID resolves a ticket key (project, local number)
func (r *GormTaskRepository) FindByProjectAndLocalID(projectID, localTaskID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("project_id = ? AND local_task_id = ?", projectID, localTaskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves a project's tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("project_id = ?", filter.ProjectID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("local_task_id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task. Its local_task_id is never reused: numbering always
// continues past the historical maximum.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
