package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tracklane/task-tracker-api/internal/dto"
	apierrors "github.com/tracklane/task-tracker-api/internal/errors"
	"github.com/tracklane/task-tracker-api/internal/metrics"
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/services"
	"github.com/tracklane/task-tracker-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task in a project the current user belongs to. The
// per-project ticket number is assigned server-side.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Name        string     `json:"name" binding:"required,min=1,max=100"`
		Description *string    `json:"description"`
		ProjectID   uint64     `json:"project_id" binding:"required"`
		AssigneeID  uint64     `json:"assignee_id" binding:"required"`
		Priority    int        `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(actor, services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a single task by its database ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask modifies task fields. The owning project never changes.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Name        *string            `json:"name" binding:"omitempty,min=1,max=100"`
		Description *string            `json:"description"`
		AssigneeID  *uint64            `json:"assignee_id"`
		Priority    *int               `json:"priority"`
		Status      *models.TaskStatus `json:"status"`
		DueDate     *time.Time         `json:"due_date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(actor, taskID, services.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Its ticket number is never reissued.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(actor, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ListProjectTasks returns a project's tasks ordered by ticket number,
// optionally filtered by status and assignee.
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	input := services.ListTasksInput{
		ProjectID:  projectID,
		Pagination: utils.GetPaginationParams(c),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		statusInt, err := strconv.Atoi(statusStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		status := models.TaskStatus(statusInt)
		input.Status = &status
	}

	if assigneeStr := c.Query("assignee_id"); assigneeStr != "" {
		assigneeID, err := strconv.ParseUint(assigneeStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		input.AssigneeID = &assigneeID
	}

	tasks, total, err := h.taskService.ListByProject(actor, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  input.Pagination.Page,
			Limit: input.Pagination.Limit,
			Total: total,
		},
	})
}

// GetTaskByKey resolves a ticket key like MPP-7 from its two path parts.
func (h *TaskHandler) GetTaskByKey(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	prefix := c.Param("prefix")
	localID, err := strconv.ParseUint(c.Param("local_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid local_id")
		return
	}

	task, err := h.taskService.GetByKey(actor, prefix, localID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTasksByPrefix lists a project's tasks addressed by ticket prefix.
func (h *TaskHandler) ListTasksByPrefix(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	prefix := c.Param("prefix")
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListByPrefix(actor, prefix, params)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		metrics.IncrementPermissionDenied("task")
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		metrics.IncrementPermissionDenied("task")
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
