package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/policy"
	"github.com/tracklane/task-tracker-api/internal/repository"
)

var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrNotCommentCreator = errors.New("only the comment creator can perform this action")
)

// CommentService handles comment business logic. Access reduces transitively
// to membership in the project owning the comment's task, plus ownership for
// mutation.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// Create adds a comment to a task the actor can access; the actor is always
// recorded as creator.
func (s *CommentService) Create(actor *models.User, taskID uint64, body string) (*models.Comment, error) {
	if err := s.ensureTaskAccess(actor, taskID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		CreatorID: actor.ID,
		Body:      body,
		TaskID:    taskID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListByTask returns a task's comments, gated like task access.
func (s *CommentService) ListByTask(actor *models.User, taskID uint64) ([]models.Comment, error) {
	if err := s.ensureTaskAccess(actor, taskID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Update edits a comment. Check order: the comment must exist, the actor
// must be its creator, and the actor must still pass the membership gate on
// the task's project. Editing a nonexistent comment is always a not-found,
// never a permission error.
func (s *CommentService) Update(actor *models.User, commentID uint64, body string) (*models.Comment, error) {
	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}

	if comment.CreatorID != actor.ID {
		return nil, ErrNotCommentCreator
	}

	if err := s.ensureTaskAccess(actor, comment.TaskID); err != nil {
		return nil, err
	}

	comment.Body = body
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// Delete soft-deletes a comment, with the same gating as Update.
func (s *CommentService) Delete(actor *models.User, commentID uint64) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}

	if comment.CreatorID != actor.ID {
		return ErrNotCommentCreator
	}

	if err := s.ensureTaskAccess(actor, comment.TaskID); err != nil {
		return err
	}

	if err := s.commentRepo.SoftDelete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// ensureTaskAccess walks the comment's chain: role gate, then task → project,
// then the membership gate on that project.
func (s *CommentService) ensureTaskAccess(actor *models.User, taskID uint64) error {
	if !policy.HasTaskRole(actor) {
		return ErrPermissionDenied
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	isMember, err := s.projectRepo.IsMember(task.ProjectID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !policy.CanReadComment(actor, isMember) {
		return ErrNotProjectMember
	}

	return nil
}

func (s *CommentService) findComment(commentID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}
