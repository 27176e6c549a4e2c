package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/policy"
	"github.com/tracklane/task-tracker-api/internal/repository"
)

var (
	ErrPermissionDenied       = errors.New("permission denied")
	ErrProjectNotFound        = errors.New("project not found")
	ErrPrefixTaken            = errors.New("project prefix already in use")
	ErrAlreadyProjectMember   = errors.New("user already in project")
	ErrNotInProject           = errors.New("user not in project")
	ErrCreatorProtected       = errors.New("cannot remove project creator from project")
	ErrNewCreatorNotFound     = errors.New("new creator not found")
	ErrNewCreatorNotManager   = errors.New("new creator must be a manager")
	ErrProjectAlreadyInactive = errors.New("project already inactive")
	ErrProjectMustBeInactive  = errors.New("project must be inactive before deletion")
)

// ProjectService owns project lifecycle and the membership relation.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	log         *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Prefix      string
	Description string
}

// UpdateProjectInput represents a project update. A non-nil CreatorID
// re-assigns the project to a new manager.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	CreatorID   *uint64
}

// List returns every project for admins, otherwise the projects the actor
// created or belongs to, newest first.
func (s *ProjectService) List(actor *models.User) ([]models.Project, error) {
	if actor.IsAdmin {
		projects, err := s.projectRepo.FindAll()
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		return projects, nil
	}

	projects, err := s.projectRepo.ListForUser(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get returns one project if the actor is admin, creator, or member.
func (s *ProjectService) Get(actor *models.User, projectID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(projectID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if !policy.CanViewProject(actor, project, isMember) {
		return nil, ErrPermissionDenied
	}

	return project, nil
}

// Create creates a project owned by the actor, who must hold the manager
// flag. The creator's membership row is written in the same transaction.
func (s *ProjectService) Create(actor *models.User, input CreateProjectInput) (*models.Project, error) {
	if !policy.CanCreateProject(actor) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.projectRepo.FindByPrefix(input.Prefix); err == nil {
		return nil, ErrPrefixTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check prefix: %w", err)
	}

	project := &models.Project{
		Name:        input.Name,
		Prefix:      input.Prefix,
		Description: input.Description,
		CreatorID:   actor.ID,
		IsActive:    true,
	}

	if err := s.projectRepo.CreateWithCreatorMember(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("project created",
		zap.Uint64("project_id", project.ID),
		zap.String("prefix", project.Prefix),
		zap.Uint64("creator_id", actor.ID),
	)

	return project, nil
}

// Update modifies project fields. Only the current creator acting as manager
// may update; re-assigning the creator requires the new creator to exist,
// hold the manager flag, and be a member before the update commits.
func (s *ProjectService) Update(actor *models.User, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	if !actor.IsManager {
		return nil, ErrPermissionDenied
	}

	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !policy.CanManageProject(actor, project) {
		return nil, ErrPermissionDenied
	}

	if input.CreatorID != nil && *input.CreatorID != project.CreatorID {
		newCreator, err := s.userRepo.FindByID(*input.CreatorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNewCreatorNotFound
			}
			return nil, fmt.Errorf("failed to find new creator: %w", err)
		}
		if !newCreator.IsManager {
			return nil, ErrNewCreatorNotManager
		}

		isMember, err := s.projectRepo.IsMember(projectID, newCreator.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !isMember {
			if err := s.projectRepo.AddMember(projectID, newCreator.ID); err != nil {
				return nil, fmt.Errorf("failed to add new creator to project: %w", err)
			}
		}

		project.CreatorID = newCreator.ID
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Deactivate marks a project inactive. Only its creator acting as manager
// may do so, and only once.
func (s *ProjectService) Deactivate(actor *models.User, projectID uint64) (*models.Project, error) {
	if !actor.IsManager {
		return nil, ErrPermissionDenied
	}

	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !policy.CanManageProject(actor, project) {
		return nil, ErrPermissionDenied
	}

	if !project.IsActive {
		return nil, ErrProjectAlreadyInactive
	}

	project.IsActive = false
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to deactivate project: %w", err)
	}

	return project, nil
}

// Delete hard-deletes an inactive project, cascading its tasks and
// membership rows. Admin only.
func (s *ProjectService) Delete(actor *models.User, projectID uint64) error {
	if !policy.CanDeleteProject(actor) {
		return ErrPermissionDenied
	}

	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if project.IsActive {
		return ErrProjectMustBeInactive
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.log.Info("project deleted",
		zap.Uint64("project_id", projectID),
		zap.Uint64("actor_id", actor.ID),
	)

	return nil
}

// ListMembers returns a project's member set to admins, the creator, or
// existing members.
func (s *ProjectService) ListMembers(actor *models.User, projectID uint64) ([]models.ProjectMember, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(projectID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if !policy.CanViewProject(actor, project, isMember) {
		return nil, ErrPermissionDenied
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember adds a user to the project. Only the creator acting as manager
// may do so; adding an existing member is an error, not a duplicate row.
func (s *ProjectService) AddMember(actor *models.User, projectID, userID uint64) error {
	if !actor.IsManager {
		return ErrPermissionDenied
	}

	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if !policy.CanManageProject(actor, project) {
		return ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err == nil {
		return ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if err := s.projectRepo.AddMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// RemoveMember removes a user from the project. The creator can never be
// removed while they remain creator; removing a non-member is an error.
func (s *ProjectService) RemoveMember(actor *models.User, projectID, userID uint64) error {
	if !actor.IsManager {
		return ErrPermissionDenied
	}

	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if !policy.CanManageProject(actor, project) {
		return ErrPermissionDenied
	}

	if userID == project.CreatorID {
		return ErrCreatorProtected
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInProject
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// IsMember exposes the membership gate to the task and comment services.
func (s *ProjectService) IsMember(projectID, userID uint64) (bool, error) {
	return s.projectRepo.IsMember(projectID, userID)
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
