package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracklane/task-tracker-api/internal/models"
)

func TestProjectService_Create(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)

	project, err := env.projects.Create(manager, CreateProjectInput{
		Name:        "Mars Preparation",
		Prefix:      "MPP",
		Description: "Get ready",
	})
	require.NoError(t, err)
	require.Equal(t, manager.ID, project.CreatorID)
	require.True(t, project.IsActive)

	// The creator is a member from the same transaction.
	isMember, err := env.projects.IsMember(project.ID, manager.ID)
	require.NoError(t, err)
	require.True(t, isMember)
}

func TestProjectService_CreateRequiresManager(t *testing.T) {
	env := newTestEnv(t)
	plain := seedUser(t, env.db, "plain", false, false, true)
	admin := seedUser(t, env.db, "admin", true, false, false)

	_, err := env.projects.Create(plain, CreateProjectInput{Name: "P", Prefix: "AAA"})
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.projects.Create(admin, CreateProjectInput{Name: "P", Prefix: "AAA"})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestProjectService_CreateDuplicatePrefix(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	seedProject(t, env, manager, "MPP")

	_, err := env.projects.Create(manager, CreateProjectInput{Name: "Other", Prefix: "MPP"})
	require.ErrorIs(t, err, ErrPrefixTaken)
}

func TestProjectService_GetVisibility(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	member := seedUser(t, env.db, "member", false, false, true)
	outsider := seedUser(t, env.db, "outsider", false, false, true)
	admin := seedUser(t, env.db, "admin", true, false, false)

	project := seedProject(t, env, manager, "MPP")
	require.NoError(t, env.projects.AddMember(manager, project.ID, member.ID))

	_, err := env.projects.Get(manager, project.ID)
	require.NoError(t, err)

	_, err = env.projects.Get(member, project.ID)
	require.NoError(t, err)

	_, err = env.projects.Get(admin, project.ID)
	require.NoError(t, err)

	// An existing project an outsider cannot see is a permission error,
	// not a not-found.
	_, err = env.projects.Get(outsider, project.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.projects.Get(manager, project.ID+100)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_List(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	other := seedUser(t, env.db, "other", false, true, false)
	admin := seedUser(t, env.db, "admin", true, false, false)

	mine := seedProject(t, env, manager, "AAA")
	seedProject(t, env, other, "BBB")

	projects, err := env.projects.List(manager)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, mine.ID, projects[0].ID)

	projects, err = env.projects.List(admin)
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestProjectService_AddMember(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	member := seedUser(t, env.db, "member", false, false, true)
	project := seedProject(t, env, manager, "MPP")

	require.NoError(t, env.projects.AddMember(manager, project.ID, member.ID))

	// Membership is a set: adding the same pair again is a conflict.
	err := env.projects.AddMember(manager, project.ID, member.ID)
	require.ErrorIs(t, err, ErrAlreadyProjectMember)

	err = env.projects.AddMember(manager, project.ID, member.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)

	err = env.projects.AddMember(manager, project.ID+100, member.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_AddMemberOnlyCreator(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	rival := seedUser(t, env.db, "rival", false, true, false)
	member := seedUser(t, env.db, "member", false, false, true)
	project := seedProject(t, env, manager, "MPP")

	err := env.projects.AddMember(rival, project.ID, member.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestProjectService_RemoveMember(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	member := seedUser(t, env.db, "member", false, false, true)
	project := seedProject(t, env, manager, "MPP")

	require.NoError(t, env.projects.AddMember(manager, project.ID, member.ID))
	require.NoError(t, env.projects.RemoveMember(manager, project.ID, member.ID))

	isMember, err := env.projects.IsMember(project.ID, member.ID)
	require.NoError(t, err)
	require.False(t, isMember)

	// Removing someone who is not a member is a precondition failure.
	err = env.projects.RemoveMember(manager, project.ID, member.ID)
	require.ErrorIs(t, err, ErrNotInProject)
}

func TestProjectService_RemoveMemberCreatorProtected(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	project := seedProject(t, env, manager, "MPP")

	err := env.projects.RemoveMember(manager, project.ID, manager.ID)
	require.ErrorIs(t, err, ErrCreatorProtected)
}

func TestProjectService_UpdateReassignCreator(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	heir := seedUser(t, env.db, "heir", false, true, false)
	plain := seedUser(t, env.db, "plain", false, false, true)
	project := seedProject(t, env, manager, "MPP")

	// The new creator must hold the manager flag.
	_, err := env.projects.Update(manager, project.ID, UpdateProjectInput{CreatorID: &plain.ID})
	require.ErrorIs(t, err, ErrNewCreatorNotManager)

	missing := heir.ID + 100
	_, err = env.projects.Update(manager, project.ID, UpdateProjectInput{CreatorID: &missing})
	require.ErrorIs(t, err, ErrNewCreatorNotFound)

	// A valid re-assignment also makes the heir a member.
	updated, err := env.projects.Update(manager, project.ID, UpdateProjectInput{CreatorID: &heir.ID})
	require.NoError(t, err)
	require.Equal(t, heir.ID, updated.CreatorID)

	isMember, err := env.projects.IsMember(project.ID, heir.ID)
	require.NoError(t, err)
	require.True(t, isMember)

	// The old creator is no longer protected and can be removed by the heir.
	require.NoError(t, env.projects.RemoveMember(heir, project.ID, manager.ID))
}

func TestProjectService_UpdateOnlyCreator(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	rival := seedUser(t, env.db, "rival", false, true, false)
	project := seedProject(t, env, manager, "MPP")

	name := "Renamed"
	_, err := env.projects.Update(rival, project.ID, UpdateProjectInput{Name: &name})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestProjectService_DeactivateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	admin := seedUser(t, env.db, "admin", true, false, false)
	project := seedProject(t, env, manager, "MPP")

	task, err := env.tasks.Create(manager, CreateTaskInput{
		Name:       "cleanup",
		ProjectID:  project.ID,
		AssigneeID: manager.ID,
	})
	require.NoError(t, err)

	// An active project cannot be deleted.
	err = env.projects.Delete(admin, project.ID)
	require.ErrorIs(t, err, ErrProjectMustBeInactive)

	deactivated, err := env.projects.Deactivate(manager, project.ID)
	require.NoError(t, err)
	require.False(t, deactivated.IsActive)

	_, err = env.projects.Deactivate(manager, project.ID)
	require.ErrorIs(t, err, ErrProjectAlreadyInactive)

	// Only admins delete.
	err = env.projects.Delete(manager, project.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, env.projects.Delete(admin, project.ID))

	// Tasks and membership rows are gone with the project.
	var taskCount, memberCount int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&taskCount).Error)
	require.NoError(t, env.db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&memberCount).Error)
	require.Zero(t, taskCount)
	require.Zero(t, memberCount)
}

func TestProjectService_ListMembers(t *testing.T) {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	member := seedUser(t, env.db, "member", false, false, true)
	outsider := seedUser(t, env.db, "outsider", false, false, true)
	project := seedProject(t, env, manager, "MPP")

	require.NoError(t, env.projects.AddMember(manager, project.ID, member.ID))

	members, err := env.projects.ListMembers(member, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	_, err = env.projects.ListMembers(outsider, project.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)
}
