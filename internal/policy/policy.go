// Package policy holds the pure authorization decision functions. Every
// function takes already-resolved entities and returns a plain boolean;
// resolving identifiers, ordering of failure kinds, and persistence all
// belong to the service layer.
package policy

import "github.com/tracklane/task-tracker-api/internal/models"

// HasTaskRole reports whether the actor holds a role that may touch tasks
// and comments at all. Admin alone is not enough: the admin role governs
// users and project deletion, not day-to-day task work.
func HasTaskRole(actor *models.User) bool {
	return actor.IsManager || actor.IsUser
}

// CanCreateProject reports whether the actor may create projects.
func CanCreateProject(actor *models.User) bool {
	return actor.IsManager
}

// CanViewProject reports whether the actor may read a project, its member
// list included. isMember is the membership-store answer for (project, actor).
func CanViewProject(actor *models.User, project *models.Project, isMember bool) bool {
	return actor.IsAdmin || project.CreatorID == actor.ID || isMember
}

// CanManageProject reports whether the actor may update, deactivate, or
// change the membership of a project. Requires the manager flag specifically:
// an admin who is not the creator cannot manage the project's fields.
func CanManageProject(actor *models.User, project *models.Project) bool {
	return actor.IsManager && project.CreatorID == actor.ID
}

// CanDeleteProject reports whether the actor may hard-delete projects.
func CanDeleteProject(actor *models.User) bool {
	return actor.IsAdmin
}

// CanAccessTask reports whether the actor may read or mutate tasks of a
// project. Every task decision reduces to this: the role gate plus
// membership in the owning project.
func CanAccessTask(actor *models.User, isMember bool) bool {
	return HasTaskRole(actor) && isMember
}

// CanReadComment mirrors task access through the comment's task's project.
func CanReadComment(actor *models.User, isMember bool) bool {
	return CanAccessTask(actor, isMember)
}

// CanMutateComment additionally requires ownership: only the comment's own
// creator may edit or delete it, and only while still a project member.
func CanMutateComment(actor *models.User, comment *models.Comment, isMember bool) bool {
	return comment.CreatorID == actor.ID && CanReadComment(actor, isMember)
}

// CanManageUsers reports whether the actor may register, update, or
// deactivate user accounts.
func CanManageUsers(actor *models.User) bool {
	return actor.IsAdmin
}
