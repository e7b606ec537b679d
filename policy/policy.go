// Package policy holds every role-scoped authorization rule as pure
// functions over (actor, resource) so the whole rule set is testable in
// one place. Controllers and route middleware consult it before every
// mutating or role-sensitive read; nothing here touches the store.
package policy

import (
	"errors"

	"taskhive/models"
)

// ErrInviteTokenUnset means the server has no admin invite token
// configured, so admin registration fails closed.
var ErrInviteTokenUnset = errors.New("admin invite token is not configured")

// ErrInviteTokenMismatch means the caller-supplied invite token did not
// match the configured one.
var ErrInviteTokenMismatch = errors.New("invalid admin invite token")

// projectVisibility is the role -> predicate table for project list
// scoping. Admins see everything; leaders see projects they lead or
// belong to; members see projects they belong to. The leader is not
// implicitly a member, so both sides of the leader predicate matter.
var projectVisibility = map[models.Role]func(userID, leaderID uint, memberIDs []uint) bool{
	models.RoleAdmin: func(_, _ uint, _ []uint) bool {
		return true
	},
	models.RoleLeader: func(userID, leaderID uint, memberIDs []uint) bool {
		return leaderID == userID || containsID(memberIDs, userID)
	},
	models.RoleMember: func(userID, _ uint, memberIDs []uint) bool {
		return containsID(memberIDs, userID)
	},
}

// ProjectVisible reports whether a project with the given leader and
// member set is in the caller's list scope. The calendar uses the same
// rule for its project half.
func ProjectVisible(role models.Role, userID, leaderID uint, memberIDs []uint) bool {
	pred, ok := projectVisibility[role]
	if !ok {
		return false
	}
	return pred(userID, leaderID, memberIDs)
}

// CanManageProjects covers project create and update.
func CanManageProjects(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleLeader
}

// CanDeleteProject is admin-only.
func CanDeleteProject(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanCreateTasks covers task creation; the referenced project must also
// exist, which the controller checks against the store.
func CanCreateTasks(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleLeader
}

// Task listing is intentionally unscoped: any authenticated caller may
// list tasks, optionally filtered by project. Every other listing
// endpoint is role-scoped; this asymmetry is preserved deliberately.

// CanUpdateTask permits admins, the leader of the task's owning project,
// and the task's assignees.
func CanUpdateTask(role models.Role, userID, projectLeaderID uint, assigneeIDs []uint) bool {
	if role == models.RoleAdmin {
		return true
	}
	return projectLeaderID == userID || containsID(assigneeIDs, userID)
}

// CanDeleteTask permits admins and the leader of the owning project.
// Assignees may update but never delete.
func CanDeleteTask(role models.Role, userID, projectLeaderID uint) bool {
	return role == models.RoleAdmin || projectLeaderID == userID
}

// CanListUsers permits admins and leaders.
func CanListUsers(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleLeader
}

// CanManageUsers covers user create and delete.
func CanManageUsers(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanUpdateUser permits admins and the user themself. Password fields
// are dropped by the controller regardless of who calls.
func CanUpdateUser(role models.Role, actorID, targetID uint) bool {
	return role == models.RoleAdmin || actorID == targetID
}

// CanAssignRole restricts role changes on user update to admins.
func CanAssignRole(role models.Role) bool {
	return role == models.RoleAdmin
}

// CheckAdminRegistration gates self-registration with the admin role on
// an exact invite-token match. No configured token means no admin
// registration at all, never a silent allow.
func CheckAdminRegistration(configured, supplied string) error {
	if configured == "" {
		return ErrInviteTokenUnset
	}
	if supplied == "" || supplied != configured {
		return ErrInviteTokenMismatch
	}
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
