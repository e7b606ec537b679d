package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/models"
)

func TestProjectVisible(t *testing.T) {
	const (
		caller = uint(10)
		leader = uint(20)
	)

	tests := []struct {
		name      string
		role      models.Role
		leaderID  uint
		memberIDs []uint
		want      bool
	}{
		{"admin sees unrelated project", models.RoleAdmin, leader, nil, true},
		{"leader sees own project", models.RoleLeader, caller, nil, true},
		{"leader sees joined project", models.RoleLeader, leader, []uint{caller}, true},
		{"leader does not see unrelated project", models.RoleLeader, leader, []uint{30}, false},
		{"member sees joined project", models.RoleMember, leader, []uint{5, caller}, true},
		{"member does not see led project", models.RoleMember, caller, nil, false},
		{"member does not see unrelated project", models.RoleMember, leader, nil, false},
		{"unknown role sees nothing", models.Role("ghost"), caller, []uint{caller}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectVisible(tt.role, caller, tt.leaderID, tt.memberIDs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectManagement(t *testing.T) {
	assert.True(t, CanManageProjects(models.RoleAdmin))
	assert.True(t, CanManageProjects(models.RoleLeader))
	assert.False(t, CanManageProjects(models.RoleMember))

	assert.True(t, CanDeleteProject(models.RoleAdmin))
	assert.False(t, CanDeleteProject(models.RoleLeader))
	assert.False(t, CanDeleteProject(models.RoleMember))
}

func TestCanUpdateTask(t *testing.T) {
	const (
		caller = uint(10)
		leader = uint(20)
	)

	tests := []struct {
		name        string
		role        models.Role
		leaderID    uint
		assigneeIDs []uint
		want        bool
	}{
		{"admin may update anything", models.RoleAdmin, leader, nil, true},
		{"project leader may update", models.RoleLeader, caller, nil, true},
		{"assignee may update", models.RoleMember, leader, []uint{caller}, true},
		{"assignee leader-role may update", models.RoleLeader, leader, []uint{caller}, true},
		{"bystander member denied", models.RoleMember, leader, []uint{30}, false},
		{"bystander leader denied", models.RoleLeader, leader, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUpdateTask(tt.role, caller, tt.leaderID, tt.assigneeIDs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanDeleteTask(t *testing.T) {
	const (
		caller = uint(10)
		leader = uint(20)
	)

	assert.True(t, CanDeleteTask(models.RoleAdmin, caller, leader))
	assert.True(t, CanDeleteTask(models.RoleLeader, caller, caller))
	// Being an assignee grants update rights only, never delete.
	assert.False(t, CanDeleteTask(models.RoleMember, caller, leader))
	assert.False(t, CanDeleteTask(models.RoleLeader, caller, leader))
}

func TestUserRules(t *testing.T) {
	assert.True(t, CanListUsers(models.RoleAdmin))
	assert.True(t, CanListUsers(models.RoleLeader))
	assert.False(t, CanListUsers(models.RoleMember))

	assert.True(t, CanManageUsers(models.RoleAdmin))
	assert.False(t, CanManageUsers(models.RoleLeader))

	assert.True(t, CanUpdateUser(models.RoleAdmin, 1, 2))
	assert.True(t, CanUpdateUser(models.RoleMember, 2, 2))
	assert.False(t, CanUpdateUser(models.RoleMember, 1, 2))
	assert.False(t, CanUpdateUser(models.RoleLeader, 1, 2))

	assert.True(t, CanAssignRole(models.RoleAdmin))
	assert.False(t, CanAssignRole(models.RoleLeader))
}

func TestCheckAdminRegistration(t *testing.T) {
	// No configured token fails closed, even for a plausible guess.
	err := CheckAdminRegistration("", "sekret")
	require.ErrorIs(t, err, ErrInviteTokenUnset)

	err = CheckAdminRegistration("sekret", "")
	require.ErrorIs(t, err, ErrInviteTokenMismatch)

	err = CheckAdminRegistration("sekret", "wrong")
	require.ErrorIs(t, err, ErrInviteTokenMismatch)

	require.NoError(t, CheckAdminRegistration("sekret", "sekret"))
}
