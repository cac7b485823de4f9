package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("u-1", "Anderson", "anderson@treebjj.com", "oss123", RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotContains(t, string(u.PasswordHash), "oss123")
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("u-1", "Anderson", "a@b.com", "pw", "COACH")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = NewUser("u-1", "Anderson", "a@b.com", "", RoleAdmin)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestCheckPassword(t *testing.T) {
	u, _ := NewUser("u-1", "Anderson", "a@b.com", "oss123", RoleProfessor)

	assert.NoError(t, u.CheckPassword("oss123"))
	assert.ErrorIs(t, u.CheckPassword("wrong"), ErrInvalidCredentials)
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageRoster())
	assert.True(t, RoleProfessor.CanManageRoster())
	assert.False(t, RoleStudent.CanManageRoster())
}
