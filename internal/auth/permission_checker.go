package auth

import (
	"context"
	"sort"
)

const (
	PermCreateDirectMessage       = "create-direct-message"
	PermEditOtherUserInfo         = "edit-other-user-info"
	PermAssignAdminRole           = "assign-admin-role"
	PermDeleteUser                = "delete-user"
	PermEditOtherUserActiveStatus = "edit-other-user-active-status"
	PermViewFullOtherUserInfo     = "view-full-other-user-info"
	PermViewUserAdministration    = "view-user-administration"
	PermRunVersionCheck           = "run-version-check"
	PermEditPrivilegedSetting     = "edit-privileged-setting"
)

// DefaultRolePermissions is what a fresh installation grants.
var DefaultRolePermissions = map[string][]string{
	PermCreateDirectMessage:       {"admin", "user", "bot"},
	PermEditOtherUserInfo:         {"admin"},
	PermAssignAdminRole:           {"admin"},
	PermDeleteUser:                {"admin"},
	PermEditOtherUserActiveStatus: {"admin"},
	PermViewFullOtherUserInfo:     {"admin"},
	PermViewUserAdministration:    {"admin"},
	PermRunVersionCheck:           {"admin"},
	PermEditPrivilegedSetting:     {"admin"},
}

type PermissionChecker interface {
	HasPermission(userPermissions []string, permission string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	CanCreateDirectMessage(userPermissions []string) bool
	CanEditOtherUserInfo(userPermissions []string) bool
	CanAssignAdminRole(userPermissions []string) bool
	CanDeleteUser(userPermissions []string) bool
	CanEditOtherUserActiveStatus(userPermissions []string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

// HasPermissionCtx satisfies PermissionAuthorizer.
func (c *DefaultPermissionChecker) HasPermissionCtx(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasPermission(userPermissions, permission), nil
}

func (c *DefaultPermissionChecker) HasPermission(userPermissions []string, permission string) bool {
	return c.HasAnyPermission(userPermissions, []string{permission})
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) CanCreateDirectMessage(userPermissions []string) bool {
	return c.HasPermission(userPermissions, PermCreateDirectMessage)
}

func (c *DefaultPermissionChecker) CanEditOtherUserInfo(userPermissions []string) bool {
	return c.HasPermission(userPermissions, PermEditOtherUserInfo)
}

func (c *DefaultPermissionChecker) CanAssignAdminRole(userPermissions []string) bool {
	return c.HasPermission(userPermissions, PermAssignAdminRole)
}

func (c *DefaultPermissionChecker) CanDeleteUser(userPermissions []string) bool {
	return c.HasPermission(userPermissions, PermDeleteUser)
}

func (c *DefaultPermissionChecker) CanEditOtherUserActiveStatus(userPermissions []string) bool {
	return c.HasPermission(userPermissions, PermEditOtherUserActiveStatus)
}

// PermissionsForRoles resolves the permissions granted by roles from a permission -> roles table.
func PermissionsForRoles(table map[string][]string, roles []string) []string {
	granted := make(map[string]bool, len(roles))
	for _, r := range roles {
		granted[r] = true
	}
	var perms []string
	for perm, permRoles := range table {
		for _, r := range permRoles {
			if granted[r] {
				perms = append(perms, perm)
				break
			}
		}
	}
	sort.Strings(perms)
	return perms
}
