package rbac

import (
	"errors"
	"fmt"
	"slices"

	"ecomcore-backend/internal/constants"
)

var (
	ErrUnauthenticated = errors.New("Authentication required")
	ErrForbidden       = errors.New("You do not have permission to access this resource")
)

// HasPermission is false for unauthenticated users.
func (u UserContext) HasPermission(p constants.Permission) bool {
	if !u.IsAuthenticated {
		return false
	}
	return slices.Contains(u.Permissions, p)
}

// HasAnyPermission is true if at least one of perms is granted.
func (u UserContext) HasAnyPermission(perms ...constants.Permission) bool {
	if !u.IsAuthenticated {
		return false
	}
	for _, p := range perms {
		if slices.Contains(u.Permissions, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions is true if every one of perms is granted; an empty list is
// vacuously satisfied.
func (u UserContext) HasAllPermissions(perms ...constants.Permission) bool {
	if !u.IsAuthenticated {
		return false
	}
	for _, p := range perms {
		if !slices.Contains(u.Permissions, p) {
			return false
		}
	}
	return true
}

// CanAccessResource reports whether the user owns the resource, or is an admin and
// allowAdminOverride is set.
func (u UserContext) CanAccessResource(ownerID string, allowAdminOverride bool) bool {
	if allowAdminOverride && u.IsAdmin() {
		return true
	}
	return u.ID == ownerID
}

// CanAccessOwnResource is CanAccessResource with the admin override enabled.
func (u UserContext) CanAccessOwnResource(ownerID string) bool {
	return u.CanAccessResource(ownerID, true)
}

// Require returns ErrUnauthenticated, or a wrapped ErrForbidden naming the first
// permission not granted.
func (u UserContext) Require(perms ...constants.Permission) error {
	if !u.IsAuthenticated {
		return ErrUnauthenticated
	}
	if u.HasAllPermissions(perms...) {
		return nil
	}
	missing := slices.DeleteFunc(slices.Clone(perms), u.HasPermission)
	return fmt.Errorf("%w: missing %s", ErrForbidden, missing[0])
}

// RequireAny is Require satisfied by any one of perms.
func (u UserContext) RequireAny(perms ...constants.Permission) error {
	if !u.IsAuthenticated {
		return ErrUnauthenticated
	}
	if !u.HasAnyPermission(perms...) {
		return fmt.Errorf("%w: needs one of %v", ErrForbidden, perms)
	}
	return nil
}
