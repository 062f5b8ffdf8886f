package rbac

import "ecomcore-backend/internal/constants"

// AnonymousID is the ID carried by the anonymous user context.
const AnonymousID = "anonymous"

// UserContext is the requester, built per request from authentication data.
type UserContext struct {
	ID              string                 `json:"id"`
	Email           string                 `json:"email"`
	Role            constants.Role         `json:"role"`
	Permissions     []constants.Permission `json:"permissions"`
	IsAuthenticated bool                   `json:"is_authenticated"`
}

// NewUserContext resolves the role's permissions and marks the user authenticated.
// An unrecognised role yields an empty permission set rather than an error.
func NewUserContext(id, email string, role constants.Role) UserContext {
	return UserContext{
		ID:              id,
		Email:           email,
		Role:            role,
		Permissions:     constants.PermissionsFor(role),
		IsAuthenticated: true,
	}
}

// Anonymous returns the context used when no credentials were presented.
func Anonymous() UserContext {
	return UserContext{
		ID:              AnonymousID,
		Email:           "",
		Role:            constants.Viewer,
		Permissions:     constants.PermissionsFor(constants.Viewer),
		IsAuthenticated: false,
	}
}

// IsAdmin reports whether the user holds the top administrative role.
func (u UserContext) IsAdmin() bool {
	return u.Role == constants.Admin
}
