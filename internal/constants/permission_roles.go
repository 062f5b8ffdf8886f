package constants

import "slices"

// roleDefinitions maps each role to the permissions it grants. Read-only after init;
// callers only ever see copies.
var roleDefinitions = map[Role][]Permission{
	Admin: {
		ManageUsers, ManageRoles, ManageProducts, ManageOrders, ManageCustomers,
		ViewAnalytics, ManageSettings, EditProducts, ViewProducts, ManageCategories,
		ViewOrders, CreateOrders, ViewOwnOrders, EditOwnProfile, ManageAddresses,
		ViewCategories,
	},
	Editor: {EditProducts, ViewProducts, ManageCategories, ViewOrders},
	Customer: {
		CreateOrders, ViewOwnOrders, EditOwnProfile, ManageAddresses,
		ViewProducts, ViewCategories,
	},
	Viewer: {ViewProducts, ViewCategories},
}

// PermissionsFor returns the permissions granted to role. Unknown roles get an empty set.
func PermissionsFor(role Role) []Permission {
	perms, ok := roleDefinitions[role]
	if !ok {
		return []Permission{}
	}
	return slices.Clone(perms)
}

// RoleDefinitions returns a copy of the full role → permissions table.
func RoleDefinitions() map[Role][]Permission {
	out := make(map[Role][]Permission, len(roleDefinitions))
	for role, perms := range roleDefinitions {
		out[role] = slices.Clone(perms)
	}
	return out
}

// RolesWith returns the roles that grant permission, in ValidRoles order.
func RolesWith(permission Permission) []Role {
	var roles []Role
	for _, r := range ValidRoles {
		if AllowedRole(permission, r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// AllowedRole returns true if role grants permission.
func AllowedRole(permission Permission, role Role) bool {
	return slices.Contains(roleDefinitions[role], permission)
}
