package constants

// Permission is an opaque capability tag.
type Permission string

const (
	ManageUsers      Permission = "manage_users"
	ManageRoles      Permission = "manage_roles"
	ManageProducts   Permission = "manage_products"
	ManageOrders     Permission = "manage_orders"
	ManageCustomers  Permission = "manage_customers"
	ViewAnalytics    Permission = "view_analytics"
	ManageSettings   Permission = "manage_settings"
	EditProducts     Permission = "edit_products"
	ViewProducts     Permission = "view_products"
	ManageCategories Permission = "manage_categories"
	ViewOrders       Permission = "view_orders"
	CreateOrders     Permission = "create_orders"
	ViewOwnOrders    Permission = "view_own_orders"
	EditOwnProfile   Permission = "edit_own_profile"
	ManageAddresses  Permission = "manage_addresses"
	ViewCategories   Permission = "view_categories"
)

// AllPermissions is the complete permission vocabulary.
var AllPermissions = []Permission{
	ManageUsers, ManageRoles, ManageProducts, ManageOrders, ManageCustomers,
	ViewAnalytics, ManageSettings, EditProducts, ViewProducts, ManageCategories,
	ViewOrders, CreateOrders, ViewOwnOrders, EditOwnProfile, ManageAddresses,
	ViewCategories,
}

// IsValidPermission returns true if p is part of the vocabulary.
func IsValidPermission(p string) bool {
	for _, known := range AllPermissions {
		if string(known) == p {
			return true
		}
	}
	return false
}
