package schemas

import (
	"ecomcore-backend/internal/constants"
	v "ecomcore-backend/internal/pkg/validation"
)

var UpdateCustomer = v.New("update_customer",
	v.String("first_name").Optional().Check("min=1"),
	v.String("last_name").Optional().Check("min=1"),
	v.String("phone").Optional().Rule("phone", "Invalid phone"),
)

type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

var ChangePassword = v.New("change_password",
	v.String("current_password").Check("min=8"),
	v.String("new_password").Rule("min=8", "Password must be at least 8 characters"),
	v.String("confirm_password"),
).MustEqual("confirm_password", "new_password", "Passwords don't match")

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Customers sign up through Register; staff accounts never get the customer role.
var CreateUser = v.New("create_user",
	v.String("email").Check("email"),
	v.String("first_name").Check("min=1"),
	v.String("last_name").Check("min=1"),
	v.String("role").Check("oneof=" + string(constants.Admin) + " " + string(constants.Editor) + " " + string(constants.Viewer)),
)

var UpdateUser = CreateUser.Partial("update_user")

type CreateUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
}

var CreateRole = v.New("create_role",
	v.String("name").Check("min=1", "max=50"),
	v.String("description").Optional(),
	v.Array("permissions", v.String("").Rule("permission", "Unknown permission")),
)

type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}
