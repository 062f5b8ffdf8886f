package schemas

import v "ecomcore-backend/internal/pkg/validation"

var Login = v.New("login",
	v.String("email").Rule("email", "Invalid email address"),
	v.String("password").Rule("min=8", "Password must be at least 8 characters"),
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var Register = v.New("register",
	v.String("email").Rule("email", "Invalid email address"),
	v.String("password").Rule("min=8", "Password must be at least 8 characters"),
	v.String("first_name").Rule("min=2", "First name required"),
	v.String("last_name").Rule("min=2", "Last name required"),
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

var OTPRequest = v.New("otp_request",
	v.String("email").Rule("email", "Invalid email address"),
	v.String("phone").Optional().Rule("omitempty,phone", "Invalid phone format"),
)

type OTPRequestBody struct {
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

var OTPVerify = v.New("otp_verify",
	v.String("email").Rule("email", "Invalid email address"),
	v.String("otp").
		Rule("len=6", "OTP must be 6 digits").
		Rule("number", "OTP must be numeric"),
)

type OTPVerifyBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
