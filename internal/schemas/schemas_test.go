package schemas

import (
	"context"
	"strings"
	"testing"

	"ecomcore-backend/internal/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryID = "550e8400-e29b-41d4-a716-446655440000"

func check(t *testing.T, s *validation.Schema, data map[string]any) validation.Violations {
	t.Helper()
	_, errs := s.Check(context.Background(), data)
	return errs
}

func TestLogin(t *testing.T) {
	assert.Nil(t, check(t, Login, map[string]any{"email": "user@example.com", "password": "SecurePass123!"}))

	errs := check(t, Login, map[string]any{"email": "not-an-email", "password": "SecurePass123!"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid email address", errs[0].Message)

	errs = check(t, Login, map[string]any{"email": "user@example.com", "password": "weak"})
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Path)
	assert.Equal(t, "min", errs[0].Code)

	errs = check(t, Login, map[string]any{"email": " user@example.com ", "password": "SecurePass123!"})
	assert.Equal(t, []string{"email"}, errs.Paths(), "emails are not trimmed")
}

func TestRegister(t *testing.T) {
	valid := map[string]any{
		"email":      "newuser@example.com",
		"password":   "SecurePass123!",
		"first_name": "John",
		"last_name":  "Doe",
	}
	got, err := validation.Validate[RegisterRequest](context.Background(), Register, valid)
	require.NoError(t, err)
	assert.Equal(t, "John", got.FirstName)

	// camelCase keys are not the accepted shape
	errs := check(t, Register, map[string]any{
		"email":           "newuser@example.com",
		"password":        "SecurePass123!",
		"passwordConfirm": "DifferentPass123!",
		"firstName":       "John",
		"lastName":        "Doe",
	})
	assert.Equal(t, []string{"first_name", "last_name"}, errs.Paths())

	errs = check(t, Register, map[string]any{"email": "newuser@example.com"})
	assert.Equal(t, []string{"password", "first_name", "last_name"}, errs.Paths())
	for _, e := range errs {
		assert.Equal(t, validation.CodeRequired, e.Code)
	}
}

func TestOTPRequest(t *testing.T) {
	assert.Nil(t, check(t, OTPRequest, map[string]any{"email": "user@example.com"}))
	assert.Nil(t, check(t, OTPRequest, map[string]any{"email": "user@example.com", "phone": "+1-234-567-8900"}))
	assert.Nil(t, check(t, OTPRequest, map[string]any{"email": "user@example.com", "phone": ""}))
	assert.NotNil(t, check(t, OTPRequest, map[string]any{"email": "not-an-email", "phone": "+1234567890"}))

	errs := check(t, OTPRequest, map[string]any{"email": "user@example.com", "phone": "invalid-phone"})
	require.Len(t, errs, 1)
	assert.Equal(t, validation.Violation{Path: "phone", Message: "Invalid phone format", Code: "phone"}, errs[0])
}

func TestOTPVerify(t *testing.T) {
	assert.Nil(t, check(t, OTPVerify, map[string]any{"email": "user@example.com", "otp": "123456"}))

	errs := check(t, OTPVerify, map[string]any{"email": "user@example.com", "otp": "12345a"})
	require.Len(t, errs, 1)
	assert.Equal(t, "OTP must be numeric", errs[0].Message)

	errs = check(t, OTPVerify, map[string]any{"email": "user@example.com", "otp": "12345"})
	require.Len(t, errs, 1)
	assert.Equal(t, "OTP must be 6 digits", errs[0].Message)
}

func product(overrides map[string]any) map[string]any {
	p := map[string]any{
		"title":         "Test Product",
		"handle":        "test-product",
		"price":         99.99,
		"currency_code": "USD",
		"category_id":   categoryID,
	}
	for k, v := range overrides {
		p[k] = v
	}
	return p
}

func TestProductCreate(t *testing.T) {
	assert.Nil(t, check(t, ProductCreate, product(nil)))

	full, err := validation.Validate[ProductCreateRequest](context.Background(), ProductCreate, product(map[string]any{
		"description": "A great product",
		"sku":         "SKU-12345",
		"weight":      2.5,
		"images": []any{
			map[string]any{"url": "https://example.com/image1.jpg"},
			map[string]any{"url": "https://example.com/image2.jpg"},
		},
	}))
	require.NoError(t, err)
	require.NotNil(t, full.Weight)
	assert.Equal(t, 2.5, *full.Weight)
	assert.Len(t, full.Images, 2)

	for _, h := range []string{"test-product", "product-123", "my-test-product-v2"} {
		assert.Nil(t, check(t, ProductCreate, product(map[string]any{"handle": h})), h)
	}
	for _, h := range []string{"Test Product", "test_product", "TEST-PRODUCT"} {
		errs := check(t, ProductCreate, product(map[string]any{"handle": h}))
		require.Len(t, errs, 1, h)
		assert.Equal(t, "Invalid handle format", errs[0].Message)
	}

	errs := check(t, ProductCreate, product(map[string]any{"price": float64(-100)}))
	require.Len(t, errs, 1)
	assert.Equal(t, "Price must be positive", errs[0].Message)
	assert.NotNil(t, check(t, ProductCreate, product(map[string]any{"price": float64(0)})))
	assert.NotNil(t, check(t, ProductCreate, product(map[string]any{"currency_code": "USDA"})))

	missing := product(nil)
	delete(missing, "title")
	errs = check(t, ProductCreate, missing)
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Path)

	errs = check(t, ProductCreate, product(map[string]any{"images": []any{map[string]any{"url": "not a url"}}}))
	require.Len(t, errs, 1)
	assert.Equal(t, "images.0.url", errs[0].Path)
}

func TestProductUpdate(t *testing.T) {
	assert.Nil(t, check(t, ProductUpdate, map[string]any{}))

	got, err := validation.Validate[ProductUpdateRequest](context.Background(), ProductUpdate, map[string]any{"price": 10.5})
	require.NoError(t, err)
	require.NotNil(t, got.Price)
	assert.Equal(t, 10.5, *got.Price)
	assert.Nil(t, got.Title)

	errs := check(t, ProductUpdate, map[string]any{"handle": "Bad Handle", "price": float64(0)})
	assert.Equal(t, []string{"handle", "price"}, errs.Paths())
}

func TestAddToCart(t *testing.T) {
	assert.Nil(t, check(t, AddToCart, map[string]any{"product_id": categoryID, "quantity": float64(1)}))
	assert.Nil(t, check(t, AddToCart, map[string]any{
		"product_id": categoryID,
		"quantity":   float64(2),
		"variant_id": "550e8400-e29b-41d4-a716-446655440001",
	}))

	for _, q := range []float64{0, -1} {
		errs := check(t, AddToCart, map[string]any{"product_id": categoryID, "quantity": q})
		require.Len(t, errs, 1)
		assert.Equal(t, "Quantity must be positive", errs[0].Message)
	}

	errs := check(t, AddToCart, map[string]any{"product_id": "not-a-uuid", "quantity": float64(1)})
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid product ID", errs[0].Message)

	errs = check(t, AddToCart, map[string]any{"product_id": categoryID, "quantity": 1.5})
	require.Len(t, errs, 1)
	assert.Equal(t, validation.CodeInvalidType, errs[0].Code)

	errs = check(t, AddToCart, map[string]any{"product_id": categoryID, "quantity": 1e19})
	require.Len(t, errs, 1)
	assert.Equal(t, validation.CodeInvalidType, errs[0].Code)
	assert.NotEqual(t, "Quantity must be positive", errs[0].Message)
}

func TestUpdateCart(t *testing.T) {
	got, err := validation.Validate[UpdateCartRequest](context.Background(), UpdateCart, map[string]any{
		"items": []any{map[string]any{"id": "item_1", "quantity": float64(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, []CartItem{{ID: "item_1", Quantity: 3}}, got.Items)

	errs := check(t, UpdateCart, map[string]any{
		"items": []any{
			map[string]any{"id": "item_1", "quantity": float64(1)},
			map[string]any{"quantity": float64(0)},
		},
	})
	assert.Equal(t, []string{"items.1.id", "items.1.quantity"}, errs.Paths())
}

func order(shipping map[string]any) map[string]any {
	return map[string]any{
		"email":            "user@example.com",
		"phone":            "+1-234-567-8900",
		"shipping_address": shipping,
	}
}

func shipping() map[string]any {
	return map[string]any{
		"first_name":   "John",
		"last_name":    "Doe",
		"address_1":    "123 Main St",
		"city":         "New York",
		"state":        "NY",
		"postal_code":  "10001",
		"country_code": "US",
	}
}

func TestCreateOrder(t *testing.T) {
	assert.Nil(t, check(t, CreateOrder, order(shipping())))

	withLine2 := shipping()
	withLine2["address_2"] = "Apt 4B"
	got, err := validation.Validate[CreateOrderRequest](context.Background(), CreateOrder, order(withLine2))
	require.NoError(t, err)
	require.NotNil(t, got.ShippingAddress.Address2)
	assert.Equal(t, "Apt 4B", *got.ShippingAddress.Address2)
	assert.Nil(t, got.BillingAddress)

	badCountry := shipping()
	badCountry["country_code"] = "USA"
	errs := check(t, CreateOrder, order(badCountry))
	require.Len(t, errs, 1)
	assert.Equal(t, validation.Violation{
		Path:    "shipping_address.country_code",
		Message: "Country code must be 2 characters",
		Code:    "len",
	}, errs[0])

	noLastName := shipping()
	delete(noLastName, "last_name")
	errs = check(t, CreateOrder, order(noLastName))
	require.Len(t, errs, 1)
	assert.Equal(t, "shipping_address.last_name", errs[0].Path)

	billing := shipping()
	billing["country_code"] = "X"
	data := order(shipping())
	data["billing_address"] = billing
	errs = check(t, CreateOrder, data)
	require.Len(t, errs, 1)
	assert.Equal(t, "billing_address.country_code", errs[0].Path)
}

func TestCreateReview(t *testing.T) {
	valid := map[string]any{
		"product_id": categoryID,
		"rating":     float64(4),
		"title":      "Great stuff",
		"content":    "Would buy this again.",
	}
	assert.Nil(t, check(t, CreateReview, valid))

	valid["rating"] = float64(6)
	errs := check(t, CreateReview, valid)
	require.Len(t, errs, 1)
	assert.Equal(t, "Rating must be between 1 and 5", errs[0].Message)

	errs = check(t, CreateReview, map[string]any{
		"product_id": categoryID,
		"rating":     float64(0),
		"title":      "Meh",
		"content":    "short",
	})
	assert.Equal(t, []string{"rating", "title", "content"}, errs.Paths())
}

func TestUpdateCustomer(t *testing.T) {
	assert.Nil(t, check(t, UpdateCustomer, map[string]any{}))
	assert.Nil(t, check(t, UpdateCustomer, map[string]any{"phone": "+44 20 7946 0958"}))

	errs := check(t, UpdateCustomer, map[string]any{"first_name": "", "phone": "call me"})
	assert.Equal(t, []string{"first_name", "phone"}, errs.Paths())
	assert.Equal(t, "Invalid phone", errs[1].Message)

	// an empty phone is not the same as an absent one here
	errs = check(t, UpdateCustomer, map[string]any{"phone": ""})
	assert.Equal(t, []string{"phone"}, errs.Paths())
}

func TestChangePassword(t *testing.T) {
	assert.Nil(t, check(t, ChangePassword, map[string]any{
		"current_password": "OldPassword1",
		"new_password":     "NewPassword1",
		"confirm_password": "NewPassword1",
	}))

	errs := check(t, ChangePassword, map[string]any{
		"current_password": "OldPassword1",
		"new_password":     "NewPassword1",
		"confirm_password": "Different1",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, validation.Violation{Path: "confirm_password", Message: "Passwords don't match", Code: validation.CodeNotEqual}, errs[0])
}

func TestCreateAndUpdateUser(t *testing.T) {
	user := map[string]any{"email": "staff@example.com", "first_name": "A", "last_name": "B", "role": "editor"}
	assert.Nil(t, check(t, CreateUser, user))

	user["role"] = "customer"
	errs := check(t, CreateUser, user)
	require.Len(t, errs, 1)
	assert.Equal(t, "oneof", errs[0].Code)
	assert.Equal(t, `Must be one of the following: "admin", "editor", "viewer"`, errs[0].Message)

	got, err := validation.Validate[UpdateUserRequest](context.Background(), UpdateUser, map[string]any{"role": "viewer"})
	require.NoError(t, err)
	require.NotNil(t, got.Role)
	assert.Equal(t, "viewer", *got.Role)
	assert.Nil(t, got.Email)

	assert.NotNil(t, check(t, UpdateUser, map[string]any{"role": "owner"}))
}

func TestCreateRole(t *testing.T) {
	assert.Nil(t, check(t, CreateRole, map[string]any{"name": "support", "permissions": []any{"view_orders"}}))

	errs := check(t, CreateRole, map[string]any{"name": strings.Repeat("x", 51), "permissions": []any{float64(1)}})
	assert.Equal(t, []string{"name", "permissions.0"}, errs.Paths())

	errs = check(t, CreateRole, map[string]any{"name": "support", "permissions": []any{"view_orders", "launch_rockets"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "permissions.1", errs[0].Path)
	assert.Equal(t, "Unknown permission", errs[0].Message)
	assert.Equal(t, "permission", errs[0].Code)
}

func TestFileUpload(t *testing.T) {
	assert.Nil(t, check(t, FileUpload, map[string]any{"filename": "a.png", "contentType": "image/png", "size": float64(1024)}))

	errs := check(t, FileUpload, map[string]any{"filename": "a.png", "contentType": "image/png", "size": float64(MaxUploadSize + 1)})
	require.Len(t, errs, 1)
	assert.Equal(t, "File size cannot exceed 10MB", errs[0].Message)

	errs = check(t, FileUpload, map[string]any{"filename": "", "contentType": "png", "size": float64(0)})
	assert.Equal(t, []string{"filename", "contentType", "size"}, errs.Paths())
}

func TestPagination(t *testing.T) {
	got, err := validation.Validate[PaginationQuery](context.Background(), Pagination, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, PaginationQuery{Page: 1, Limit: 20, Order: "asc"}, got)
	assert.Equal(t, 0, got.Offset())

	got, err = validation.Validate[PaginationQuery](context.Background(), Pagination, map[string]any{
		"page": "3", "limit": "50", "sort": "title", "order": "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 50, got.Limit)
	require.NotNil(t, got.Sort)
	assert.Equal(t, "title", *got.Sort)
	assert.Equal(t, 100, got.Offset())

	errs := check(t, Pagination, map[string]any{"page": "0", "limit": "101", "order": "sideways"})
	assert.Equal(t, []string{"page", "limit", "order"}, errs.Paths())
	assert.Equal(t, []string{"gt", "max", "oneof"}, errs.Codes())

	errs = check(t, Pagination, map[string]any{"page": "two"})
	require.Len(t, errs, 1)
	assert.Equal(t, validation.CodeInvalidType, errs[0].Code)

	errs = check(t, Pagination, map[string]any{"page": "4611686018427387904"})
	require.Len(t, errs, 1)
	assert.Equal(t, validation.CodeInvalidType, errs[0].Code)

	errs = check(t, Pagination, map[string]any{"page": "1000001"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Page is too large", errs[0].Message)

	got, err = validation.Validate[PaginationQuery](context.Background(), Pagination, map[string]any{"page": "1000000", "limit": "100"})
	require.NoError(t, err)
	assert.Equal(t, 99999900, got.Offset())
}
