package users

import (
	"context"
	"testing"
	"time"

	authsvc "ecomcore-backend/internal/application/auth"
	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/domain"
	"ecomcore-backend/internal/rbac"
	"ecomcore-backend/internal/schemas"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type revokeRecorder struct {
	revoked []string
}

func (r *revokeRecorder) DestroyAll(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

func setupService(t *testing.T) (*Service, *revokeRecorder) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	rec := &revokeRecorder{}
	return &Service{DB: db, Sessions: rec}, rec
}

func seedCustomer(t *testing.T, svc *Service, email, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{Email: email, FirstName: "Cus", LastName: "Tomer", Role: constants.Customer, PasswordHash: string(hash)}
	require.NoError(t, svc.DB.Create(u).Error)
	return u
}

func ptr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, schemas.CreateUserRequest{
		Email: "Editor@Shop.com", FirstName: "Ed", LastName: "Itor", Role: "editor",
	})
	require.NoError(t, err)
	assert.Equal(t, "editor@shop.com", created.User.Email)
	assert.Equal(t, constants.Editor, created.User.Role)
	require.NotEmpty(t, created.TemporaryPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.User.PasswordHash), []byte(created.TemporaryPassword)))

	_, err = svc.CreateUser(ctx, schemas.CreateUserRequest{
		Email: "editor@shop.com", FirstName: "Ed", LastName: "Two", Role: "viewer",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUser_RoleChangeRevokesSessions(t *testing.T) {
	svc, rec := setupService(t)
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, schemas.CreateUserRequest{
		Email: "v@shop.com", FirstName: "Vi", LastName: "Ewer", Role: "viewer",
	})
	require.NoError(t, err)
	id := created.User.UserID.String()

	u, err := svc.UpdateUser(ctx, id, schemas.UpdateUserRequest{FirstName: ptr("Victor")})
	require.NoError(t, err)
	assert.Equal(t, "Victor", u.FirstName)
	assert.Empty(t, rec.revoked)

	u, err = svc.UpdateUser(ctx, id, schemas.UpdateUserRequest{Role: ptr("editor")})
	require.NoError(t, err)
	assert.Equal(t, constants.Editor, u.Role)
	assert.Equal(t, []string{id}, rec.revoked)

	_, err = svc.UpdateUser(ctx, "00000000-0000-0000-0000-000000000000", schemas.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_DemotionInvalidatesBearerTokens(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, schemas.CreateUserRequest{
		Email: "boss@shop.com", FirstName: "Bo", LastName: "Ss", Role: "admin",
	})
	require.NoError(t, err)
	id := created.User.UserID.String()

	tokens := authsvc.NewTokens("secret", time.Hour)
	tokens.Users = &authsvc.Service{DB: svc.DB}
	signed, _, err := tokens.Issue(created.User)
	require.NoError(t, err)
	user, err := tokens.Verify(ctx, signed)
	require.NoError(t, err)
	assert.True(t, user.HasPermission(constants.ManageUsers))

	_, err = svc.UpdateUser(ctx, id, schemas.UpdateUserRequest{Role: ptr("viewer")})
	require.NoError(t, err)
	_, err = tokens.Verify(ctx, signed)
	assert.Error(t, err, "token issued before the demotion must not verify")

	_, err = svc.UpdateUser(ctx, id, schemas.UpdateUserRequest{FirstName: ptr("Bob")})
	require.NoError(t, err)
	var stored domain.User
	require.NoError(t, svc.DB.Where("user_id = ?", id).First(&stored).Error)
	assert.Equal(t, 1, stored.TokenVersion, "profile edits keep tokens valid")
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	seedCustomer(t, svc, "taken@shop.com", "password123")
	created, err := svc.CreateUser(ctx, schemas.CreateUserRequest{
		Email: "a@shop.com", FirstName: "A", LastName: "B", Role: "admin",
	})
	require.NoError(t, err)
	_, err = svc.UpdateUser(ctx, created.User.UserID.String(), schemas.UpdateUserRequest{Email: ptr("taken@shop.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateUser(ctx, created.User.UserID.String(), schemas.UpdateUserRequest{Email: ptr("a@shop.com")})
	assert.NoError(t, err, "keeping the same email is not a conflict")
}

func TestUpdateCustomer_OwnerAndAdmin(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	c := seedCustomer(t, svc, "c@shop.com", "password123")
	id := c.UserID.String()

	owner := rbac.NewUserContext(id, c.Email, constants.Customer)
	u, err := svc.UpdateCustomer(ctx, owner, id, schemas.UpdateCustomerRequest{Phone: ptr("+15551234567")})
	require.NoError(t, err)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "+15551234567", *u.Phone)

	admin := rbac.NewUserContext("admin-1", "admin@shop.com", constants.Admin)
	u, err = svc.UpdateCustomer(ctx, admin, id, schemas.UpdateCustomerRequest{FirstName: ptr("Carla")})
	require.NoError(t, err)
	assert.Equal(t, "Carla", u.FirstName)

	other := rbac.NewUserContext("someone-else", "x@shop.com", constants.Customer)
	_, err = svc.UpdateCustomer(ctx, other, id, schemas.UpdateCustomerRequest{FirstName: ptr("Nope")})
	assert.ErrorIs(t, err, rbac.ErrForbidden)

	_, err = svc.UpdateCustomer(ctx, rbac.Anonymous(), id, schemas.UpdateCustomerRequest{})
	assert.ErrorIs(t, err, rbac.ErrUnauthenticated)
}

func TestChangePassword(t *testing.T) {
	svc, rec := setupService(t)
	ctx := context.Background()
	c := seedCustomer(t, svc, "c@shop.com", "password123")
	id := c.UserID.String()
	owner := rbac.NewUserContext(id, c.Email, constants.Customer)

	err := svc.ChangePassword(ctx, owner, id, schemas.ChangePasswordRequest{
		CurrentPassword: "wrong-pass", NewPassword: "newpassword1", ConfirmPassword: "newpassword1",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	admin := rbac.NewUserContext("admin-1", "admin@shop.com", constants.Admin)
	err = svc.ChangePassword(ctx, admin, id, schemas.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1",
	})
	assert.ErrorIs(t, err, rbac.ErrForbidden, "no admin override for passwords")

	err = svc.ChangePassword(ctx, owner, id, schemas.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, rec.revoked)

	var stored domain.User
	require.NoError(t, svc.DB.Where("user_id = ?", id).First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword1")))
	assert.Equal(t, 1, stored.TokenVersion)
}
