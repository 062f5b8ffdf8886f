package products

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	productsvc "ecomcore-backend/internal/application/products"
	uploadsvc "ecomcore-backend/internal/application/uploads"
	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/domain"
	"ecomcore-backend/internal/middleware"
	"ecomcore-backend/internal/rbac"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type stubStore struct {
	deleted [][]string
}

func (s *stubStore) Upload(_ context.Context, _ io.Reader, fileName, _, folder string) (string, string, error) {
	key := uploadsvc.ObjectKey(folder, fileName, time.Now())
	return "https://cdn.shop.com/" + key, key, nil
}

func (s *stubStore) Delete(context.Context, string) error { return nil }

func (s *stubStore) DeleteMany(_ context.Context, keys []string) error {
	s.deleted = append(s.deleted, keys)
	return nil
}

func (s *stubStore) Head(context.Context, string) (*uploadsvc.ObjectInfo, error) { return nil, nil }

func (s *stubStore) SignedURL(context.Context, string, time.Duration) (string, error) { return "", nil }

func setupProducts(t *testing.T, store uploadsvc.ObjectStore) *Handlers {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.ProductImage{}))
	return &Handlers{Service: &productsvc.Service{DB: db, Uploads: &uploadsvc.Service{Store: store}}}
}

func newApp(h *Handlers, u rbac.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetUser(c, u)
		return c.Next()
	})
	app.Get("/store/products", h.List)
	admin := app.Group("/admin")
	admin.Post("/products", middleware.RequirePermission(constants.ManageProducts), h.Create)
	admin.Post("/products/:id", middleware.RequireAnyPermission(constants.EditProducts, constants.ManageProducts), h.Update)
	admin.Delete("/products/:id", middleware.RequirePermission(constants.ManageProducts), h.Delete)
	admin.Post("/products/:id/images", middleware.RequirePermission(constants.ManageProducts), h.AddImage)
	admin.Get("/products/:id/images", middleware.RequirePermission(constants.ViewProducts), h.ListImages)
	return app
}

func sendJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func productBody(handle string) map[string]any {
	return map[string]any{
		"title":         "Trail shoe",
		"handle":        handle,
		"price":         89.5,
		"currency_code": "usd",
		"category_id":   uuid.NewString(),
	}
}

var admin = rbac.NewUserContext("a1", "a@shop.com", constants.Admin)

func createProduct(t *testing.T, app *fiber.App, handle string) string {
	resp, body := sendJSON(t, app, "POST", "/admin/products", productBody(handle))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return body["data"].(map[string]any)["product"].(map[string]any)["id"].(string)
}

func TestCreate_Permissions(t *testing.T) {
	h := setupProducts(t, &stubStore{})

	resp, body := sendJSON(t, newApp(h, rbac.NewUserContext("e1", "e@shop.com", constants.Editor)), "POST", "/admin/products", productBody("trail-shoe"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", body["error"].(map[string]any)["code"])

	resp, _ = sendJSON(t, newApp(h, rbac.Anonymous()), "POST", "/admin/products", productBody("trail-shoe"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	app := newApp(h, admin)
	createProduct(t, app, "trail-shoe")

	resp, _ = sendJSON(t, app, "POST", "/admin/products", productBody("trail-shoe"))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	bad := productBody("Trail Shoe")
	bad["price"] = -1
	resp, body = sendJSON(t, app, "POST", "/admin/products", bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, body["error"].(map[string]any)["details"], 2)
}

func TestUpdate_EditorAllowed(t *testing.T) {
	h := setupProducts(t, &stubStore{})
	id := createProduct(t, newApp(h, admin), "trail-shoe")

	editor := newApp(h, rbac.NewUserContext("e1", "e@shop.com", constants.Editor))
	resp, body := sendJSON(t, editor, "POST", "/admin/products/"+id, map[string]any{"price": 99})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 99.0, body["data"].(map[string]any)["product"].(map[string]any)["price"])

	resp, _ = sendJSON(t, editor, "POST", "/admin/products/"+uuid.NewString(), map[string]any{})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	viewer := newApp(h, rbac.NewUserContext("v1", "v@shop.com", constants.Viewer))
	resp, _ = sendJSON(t, viewer, "POST", "/admin/products/"+id, map[string]any{"price": 1})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreate_LocalImageURL(t *testing.T) {
	h := setupProducts(t, &stubStore{})
	body := productBody("trail-shoe")
	body["images"] = []map[string]any{{"url": "http://localhost:9000/static/shoe.png"}}

	resp, out := sendJSON(t, newApp(h, admin), "POST", "/admin/products", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, productsvc.ErrLocalImageURL.Error(), out["error"].(map[string]any)["message"])
}

func TestList(t *testing.T) {
	h := setupProducts(t, &stubStore{})
	app := newApp(h, admin)
	createProduct(t, app, "a")
	createProduct(t, app, "b")

	resp, err := app.Test(httptest.NewRequest("GET", "/store/products?limit=1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]any)
	assert.Equal(t, 2.0, data["count"])
	assert.Len(t, data["products"], 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/store/products?page=0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func imageRequest(t *testing.T, path, fileName, contentType string, data []byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestImages(t *testing.T) {
	store := &stubStore{}
	h := setupProducts(t, store)
	app := newApp(h, admin)
	id := createProduct(t, app, "trail-shoe")

	resp, err := app.Test(imageRequest(t, "/admin/products/"+id+"/images", "front.png", "image/png", pngHeader))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	meta := body["data"].(map[string]any)["meta"].(map[string]any)
	assert.Equal(t, "image/png", meta["mime_type"])
	assert.Contains(t, meta["s3_key"], "products/")

	resp, err = app.Test(imageRequest(t, "/admin/products/"+id+"/images", "notes.txt", "text/plain", []byte("just some text")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(imageRequest(t, "/admin/products/"+uuid.NewString()+"/images", "front.png", "image/png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/admin/products/"+id+"/images", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1.0, body["data"].(map[string]any)["count"])

	resp, _ = sendJSON(t, app, "DELETE", "/admin/products/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, store.deleted, 1)
	assert.Len(t, store.deleted[0], 1)
}

func TestAddImage_StorageDisabled(t *testing.T) {
	h := setupProducts(t, nil)
	app := newApp(h, admin)
	id := createProduct(t, app, "trail-shoe")

	resp, err := app.Test(imageRequest(t, "/admin/products/"+id+"/images", "front.png", "image/png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
