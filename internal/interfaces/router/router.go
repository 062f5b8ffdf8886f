package router

import (
	"context"
	"time"

	authsvc "ecomcore-backend/internal/application/auth"
	healthsvc "ecomcore-backend/internal/application/health"
	productsvc "ecomcore-backend/internal/application/products"
	uploadsvc "ecomcore-backend/internal/application/uploads"
	usersvc "ecomcore-backend/internal/application/users"
	"ecomcore-backend/internal/config"
	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/infrastructure/database"
	authhandler "ecomcore-backend/internal/interfaces/handlers/auth"
	healthhandler "ecomcore-backend/internal/interfaces/handlers/health"
	producthandler "ecomcore-backend/internal/interfaces/handlers/products"
	uploadhandler "ecomcore-backend/internal/interfaces/handlers/uploads"
	userhandler "ecomcore-backend/internal/interfaces/handlers/users"
	"ecomcore-backend/internal/middleware"
	"ecomcore-backend/internal/pkg/logger"
	"ecomcore-backend/internal/pkg/metrics"
	"ecomcore-backend/internal/schemas"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps lets callers (tests, serverless entry points) supply ready clients instead of
// having CreateApp dial them from config.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store uploadsvc.ObjectStore
}

// CreateApp dials Postgres, Redis and object storage from cfg and builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var deps Deps
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				return nil, nil, nil, err
			}
		}
		deps.DB = db
	}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		deps.Redis = redis.NewClient(opts)
	}
	if cfg.StorageEnabled() {
		storageCfg, err := uploadsvc.ConfigFrom(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := uploadsvc.NewS3Store(ctx, storageCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		deps.Store = store
	} else {
		log.Warn().Msg("File storage not configured - uploads are disabled")
	}
	app := New(cfg, deps)
	return app, deps.DB, deps.Redis, nil
}

// New registers middleware and routes. Route groups whose dependencies are missing are
// not mounted.
func New(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               schemas.MaxUploadSize + 1024*1024,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		StoreOrigins: cfg.StoreCORS,
		AdminOrigins: cfg.AdminCORS,
		AllowLocal:   !cfg.IsProduction(),
	}))
	if cfg.SessionSecret != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key: middleware.CookieKey(cfg.SessionSecret),
		}))
	}
	app.Use(middleware.Tracing())
	app.Use(middleware.Metrics())
	app.Use(middleware.HealthMarker(deps.Redis))

	var sessions *middleware.SessionStore
	if deps.Redis != nil {
		sessions = middleware.NewSessionStore(deps.Redis)
	}
	tokens := authsvc.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	if deps.DB != nil {
		tokens.Users = &authsvc.Service{DB: deps.DB}
	}
	var verifier middleware.TokenVerifier
	if cfg.JWTSecret != "" {
		verifier = tokens
	} else {
		log.Warn().Msg("JWT_SECRET not set - bearer tokens are disabled, sessions only")
	}
	app.Use(middleware.Session(sessions))
	app.Use(middleware.Authenticate(verifier))
	app.Use(middleware.RouteLogger())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	hh := &healthhandler.Handlers{
		Checker: &healthsvc.Checker{
			Service:        logger.Service,
			Rdb:            deps.Redis,
			StorageEnabled: deps.Store != nil,
		},
		AdminKey: cfg.HealthAdminKey,
	}
	if deps.DB != nil {
		hh.Checker.DB = &database.Pinger{DB: deps.DB}
	}
	app.Get("/health/json", hh.JSON)
	app.Post("/health/reset", hh.Reset)

	uploads := &uploadsvc.Service{Store: deps.Store}
	uh := &uploadhandler.Handlers{Service: uploads}
	admin := app.Group("/admin")
	admin.Post("/uploads", middleware.RequireAnyPermission(constants.EditProducts, constants.ManageProducts), uh.Upload)
	admin.Get("/uploads/signed-url", middleware.RequirePermission(constants.ManageProducts), uh.SignedURL)

	store := app.Group("/store")
	sessionCfg := middleware.SessionConfig{AllowCrossSite: cfg.AllowCrossSite, IsProduction: cfg.IsProduction()}

	if deps.DB != nil {
		ph := &producthandler.Handlers{Service: &productsvc.Service{DB: deps.DB, Uploads: uploads, BackendURL: cfg.BackendURL}}
		store.Get("/products", ph.List)
		admin.Post("/products", middleware.RequirePermission(constants.ManageProducts), ph.Create)
		admin.Post("/products/:id", middleware.RequireAnyPermission(constants.EditProducts, constants.ManageProducts), ph.Update)
		admin.Delete("/products/:id", middleware.RequirePermission(constants.ManageProducts), ph.Delete)
		admin.Post("/products/:id/images", middleware.RequirePermission(constants.ManageProducts), ph.AddImage)
		admin.Get("/products/:id/images", middleware.RequirePermission(constants.ViewProducts), ph.ListImages)

		users := &usersvc.Service{DB: deps.DB}
		if sessions != nil {
			users.Sessions = sessions
		}
		ush := &userhandler.Handlers{Service: users}
		admin.Post("/users", middleware.RequirePermission(constants.ManageUsers), ush.CreateUser)
		admin.Patch("/users/:id", middleware.RequirePermission(constants.ManageUsers), ush.UpdateUser)
		store.Post("/customers/:id", middleware.RequireAuth(), ush.UpdateCustomer)
		store.Post("/customers/:id/password", middleware.RequireAuth(), ush.ChangePassword)
	} else {
		log.Warn().Msg("DATABASE_URL not set - catalogue, account and auth routes are disabled")
	}

	if deps.DB != nil && sessions != nil {
		authSvc := &authsvc.Service{DB: deps.DB}
		ah := &authhandler.Handlers{
			Service:  authSvc,
			Finder:   authSvc,
			Tokens:   tokens,
			Sessions: sessions,
			Limiter:  &authsvc.LoginLimiter{Rdb: deps.Redis, Limit: cfg.LoginRateLimit, Window: time.Minute},
			Config:   sessionCfg,
		}
		authGroup := app.Group("/auth")
		authGroup.Post("/register", ah.Register)
		authGroup.Post("/login", ah.Login)
		authGroup.Get("/me", middleware.RequireAuth(), ah.Me)
		authGroup.Delete("/logout", ah.Logout)
	}

	return app
}
