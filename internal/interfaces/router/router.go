package router

import (
	"time"

	"investportal-backend/internal/application/auth"
	catsvc "investportal-backend/internal/application/catalog"
	healthsvc "investportal-backend/internal/application/health"
	holdsvc "investportal-backend/internal/application/holdings"
	reqsvc "investportal-backend/internal/application/requests"
	"investportal-backend/internal/config"
	healthhandler "investportal-backend/internal/interfaces/handlers/health"
	holdhandler "investportal-backend/internal/interfaces/handlers/holdings"
	reqhandler "investportal-backend/internal/interfaces/handlers/requests"
	"investportal-backend/internal/middleware"
	"investportal-backend/internal/pkg/constants"
	"investportal-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New builds the Fiber app with global middleware and every route. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             30 * time.Second,
		WriteTimeout:            30 * time.Second,
	})

	app.Use(middleware.Tracing())
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             healthsvc.GormPinger{DB: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	verifier := auth.JWT{Secret: []byte(cfg.JWTSecret)}
	api := app.Group("/api/v1", middleware.RequireAuth(verifier))

	cat := &catsvc.Service{DB: db}
	rs := &reqsvc.Service{DB: db}
	rh := &reqhandler.Handlers{Service: rs, DisplayCurrency: cfg.DisplayCurrency}
	hs := &holdsvc.Service{DB: db, Catalog: cat}
	holdh := &holdhandler.Handlers{Service: hs}

	self := middleware.RequireSelfOrAdmin("userId")
	owner := middleware.RequireSelf("userId")
	submit := middleware.AuthorizePermission(constants.SubmitRequests)
	view := middleware.AuthorizePermission(constants.ViewHoldings)
	review := middleware.AuthorizePermission(constants.ReviewRequests)
	manage := middleware.AuthorizePermission(constants.ManageHoldings)

	// Investor request surface
	api.Get("/users/:userId/requests", self, view, rh.ListForUser)
	api.Post("/users/:userId/requests", self, submit, rh.Create)
	api.Put("/users/:userId/requests/:reqId", owner, submit, rh.Edit)
	api.Delete("/users/:userId/requests/:reqId", owner, submit, rh.Cancel)
	api.Get("/users/:userId/investments", self, view, holdh.ListForUser)

	// Admin review surface
	api.Get("/requests", review, rh.ListAll)
	api.Patch("/requests/:reqId", review, rh.UpdateStatus)
	api.Patch("/admin/requests/:reqId/approve", review, rh.Approve)
	api.Patch("/admin/requests/:reqId/reject", review, rh.Reject)

	// Direct ledger management
	api.Post("/admin/users/:userId/investments", manage, holdh.Assign)
	api.Delete("/admin/users/:userId/investments/:investmentId", manage, holdh.Unassign)
	api.Post("/admin/holdings/revalue", manage, holdh.Revalue)

	return app
}
