package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/talentbridge/access-core/docs"
	"github.com/talentbridge/access-core/internal/api/handler"
	"github.com/talentbridge/access-core/internal/api/middleware"
	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

// Dependencies holds everything the router mounts.
type Dependencies struct {
	Log zerolog.Logger
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
	Sessions   ports.SessionValidator
	Authorizer ports.Authorizer

	Auth         *handler.AuthHandler
	Accounts     *handler.AccountHandler
	Jobs         *handler.JobHandler
	Applications *handler.ApplicationHandler
	SavedJobs    *handler.SavedJobHandler
	Chats        *handler.ChatHandler
	Health       *handler.HealthHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "access",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", deps.Health.Liveness)
	e.GET("/health/ready", deps.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	session := middleware.Session(deps.Sessions)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/refresh", deps.Auth.Refresh, session)
	auth.GET("/me", deps.Auth.Me, session)
	auth.PUT("/password", deps.Auth.ChangePassword, session)

	v1 := e.Group("/v1", session)

	// --- Accounts ---
	v1.POST("/accounts", deps.Accounts.Create,
		middleware.Authorize(deps.Authorizer, domain.ActionCreate, middleware.Fixed(domain.NewAccountTarget())))
	v1.GET("/accounts/:id", deps.Accounts.Get)
	v1.PATCH("/accounts/:id", deps.Accounts.UpdateProfile)
	v1.DELETE("/accounts/:id", deps.Accounts.Delete)
	v1.PUT("/accounts/:id/role", deps.Accounts.ChangeRole)
	v1.PUT("/accounts/:id/status", deps.Accounts.SetStatus)

	// --- Jobs ---
	v1.POST("/jobs", deps.Jobs.Create,
		middleware.Authorize(deps.Authorizer, domain.ActionCreate, middleware.Fixed(domain.NewJobTarget())))
	v1.GET("/jobs/:id", deps.Jobs.Get)
	v1.PATCH("/jobs/:id", deps.Jobs.Update)
	v1.DELETE("/jobs/:id", deps.Jobs.Delete)
	v1.POST("/jobs/:id/close", deps.Jobs.Close)
	v1.POST("/jobs/:id/applications", deps.Jobs.Apply)
	v1.POST("/jobs/:id/save", deps.Jobs.Save)

	// --- Applications ---
	v1.GET("/applications/:id", deps.Applications.Get)
	v1.DELETE("/applications/:id", deps.Applications.Withdraw)
	v1.PUT("/applications/:id/status", deps.Applications.UpdateStatus)

	// --- Saved jobs ---
	v1.GET("/saved-jobs", deps.SavedJobs.List)
	v1.DELETE("/saved-jobs/:id", deps.SavedJobs.Remove)

	// --- Chats ---
	v1.POST("/chats", deps.Chats.Open)
	v1.GET("/chats/:id", deps.Chats.Get)
	v1.POST("/chats/:id/messages", deps.Chats.Send)
	v1.POST("/messages/:id/read", deps.Chats.MarkRead)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
