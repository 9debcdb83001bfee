package router // package router builds the echo instance and registers HTTP routes

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/checkin-api/internal/codec"
	"github.com/iliyamo/checkin-api/internal/config"
	"github.com/iliyamo/checkin-api/internal/handler"
	"github.com/iliyamo/checkin-api/internal/logging"
	"github.com/iliyamo/checkin-api/internal/middleware"
	"github.com/iliyamo/checkin-api/internal/service"
	"github.com/iliyamo/checkin-api/internal/validate"
)

// New returns a fully wired echo instance: validator, middleware chain and
// routes. rdb may be nil, in which case the response cache is disabled.
func New(cfg config.Config, log *logrus.Logger, rdb *redis.Client) (*echo.Echo, error) {
	confirmer, err := service.NewConfirmer(cfg.Check.MessageTemplate)
	if err != nil {
		return nil, fmt.Errorf("check.message_template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(logging.EchoLevel(log.GetLevel()))
	e.Validator = validate.New()
	e.Binder = &codec.Binder{}
	e.JSONSerializer = codec.JSONSerializer{}
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Order matters: the request ID must exist before the logger reads it,
	// and Recover sits inside the logger and hands the panic back as an
	// error, so the logger renders the 500 and records the cause.
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{DisableErrorHandler: true}))
	e.Use(middleware.CORS(cfg.CORS))
	e.Use(echomw.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.NewRedisCache(cfg.Cache, rdb, log))

	RegisterRoutes(e, handler.NewRootHandler(cfg.App.Port), handler.NewCheckHandler(confirmer))
	return e, nil
}

// RegisterRoutes maps the public endpoints. None of them require
// authentication.
func RegisterRoutes(e *echo.Echo, root *handler.RootHandler, check *handler.CheckHandler) {
	// readiness message for the frontend
	e.GET("/", root.Root)
	// load balancer health check
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.POST("/check", check.Check)
}
