// @title        HospitoFind API
// @version      1.0
// @description  Hospital directory backend: search, proximity lookup, community submissions and moderation.
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"hospitofind/internal/api"
	"hospitofind/internal/cache"
	"hospitofind/internal/config"
	"hospitofind/internal/database"
	"hospitofind/internal/geocode"
	"hospitofind/internal/handler/auth"
	"hospitofind/internal/mailer"
	"hospitofind/internal/router"
	"hospitofind/internal/service"
	"hospitofind/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "hospitofind/docs"

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Production)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return err
	}

	geoCapable := database.HasEarthDistance(ctx, db)
	if !geoCapable {
		logger.Warn("earthdistance extension unavailable, nearby search will scan in process")
	}

	wp := newWorkerPool(cfg.WorkerCount, 64)
	defer wp.Stop()

	memCache := cache.NewMemory(1024)
	defer func() { _ = memCache.Close() }()

	var mail mailer.Mailer = &mailer.Noop{Log: logger}
	if cfg.MailAPIURL != "" && cfg.MailAPIKey != "" {
		mail = mailer.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey, "no-reply@hospitofind.online", logger)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = newHTTPErrorHandler(e, logger)
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	router.Setup(e, router.Deps{
		DB:    db,
		Redis: rdb,
		Cache: memCache,
		Engine: &service.NearbyEngine{
			DB:         db,
			Cache:      memCache,
			GeoCapable: geoCapable,
			Logger:     logger,
		},
		Geocoder: geocode.NewClient(cfg.MapboxToken, logger),
		Auth: auth.Options{
			Production:  cfg.Production,
			FrontendURL: cfg.FrontendURL,
			Mailer:      mail,
			Workers:     wp,
			Logger:      logger,
		},
		Config: cfg,
		Logger: logger,
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	logger.Info("starting server", zap.String("port", cfg.Port))
	return startServer(e, ":"+cfg.Port)
}

// newHTTPErrorHandler logs unexpected errors with the request id before
// answering a generic 500. Deliberate echo.HTTPErrors keep their status
// through the default handler.
func newHTTPErrorHandler(e *echo.Echo, logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		logger.Error("unhandled error",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
		if !c.Response().Committed {
			_ = c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
		}
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
