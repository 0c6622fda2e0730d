package main

import (
	"fmt"
	"log"
	"usuarios-backend/app/server/apidocs"
	"usuarios-backend/app/server/handlers"
	"usuarios-backend/app/server/inits"
	"usuarios-backend/app/server/jwt"
	"usuarios-backend/app/server/middlewares"
	"usuarios-backend/app/server/password"
	"usuarios-backend/app/server/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Config
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// Logger
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer func() { _ = l.Sync() }()

	l.Debug("logger initialized")

	// Redis (optional)
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	// Store, migrations and initial admin
	hasher := password.New(nil)
	s, err := inits.Store(cfg, rdb, hasher, l)
	if err != nil {
		l.Fatal("error initializing user store", zap.Error(err))
	}

	// JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey, cfg.Security.TokenTTL)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// Handler app
	svc := service.NewUserService(s, hasher, j, l)
	handlerApp := handlers.NewApp(l, svc)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("request_id", v.RequestID),
				zap.Duration("latency", v.Latency),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Routes
	handlers.RegisterHandlers(e, handlerApp, middlewares.Auth(j, svc, l))

	// API docs
	if !cfg.System.IsProd {
		if swgJson, err := apidocs.Spec().MarshalJSON(); err != nil {
			l.Error("error initializing api spec", zap.Error(err))
		} else {
			var docOpts []apidocs.Opts
			if cfg.System.APIDocsPassword != "" {
				docOpts = append(docOpts, apidocs.WithAuthorizer(apidocs.BasicAuthorizer(cfg.System.APIDocsPassword)))
			}
			e.Pre(apidocs.Doc("/api", swgJson, docOpts...))
		}
	}

	// Start
	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}
