package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-crm/internal/config"
	"github.com/adanyl0v/go-crm/internal/delivery/http/v1"
	"github.com/adanyl0v/go-crm/internal/delivery/http/web"
	"github.com/adanyl0v/go-crm/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(requestLogger(globalLogger))
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully shut down
	// the server within the configured timeout.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine) {
	svc := newServices()

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	v1.RegisterRoutes(router, v1.New(globalLogger, svc))
	web.RegisterRoutes(router, web.New(globalLogger, svc))
}

func newServices() *services.Services {
	jwtCfg := config.Global().JWT
	return &services.Services{
		Auth: services.NewAuthService(
			globalLogger,
			globalPostgresPool,
			jwtCfg.Issuer,
			[]byte(jwtCfg.SigningKey),
			jwtCfg.AccessTokenTTL,
			jwtCfg.RefreshTokenTTL,
		),
		Sessions:  services.NewSessionService(globalLogger, globalPostgresPool),
		Users:     services.NewUserService(globalLogger, globalPostgresPool),
		Clients:   services.NewClientService(globalLogger, globalPostgresPool),
		Projects:  services.NewProjectService(globalLogger, globalPostgresPool),
		Tasks:     services.NewTaskService(globalLogger, globalPostgresPool),
		Dashboard: services.NewDashboardService(globalLogger, globalPostgresPool),
	}
}
