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

	"task-manager/internal/config"
	v1 "task-manager/internal/delivery/http/v1"
	"task-manager/internal/services"
	"task-manager/internal/storage/postgres"
	"task-manager/internal/validation"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
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

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
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
	cfg := config.Global()

	taskStore := postgres.NewTaskStore(globalLogger, globalPostgresPool)
	userStore := postgres.NewUserStore(globalLogger, globalPostgresPool)
	sessionStore := postgres.NewSessionStore(globalLogger, globalPostgresPool)

	authService := services.NewAuthService(
		globalLogger,
		userStore,
		sessionStore,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, sessionStore)
	taskService := services.NewTaskService(globalLogger, taskStore, validation.PageLimits{
		DefaultLimit: cfg.Tasks.DefaultPageSize,
		MaxLimit:     cfg.Tasks.MaxPageSize,
	})
	userService := services.NewUserService(globalLogger, userStore)

	v1Handler := v1.New(
		globalLogger,
		authService,
		sessionService,
		taskService,
		userService,
		globalHub,
	)

	api := router.Group("/api/v1")

	authRouter := api.Group("/auth")
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.POST("/refresh", v1Handler.HandleRefresh)
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/logout", v1Handler.HandleAuthMiddleware, v1Handler.HandleLogout)

	taskRouter := api.Group("/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.GET("", v1Handler.HandleListTasks)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.PUT("", v1Handler.HandleUpdateTask)
	taskRouter.DELETE("", v1Handler.HandleDeleteTask)

	api.GET("/user", v1Handler.HandleAuthMiddleware, v1Handler.HandleGetProfile)
	api.PUT("/user", v1Handler.HandleAuthMiddleware, v1Handler.HandleUpdateProfile)

	api.GET("/notifications/ws", v1Handler.HandleAuthMiddleware, v1Handler.HandleNotificationsWS)

	// Unsupported verbs on the task collection answer 405 with an
	// Allow header instead of gin's default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		if c.Request.URL.Path == "/api/v1/tasks" {
			v1Handler.HandleTasksMethodNotAllowed(c)
			return
		}
		c.AbortWithStatus(http.StatusMethodNotAllowed)
	})
}
