package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/admin"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/auth"
	authPostgres "github.com/mfgkeeper/manufacturer-maintenance/internal/auth/postgres"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/keepalive"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/manufacturer"
	manufacturerPostgres "github.com/mfgkeeper/manufacturer-maintenance/internal/manufacturer/postgres"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/personnel"
	personnelPostgres "github.com/mfgkeeper/manufacturer-maintenance/internal/personnel/postgres"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport/rest"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/user"
	userPostgres "github.com/mfgkeeper/manufacturer-maintenance/internal/user/postgres"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that serves the manufacturer maintenance views`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	Logger    *slog.Logger
	DB        *database.Manager
	Keepalive *keepalive.Manager
	Router    *chi.Mux
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if deps.Config.Keepalive.Enabled {
		deps.Keepalive.Start()
	}

	addr := fmt.Sprintf("%s:%d", deps.Config.Server.Host, deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Keepalive.Stop()
		deps.DB.Close()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(logger.Config{
		Level:  config.Logging.Level,
		Format: config.Logging.Format,
		File:   config.Logging.File,
	})
	lg := logger.LoggerWrapper()

	manager := database.NewManager(config.Database, lg)

	// Dial eagerly so the retry loop runs before traffic arrives, but an
	// unreachable database must not stop the process: the app serves
	// degraded and the next request retries.
	if _, err := manager.Ensure(context.Background()); err != nil {
		lg.Warn("database unavailable at startup, continuing without it", "error", err)
	}

	codec := session.NewCodec(config.Session)
	gate := auth.NewGate()
	keep := keepalive.NewManager(config.Keepalive, manager, lg)

	authService := auth.NewService(authPostgres.NewRepository(manager), lg)
	authHandler := auth.NewHandler(authService, codec)

	personnelService := personnel.NewService(personnelPostgres.NewRepository(manager), lg)
	manufacturerService := manufacturer.NewService(manufacturerPostgres.NewRepository(manager), personnelService, lg)
	manufacturerHandler := manufacturer.NewHandler(manufacturerService, gate)
	personnelHandler := personnel.NewHandler(personnelService, manufacturerService, gate)

	userService := user.NewService(userPostgres.NewRepository(manager), manufacturerService, lg)
	userHandler := user.NewHandler(userService)

	adminService := admin.NewService(manager, keep, lg)
	adminHandler := admin.NewHandler(adminService)

	healthHandler := rest.NewHealthHandler(manager, keep, config.Keepalive.WakeupKey)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, codec, gate, keep,
		authHandler, manufacturerHandler, personnelHandler, userHandler, adminHandler, healthHandler, lg)

	return &Dependencies{
		Config:    config,
		Logger:    lg,
		DB:        manager,
		Keepalive: keep,
		Router:    router,
	}, nil
}
