package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"librarium/internal/audit"
	"librarium/internal/auth"
	"librarium/internal/catalog"
	"librarium/internal/config"
	http_controllers "librarium/internal/http"
	"librarium/internal/persistence"
	"librarium/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain connections within the timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarium v%s", version)

	store, err := persistence.NewStore(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize data directory: %v", err)
	}

	cat, err := catalog.Open(store)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	var auditor *audit.Auditor
	if cfg.Audit.Enabled {
		auditor = audit.NewAuditor(cfg.Audit.Dir)
		log.Printf("Audit trail enabled at %s", cfg.Audit.Dir)
	}

	authService, err := auth.NewService(cat, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	sessionManager := auth.NewSessionManager(cfg.Auth)
	authController := auth.NewAuthController(authService, sessionManager)

	backupScheduler := scheduler.NewBackupScheduler(store, auditor, cfg.Backup, cfg.Audit.RetentionDays)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	if err := backupScheduler.Start(schedulerCtx); err != nil {
		log.Fatalf("Failed to start backup scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Users:          cat,
		Books:          cat,
		Circulation:    cat,
		Reporting:      cat,
		Auditor:        auditor,
		SessionManager: sessionManager,
		AuthController: authController,
		TemplatesPath:  cfg.UI.TemplatesPath,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		backupScheduler.Stop()
		schedulerCancel()
	}

	Serve(router, cfg, onShutdown)
}
