// Package entrypoint assembles the application and runs the HTTP
// server with graceful shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/config"
	"github.com/akumar/librarium/internal/database"
	"github.com/akumar/librarium/internal/database/catalog"
	"github.com/akumar/librarium/internal/database/challenges"
	"github.com/akumar/librarium/internal/database/clubs"
	"github.com/akumar/librarium/internal/database/membership"
	"github.com/akumar/librarium/internal/database/notifications"
	"github.com/akumar/librarium/internal/database/reports"
	http_controllers "github.com/akumar/librarium/internal/http"
	"github.com/akumar/librarium/internal/loans"
	"github.com/akumar/librarium/internal/logging"
	"github.com/akumar/librarium/internal/scheduler"
	"github.com/akumar/librarium/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains it
// within the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	log := logging.Logger()

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.WithField("timeout", timeout).Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Shutdown callback first, so the queue and scheduler stop
	// producing work before the listener closes.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %s", err)
	}

	log.Info("server exiting")
}

// Run wires every component together and serves until interrupted.
func Run(cfg *config.Config, version string) {
	log := logging.Logger()
	log.WithField("version", version).Info("starting librarium")

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set; refusing to start without a signing key")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("error closing database")
		}
	}()

	// Repositories
	catalogRepo := catalog.NewRepository(db.DB)
	membershipRepo := membership.NewRepository(db.DB)
	notificationsRepo := notifications.NewRepository(db.DB)
	reportsRepo := reports.NewRepository(db.DB)
	clubsRepo := clubs.NewRepository(db.DB)
	challengesRepo := challenges.NewRepository(db.DB)

	// Task queue, if enabled; notifications fall back to synchronous
	// writes otherwise.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var sink loans.NotificationSink
	var announcer http_controllers.ArrivalAnnouncer

	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.WithError(err).Warn("error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewNotifyUserQueue(notificationsRepo),
			tasks.NewBroadcastArrivalQueue(membershipRepo, notificationsRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		sink = tasks.NewQueueSink(taskClient)
		announcer = http_controllers.NewQueueAnnouncer(taskClient)
	} else {
		sink = tasks.NewDirectSink(notificationsRepo)
		announcer = &http_controllers.DirectAnnouncer{
			Members: membershipRepo,
			Writer:  notificationsRepo,
		}
	}

	// Loan lifecycle service
	loanService := loans.NewService(db, sink, cfg.Loans.FineRatePerDay)

	// Authentication
	authService := auth.NewService(db.DB, cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService)

	// Due-date reminder scheduler
	reminders := scheduler.NewReminderScheduler(db, sink, cfg.Reminders)
	if err := reminders.Start(context.Background()); err != nil {
		log.Fatalf("failed to start reminder scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Version:        version,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		Catalog:        catalogRepo,
		AdminCatalog:   catalogRepo,
		Members:        membershipRepo,
		AdminMembers:   membershipRepo,
		Notifications:  notificationsRepo,
		Reports:        reportsRepo,
		Loans:          loanService,
		Override:       loanService,
		Announcer:      announcer,
		PasswordReset:  authService,
		Clubs:          clubsRepo,
		Challenges:     challengesRepo,
		ChallengeAdmin: challengesRepo,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		reminders.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
