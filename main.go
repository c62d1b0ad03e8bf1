// File: habittracker/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"habittracker/config"
	"habittracker/cron"
	"habittracker/database"
	eventsRepo "habittracker/database/repository/events"
	"habittracker/handlers"
	"habittracker/middleware"
	"habittracker/routes"
	"habittracker/services/button"
	"habittracker/services/display"
	"habittracker/services/notification"
	"habittracker/services/streak"
	"habittracker/services/tracker"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	config.LoadConfig(flags)
	logger := utils.GetLogger()
	defer logger.Sync()

	loc, err := config.AppConfig.Location()
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.InitDB(ctx, config.AppConfig.DatabasePath); err != nil {
		logger.Sugar().Fatalf("main: failed to open database: %v", err)
	}
	defer database.DB.Close()

	if err := utils.InitCache(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	var notifier notification.NotificationService = notification.NoopNotificationService{}
	if config.AppConfig.MQTTBroker != "" {
		mqttSvc, err := notification.NewMQTTNotificationService(
			config.AppConfig.MQTTBroker,
			config.AppConfig.MQTTClientID,
			config.AppConfig.MQTTTopic,
			logger,
		)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		notifier = mqttSvc
	}
	defer notifier.Close()

	// repositories.
	eventRepo := eventsRepo.NewSQLiteEventRepo(database.DB)

	// services.
	streakService := &streak.DefaultStreakService{
		Repo:     eventRepo,
		Cache:    streak.NewReportCache(utils.GetCacheClient()),
		CacheTTL: config.AppConfig.CacheTTL,
	}
	screen := display.NewImageDisplay()
	habitTracker := &tracker.Tracker{
		Streaks:      streakService,
		Display:      display.Multi(&display.LogDisplay{Logger: logger}, screen),
		Notification: notifier,
		Location:     loc,
		Logger:       logger,
	}

	presses := make(chan struct{}, 1)
	if config.AppConfig.GPIOEnabled {
		btn := button.NewDebouncedButton(presses, config.AppConfig.ButtonDebounce)
		line, err := button.WatchGPIO(config.AppConfig.GPIOChip, config.AppConfig.GPIOButtonLine, btn, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer line.Close()
	}

	trackerDone := make(chan error, 1)
	go func() { trackerDone <- habitTracker.Run(ctx, presses) }()

	scheduler, err := cron.StartRefreshScheduler(ctx, loc, refresher{streakService, habitTracker}, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer scheduler.Stop()

	// habitctl asks for a redraw with SIGHUP after writing to the database.
	hangups := make(chan os.Signal, 1)
	signal.Notify(hangups, syscall.SIGHUP)
	defer signal.Stop(hangups)
	go cron.RefreshOnSignal(ctx, hangups, refresher{streakService, habitTracker}, logger)

	utils.StartHealthMonitor(ctx, config.AppConfig.HealthInterval, healthChecks(eventRepo, notifier))

	// handlers.
	streakHandler := handlers.NewStreakHandler(streakService)
	eventHandler := handlers.NewEventHandler(habitTracker, streakService)
	displayHandler := handlers.NewDisplayHandler(streakService, loc)
	displayHandler.Screen = screen

	handlerBundle := &handlers.HandlerBundle{
		APITokenHash:          config.AppConfig.APITokenHash,
		CurrentStreakHandler:  streakHandler.CurrentStreakHandler,
		PreviousStreakHandler: streakHandler.PreviousStreakHandler,
		RecordEventHandler:    eventHandler.RecordEventHandler,
		ListEventsHandler:     eventHandler.ListEventsHandler,
		DisplayImageHandler:   displayHandler.DisplayImageHandler,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + config.AppConfig.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := <-trackerDone; err != nil {
		logger.Sugar().Errorf("main: failed to clear display: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// refresher joins the cache owner and the tracker for the midnight job.
type refresher struct {
	streaks *streak.DefaultStreakService
	tracker *tracker.Tracker
}

func (r refresher) FlushCache(ctx context.Context) error {
	return r.streaks.FlushCache(ctx)
}

func (r refresher) Refresh(ctx context.Context) error {
	return r.tracker.Refresh(ctx)
}

func healthChecks(repo eventsRepo.EventRepository, notifier notification.NotificationService) map[string]utils.HealthCheck {
	checks := map[string]utils.HealthCheck{
		"sqlite": repo.Ping,
	}
	if client := utils.GetCacheClient(); client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	if config.AppConfig.MQTTBroker != "" {
		checks["mqtt"] = func(context.Context) error {
			if !notifier.Connected() {
				return errors.New("not connected to broker")
			}
			return nil
		}
	}
	return checks
}
