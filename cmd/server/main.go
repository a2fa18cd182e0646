package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codejourney-backend/internal/config"
	"codejourney-backend/internal/database"
	"codejourney-backend/internal/handlers"
	"codejourney-backend/internal/middleware"
	"codejourney-backend/internal/repository"
	"codejourney-backend/internal/router"
	"codejourney-backend/internal/services"
	"codejourney-backend/internal/websocket"
	"codejourney-backend/internal/worker"
)

type stores struct {
	courses services.CourseStore
	logs    services.DailyLogStore
	planned services.PlannedSessionStore
	close   func()
}

// openStores connects the configured backend and returns its repositories.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == config.StoreSQLite {
		db, err := database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			courses: repository.NewSQLiteCourseRepo(db),
			logs:    repository.NewSQLiteDailyLogRepo(db),
			planned: repository.NewSQLitePlannedSessionRepo(db),
			close:   func() { db.Close() },
		}, nil
	}

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(ctx, pool, os.DirFS(cfg.MigrationsDir)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &stores{
		courses: repository.NewCourseRepo(pool),
		logs:    repository.NewDailyLogRepo(pool),
		planned: repository.NewPlannedSessionRepo(pool),
		close:   pool.Close,
	}, nil
}

func main() {
	log.Println("🚀 Starting CodeJourney Tracker Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open Store ────
	st, err := openStores(context.Background(), cfg)
	if err != nil {
		log.Fatalf("✗ %s store failed: %v", cfg.StoreDriver, err)
	}
	defer st.close()
	log.Printf("✓ %s store ready", cfg.StoreDriver)

	// ──── Step 3: Initialize Redis Clients (optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()
		log.Println("✓ Redis connected")
	} else {
		log.Println("⚠ REDIS_URL not set: no summary cache, enrichment queue or cross-process updates")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, cfg.JWTTTL)
	if !jwtAuth.Enabled() {
		log.Println("⚠ JWT_SECRET not set: write routes are open")
	}
	events := services.NewEvents(redisClients.QueueClient(), cfg.AnalyticsCacheTTL)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	youtubeService := services.NewYouTubeService()

	courseService := services.NewCourseService(st.courses, events, cfg.Location)
	logService := services.NewDailyLogService(st.logs, st.courses, events, cfg.Location)
	plannedService := services.NewPlannedSessionService(st.planned, st.courses, events)
	analyticsService := services.NewAnalyticsService(st.courses, st.logs, st.planned, events, cfg.Location)
	authService := services.NewAuthService(jwtAuth, cfg.AdminPasswordHash)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseService)
	logHandler := handlers.NewDailyLogHandler(logService)
	plannedHandler := handlers.NewPlannedSessionHandler(plannedService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, cfg.Location)

	// ──── Step 4: Start Job Worker Pool ────
	var workerPool *worker.Pool
	if redisClients != nil {
		workerPool = worker.NewPool(redisClients.Queue, st.courses, youtubeService, events, cfg.WorkerCount)
		workerPool.Start()
		log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)
	}

	reminderScheduler := services.NewStreakReminderScheduler(analyticsService, emailService, events, cfg.ReminderEmail, cfg.Location)
	reminderScheduler.Start()
	if cfg.ReminderEmail != "" {
		log.Println("✓ Streak reminder scheduler started")
	}

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSubClient(), services.TrackerUpdatesChannel, jwtAuth)
	events.OnLocal(wsHub.Broadcast)
	log.Println("✓ WebSocket hub started")

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		courseHandler,
		logHandler,
		plannedHandler,
		analyticsHandler,
		wsHub.HandleWebSocket,
		cfg.CORSOrigins,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		if workerPool != nil {
			workerPool.Stop()
		}
		reminderScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ CodeJourney Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
