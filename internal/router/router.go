package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"codejourney-backend/internal/handlers"
	"codejourney-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	courseHandler *handlers.CourseHandler,
	logHandler *handlers.DailyLogHandler,
	plannedHandler *handlers.PlannedSessionHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	wsHandler http.HandlerFunc,
	corsOrigins string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(corsOrigins))

	// Token exchange and catalog reset (10 req/min per IP)
	adminLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"CodeJourney Tracker API"}`))
		})

		r.With(adminLimiter.Middleware).Post("/auth/token", authHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(adminLimiter.Middleware)
			r.Use(jwtAuth.Middleware)
			r.Post("/init-database", courseHandler.InitDatabase)
		})

		// ──── Course Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.List)
			r.Get("/{id}", courseHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", courseHandler.Create)
				r.Put("/{id}", courseHandler.Update)
				r.Patch("/{id}/progress", courseHandler.UpdateProgress)
				r.Delete("/{id}", courseHandler.Delete)
			})
		})

		// ──── Daily Log Routes ────
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", logHandler.List)
			r.Get("/{date}", logHandler.GetByDate)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", logHandler.Create)
				r.Delete("/{id}", logHandler.Delete)
			})
		})

		// ──── Planned Session Routes ────
		r.Route("/planned", func(r chi.Router) {
			r.Get("/", plannedHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", plannedHandler.Create)
				r.Put("/{id}", plannedHandler.Update)
				r.Delete("/{id}", plannedHandler.Delete)
			})
		})

		// ──── Analytics Routes ────
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", analyticsHandler.Summary)
			r.Get("/progress", analyticsHandler.Progress)
			r.Get("/heatmap", analyticsHandler.Heatmap)
			r.Get("/phases", analyticsHandler.Phases)
			r.Get("/completed", analyticsHandler.Completed)
		})
		r.Get("/calendar", analyticsHandler.Calendar)

		// ──── WebSocket ────
		r.Get("/ws", wsHandler)
	})

	return r
}
