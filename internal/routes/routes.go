package routes

import (
	"net/http"

	"github.com/practicelog/practicelog/internal/app"
	"github.com/practicelog/practicelog/internal/handler"
	"github.com/practicelog/practicelog/internal/metrics"
	"github.com/practicelog/practicelog/internal/middleware"
	"github.com/rs/cors"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	users := handler.NewUserHandler(app.UserService)
	goals := handler.NewGoalHandler(app.GoalService)
	sessions := handler.NewPracticeSessionHandler(app.PracticeSessionService)
	dashboard := handler.NewDashboardHandler(app.GoalService)
	export := handler.NewExportHandler(app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Auth (rate limited per client IP)
	limiter := middleware.NewRateLimiter(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)
	limiter.TrustProxyHeaders = app.Cfg.TrustProxyHeaders
	limiter.StartCleanup(app.Cfg.AuthRateWindow)

	mux.HandleFunc("POST /auth/register", limiter.Limit(auth.Register))
	mux.HandleFunc("POST /auth/jwt/login", limiter.Limit(auth.Login))
	mux.HandleFunc("POST /auth/jwt/logout", middleware.RequireAuth(auth.Logout))
	mux.HandleFunc("POST /auth/request-verify-token", limiter.Limit(auth.RequestVerifyToken))
	mux.HandleFunc("POST /auth/verify", limiter.Limit(auth.Verify))
	mux.HandleFunc("POST /auth/forgot-password", limiter.Limit(auth.ForgotPassword))
	mux.HandleFunc("POST /auth/reset-password", limiter.Limit(auth.ResetPassword))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Users
	mux.HandleFunc("GET /users/me", middleware.RequireAuth(users.Me))
	mux.HandleFunc("PATCH /users/me", middleware.RequireAuth(users.UpdateMe))

	// Goals
	mux.HandleFunc("GET /goals", middleware.RequireAuth(goals.List))
	mux.HandleFunc("POST /goals", middleware.RequireAuth(goals.Create))
	mux.HandleFunc("GET /goals/{id}", middleware.RequireAuth(goals.Get))
	mux.HandleFunc("PUT /goals/{id}", middleware.RequireAuth(goals.Replace))
	mux.HandleFunc("PATCH /goals/{id}", middleware.RequireAuth(goals.Patch))
	mux.HandleFunc("DELETE /goals/{id}", middleware.RequireAuth(goals.Delete))
	mux.HandleFunc("GET /goals/{id}/practice_sessions", middleware.RequireAuth(goals.Sessions))

	// Practice sessions
	mux.HandleFunc("GET /practice_sessions", middleware.RequireAuth(sessions.List))
	mux.HandleFunc("POST /practice_sessions", middleware.RequireAuth(sessions.Create))
	mux.HandleFunc("GET /practice_sessions/{id}", middleware.RequireAuth(sessions.Get))
	mux.HandleFunc("PUT /practice_sessions/{id}", middleware.RequireAuth(sessions.Replace))
	mux.HandleFunc("PATCH /practice_sessions/{id}", middleware.RequireAuth(sessions.Patch))
	mux.HandleFunc("DELETE /practice_sessions/{id}", middleware.RequireAuth(sessions.Delete))

	// Dashboard & export
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboard.Summary))
	mux.HandleFunc("GET /export", middleware.RequireAuth(export.Export))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	const catchAll = "/{path...}"
	mux.HandleFunc(catchAll, handler.Fallback(mux, catchAll))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   app.Cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Auth(app.AuthService),
		// Logging must see the request the mux routes so r.Pattern is populated.
		middleware.RequestLogging,
		corsHandler.Handler,
	)

	return handler
}
