package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment settings the router needs
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	worktimeHandler WorktimeHandler,
	correctionHandler CorrectionHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-ledger"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/me", func(r chi.Router) {
				r.Post("/events", attendanceHandler.RecordMine)
				r.Get("/today", worktimeHandler.Today)
			})

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/events", attendanceHandler.List)
				r.Get("/summaries", worktimeHandler.Summaries)
				r.Get("/overtime", worktimeHandler.Overtime)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/", reportHandler.List)
					r.Post("/", reportHandler.Generate)
					r.Get("/current", reportHandler.Current)
				})
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Get("/", correctionHandler.History)
				r.Post("/requests", correctionHandler.Submit)
			})

			r.Route("/reports/{id}", func(r chi.Router) {
				r.Get("/", reportHandler.Get)
				r.Post("/view", reportHandler.View)
				r.Post("/accept", reportHandler.Accept)
				r.Post("/contest", reportHandler.Contest)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Post("/users/{userID}/events", attendanceHandler.RecordForUser)
				r.Post("/users/{userID}/events/simulate", attendanceHandler.Simulate)
				r.Post("/events/{eventID}/corrections", correctionHandler.Apply)
				r.Get("/corrections/pending", correctionHandler.Pending)
				r.Post("/corrections/{id}/approve", correctionHandler.Approve)
				r.Post("/corrections/{id}/reject", correctionHandler.Reject)
				r.Get("/overview", worktimeHandler.Overview)
			})
		})
	})
	return r
}
