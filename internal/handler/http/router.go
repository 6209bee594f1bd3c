package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	payrollHandler PayrollHandler,
	opts RouterOptions,
) *chi.Mux {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll-engine"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/summary", attendanceHandler.Summary)
				r.Get("/{id}", attendanceHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/report", attendanceHandler.DepartmentReport)
					r.Put("/{id}", attendanceHandler.Correct)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.Apply)
				r.Get("/summary", leaveHandler.Summary)
				r.Get("/{id}", leaveHandler.Get)
				r.Put("/{id}", leaveHandler.Update)
				r.Post("/{id}/cancel", leaveHandler.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{id}/approve", leaveHandler.Approve)
					r.Post("/{id}/reject", leaveHandler.Reject)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/calculate", payrollHandler.Calculate)
				r.Get("/records", payrollHandler.ListRecords)
				r.Get("/records/{id}", payrollHandler.GetRecord)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/policy", payrollHandler.GetPolicy)
					r.Put("/policy", payrollHandler.UpdatePolicy)
					r.Post("/generate", payrollHandler.Generate)
					r.Post("/records/recalculate", payrollHandler.Recalculate)
					r.Post("/records/{id}/process", payrollHandler.MarkProcessed)
					r.Post("/records/{id}/pay", payrollHandler.MarkPaid)
					r.Get("/stats", payrollHandler.DepartmentStats)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})

	return r
}
