package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/user"
	"github.com/cmlabs-hris/attendance-compliance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-compliance/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the deployment details the router logs and enforces.
type RouterConfig struct {
	Env            string
	Version        string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, complianceHandler ComplianceHandler, notificationHandler NotificationHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-compliance"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1/compliance", func(r chi.Router) {
		// The stream authenticates with a short-lived SSE token in the query
		r.Get("/alarms/stream", notificationHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireManager)

			r.With(chiMiddleware.AllowContentType("application/json")).
				With(middleware.RequirePermission(user.PermissionComplianceEvaluate)).
				Post("/evaluate", complianceHandler.Evaluate)
			r.Get("/alarms", complianceHandler.ListAlarms)
			r.With(middleware.RequirePermission(user.PermissionComplianceStream)).
				Get("/alarms/stream-token", notificationHandler.GetSSEToken)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
