package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"schoolhub/internal/config"
	"schoolhub/internal/model"
	"schoolhub/internal/repository"
	"schoolhub/internal/service"
)

type Server struct {
	cfg       config.Config
	store     *repository.Store
	auth      *service.Auth
	payroll   *service.Payroll
	dashboard *service.Dashboard
	log       *slog.Logger
}

func NewServer(cfg config.Config, store *repository.Store, redisClient *redis.Client, log *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		auth:      service.NewAuth(store, cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, redisClient, log),
		payroll:   service.NewPayroll(store, log),
		dashboard: service.NewDashboard(store),
		log:       log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(countRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/token", s.handleToken)
	r.Post("/register/{role}", s.handleRegister)
	r.With(s.authMiddleware).Get("/me", s.handleMe)
	r.With(s.authMiddleware).Post("/logout", s.handleLogout)
	r.With(s.authMiddleware, s.requireRoles(model.RoleAdmin, model.RoleSupport)).Get("/users/{role}", s.handleListUsersByRole)

	r.Get("/dashboard/metrics", s.handleDashboardMetrics)

	r.Route("/students", func(r chi.Router) {
		r.Get("/", s.handleListStudents)
		r.Post("/", s.handleCreateStudent)
		r.Put("/{studentId}", s.handleUpdateStudent)
		r.Delete("/{studentId}", s.handleDeleteStudent)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", s.handleListEmployees)
		r.Post("/", s.handleCreateEmployee)
		r.Put("/{employeeId}", s.handleUpdateEmployee)
	})

	r.Get("/payroll", s.handleListPayroll)
	r.Post("/payroll/process", s.handleProcessPayroll)

	r.Post("/transactions", s.handleCreateTransaction)
	r.Get("/financial/summary", s.handleFinancialSummary)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", s.handleListInventory)
		r.Post("/", s.handleCreateInventoryItem)
		r.Put("/{itemId}", s.handleUpdateInventoryItem)
		r.Delete("/{itemId}", s.handleDeleteInventoryItem)
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", s.handleListBooks)
		r.Post("/", s.handleCreateBook)
		r.Put("/{bookId}", s.handleUpdateBook)
		r.Delete("/{bookId}", s.handleDeleteBook)
	})

	r.Route("/buses", func(r chi.Router) {
		r.Get("/", s.handleListBuses)
		r.Post("/", s.handleCreateBus)
		r.Put("/{busId}", s.handleUpdateBus)
		r.Delete("/{busId}", s.handleDeleteBus)
	})

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", s.handleListCourses)
		r.Post("/", s.handleCreateCourse)
		r.Put("/{courseId}", s.handleUpdateCourse)
		r.Delete("/{courseId}", s.handleDeleteCourse)
	})

	r.Post("/messages/send", s.handleSendMessage)
	r.Post("/system/log", s.handleSystemLog)
	r.Get("/system/settings", s.handleGetSettings)
	r.Put("/system/settings", s.handleUpdateSettings)
	r.Put("/profile/{userId}", s.handleUpdateProfile)

	return r
}

var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "schoolhub_http_requests_total",
	Help: "HTTP requests by method, route pattern, and status.",
}, []string{"method", "path", "status"})

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = r.URL.Path
		}
		httpRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
	})
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeStoreError is the single translation point from store failures to the
// response taxonomy.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusBadRequest, "already_exists")
	case errors.Is(err, repository.ErrInvalid):
		writeError(w, http.StatusBadRequest, "invalid_request")
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// parsePage reads offset pagination from the query string: skip >= 0,
// 1 <= limit <= 1000, defaulting to 0/100.
func parsePage(r *http.Request) (int64, int64) {
	skip := int64(0)
	limit := int64(100)
	if raw := r.URL.Query().Get("skip"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 0 {
			skip = parsed
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 1 && parsed <= 1000 {
			limit = parsed
		}
	}
	return skip, limit
}
