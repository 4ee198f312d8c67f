package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ongfinanzas/internal/backend"
	"ongfinanzas/internal/log"
	"ongfinanzas/internal/middleware/trace"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the server. Zero values select the defaults.
type Options struct {
	RequestTimeout time.Duration
	Logger         *log.Logger
}

type Server struct {
	http.Server
	svc     backend.Services
	db      Pinger
	trace   *trace.Middleware
	logger  *log.Logger
	started time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc backend.Services, db Pinger, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		svc:     svc,
		db:      db,
		trace:   trace.NewMiddleware(logger, nil),
		logger:  logger.WithComponent(log.ComponentHTTP),
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.trace.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Get("/last-code", s.handleLastProjectCode)
			r.Get("/{code}", s.handleGetProject)
			r.Post("/", s.handleCreateProject)
			r.Put("/{code}", s.handleUpdateProject)
			r.Delete("/{code}", s.handleDeleteProject)
		})

		r.Route("/rubros", func(r chi.Router) {
			r.Get("/", s.handleListRubros)
			r.Get("/complete", s.handleListRubroDetails)
			r.Get("/last-code", s.handleLastRubroCode)
			r.Get("/project/{projectID}", s.handleListRubrosByProject)
			r.Post("/project/{projectID}/inactivate", s.handleInactivateRubrosByProject)
			r.Get("/{code}", s.handleGetRubro)
			r.Post("/", s.handleCreateRubro)
			r.Put("/{code}", s.handleUpdateRubro)
			r.Delete("/{code}", s.handleDeleteRubro)
		})

		r.Route("/donations", func(r chi.Router) {
			r.Get("/", s.handleListDonations)
			r.Get("/complete", s.handleListDonationDetails)
			r.Get("/rubro/{rubroID}", s.handleListDonationsByRubro)
			r.Get("/rubro/{rubroID}/total", s.handleDonationTotalByRubro)
			r.Post("/rubro/{rubroID}/inactivate", s.handleInactivateDonationsByRubro)
			r.Get("/project/{projectID}/report", s.handleDonationReportByProject)
			r.Get("/top-donors", s.handleTopDonors)
			r.Get("/donor", s.handleListDonationsByDonor)
			r.Get("/range", s.handleListDonationsByDateRange)
			r.Get("/{id}", s.handleGetDonation)
			r.Post("/", s.handleCreateDonation)
			r.Put("/{id}", s.handleUpdateDonation)
			r.Delete("/{id}", s.handleDeleteDonation)
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", s.handleListPurchaseOrders)
			r.Get("/complete", s.handleListPurchaseOrderDetails)
			r.Get("/rubro/{rubroID}", s.handleListPurchaseOrdersByRubro)
			r.Get("/rubro/{rubroID}/total", s.handlePurchaseOrderTotalByRubro)
			r.Get("/rubro/{rubroID}/balance", s.handleBalanceByRubro)
			r.Post("/rubro/{rubroID}/inactivate", s.handleInactivateOrdersByRubro)
			r.Get("/range", s.handleListPurchaseOrdersByDateRange)
			r.Get("/project/{projectID}/report", s.handlePurchaseOrderReportByProject)
			r.Get("/{id}", s.handleGetPurchaseOrder)
			r.Post("/", s.handleCreatePurchaseOrder)
			r.Put("/{id}", s.handleUpdatePurchaseOrder)
			r.Delete("/{id}", s.handleDeletePurchaseOrder)
		})

		r.Get("/balances", s.handleListBalances)
		r.Get("/dashboard", s.handleDashboard)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, envelope{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusMethodNotAllowed, envelope{Message: "method not allowed"})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.trace.GetMetrics()
	writeEnvelope(w, http.StatusOK, envelope{
		Success: 1,
		Message: "ok",
		Data: map[string]any{
			"status":         "ok",
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
			"uptime":         time.Since(s.started).Round(time.Second).String(),
			"total_requests": metrics.TotalRequests,
			"server_errors":  metrics.ServerErrors,
		},
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	if s.db == nil {
		checks["database"] = "not_configured"
	} else if err := s.db.Ping(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		checks["database"] = "failed"
	}

	if checks["database"] != "ok" {
		writeEnvelope(w, http.StatusServiceUnavailable, envelope{Message: "not_ready", Data: checks})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: 1, Message: "ready", Data: checks})
}
