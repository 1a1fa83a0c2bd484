package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"leasehold-backend/internal/logger"
	"leasehold-backend/internal/security"
	"leasehold-backend/internal/service"
)

// Server is the HTTP front for the lease marketplace. Read endpoints are
// public; every state-changing endpoint requires a bearer token and uses the
// token's user id as the caller identity.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewServer(
	cfg ServerConfig,
	tokens security.TokenManager,
	listings service.ListingService,
	leases service.LeaseService,
	metrics service.MetricsService,
	admin service.AdminService,
	auth service.AuthService,
) *Server {
	router := mux.NewRouter()
	router.Use(requestLogging)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	listingHandler := NewListingHandler(listings)
	leaseHandler := NewLeaseHandler(leases)
	userHandler := NewUserHandler(metrics)
	platformHandler := NewPlatformHandler(admin)
	authHandler := NewAuthHandler(auth)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Public reads and login.
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/postings", listingHandler.ListPostings).Methods(http.MethodGet)
	api.HandleFunc("/postings/by-asset", listingHandler.GetPostingByAsset).Methods(http.MethodGet)
	api.HandleFunc("/postings/total", listingHandler.TotalPostings).Methods(http.MethodGet)
	api.HandleFunc("/postings/{id:[0-9]+}", listingHandler.GetPosting).Methods(http.MethodGet)
	api.HandleFunc("/postings/{id:[0-9]+}/lease", leaseHandler.GetCurrentLease).Methods(http.MethodGet)
	api.HandleFunc("/postings/{id:[0-9]+}/estimate", leaseHandler.EstimateLease).Methods(http.MethodGet)
	api.HandleFunc("/postings/{id:[0-9]+}/expired", leaseHandler.IsLeaseExpired).Methods(http.MethodGet)
	api.HandleFunc("/users/{user}/metrics", userHandler.GetUserMetrics).Methods(http.MethodGet)
	api.HandleFunc("/users/{user}/transactions", userHandler.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/platform/statistics", platformHandler.Statistics).Methods(http.MethodGet)

	// Authenticated writes. Admin-only operations are enforced in the
	// services against the configured admin account.
	protected := api.NewRoute().Subrouter()
	protected.Use(requireAuth(tokens))
	protected.HandleFunc("/auth/tokens", authHandler.IssueUserToken).Methods(http.MethodPost)
	protected.HandleFunc("/postings", listingHandler.PostAsset).Methods(http.MethodPost)
	protected.HandleFunc("/postings/{id:[0-9]+}/rate", listingHandler.UpdateLeaseRate).Methods(http.MethodPut)
	protected.HandleFunc("/postings/{id:[0-9]+}", listingHandler.RemovePosting).Methods(http.MethodDelete)
	protected.HandleFunc("/postings/{id:[0-9]+}/lease", leaseHandler.LeaseAsset).Methods(http.MethodPost)
	protected.HandleFunc("/postings/{id:[0-9]+}/return", leaseHandler.ReturnAsset).Methods(http.MethodPost)
	protected.HandleFunc("/postings/{id:[0-9]+}/auto-return", leaseHandler.AutoReturnExpired).Methods(http.MethodPost)
	protected.HandleFunc("/postings/{id:[0-9]+}/resolve", leaseHandler.ResolveConflict).Methods(http.MethodPost)
	protected.HandleFunc("/users/{user}/balance", userHandler.GetBalance).Methods(http.MethodGet)
	protected.HandleFunc("/platform/fee", platformHandler.SetServiceFee).Methods(http.MethodPut)
	protected.HandleFunc("/platform/term-limits", platformHandler.SetTermLimits).Methods(http.MethodPut)
	protected.HandleFunc("/platform/withdraw", platformHandler.WithdrawServiceFees).Methods(http.MethodPost)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		router: router,
	}
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	logger.Info("http server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
