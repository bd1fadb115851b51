package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/devledger/devledger/internal/analysis"
	"github.com/devledger/devledger/internal/config"
	"github.com/devledger/devledger/internal/handlers"
	"github.com/devledger/devledger/internal/ledger"
	"github.com/devledger/devledger/internal/publish"
	"github.com/devledger/devledger/internal/service"
	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/pkg/metrics"
	"github.com/devledger/devledger/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the devledger API server.
func New(cfg *config.Config, store store.Store, listener net.Listener) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	node := ledger.New(s.cfg.Ledger.NodeURL)
	cache := analysis.NewCache(s.store.Analysis())
	orchestrator := publish.NewOrchestrator(s.store, node, cache, s.cfg.Ledger)

	handler := handlers.NewServiceHandler(
		service.NewProfileService(s.store, orchestrator),
		service.NewProjectService(s.store, orchestrator),
		service.NewEndorsementService(s.store, orchestrator),
		service.NewStatusService(s.store),
	)
	handler.RegisterRoutes(router)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)

		// let in-flight publish tasks reach a terminal state
		orchestrator.Wait()
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
