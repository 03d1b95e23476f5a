package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"casino/domain/entities"
	"casino/domain/interfaces"
	"casino/domain/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const (
	readCacheTTL     = time.Second
	readCacheCleanup = time.Minute
)

// Server exposes the wagering operations over HTTP. Every mutating request
// runs inside its own unit of work; the shared guard and entropy source live
// for the life of the process.
type Server struct {
	uowFactory interfaces.UnitOfWorkFactory
	entropy    interfaces.EntropySource
	guard      *services.ReentrancyGuard
	validator  *validator.Validate
	readCache  *cache.Cache
	httpServer *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	addr string,
	uowFactory interfaces.UnitOfWorkFactory,
	entropy interfaces.EntropySource,
	guard *services.ReentrancyGuard,
) *Server {
	s := &Server{
		uowFactory: uowFactory,
		entropy:    entropy,
		guard:      guard,
		validator:  validator.New(),
		readCache:  cache.New(readCacheTTL, readCacheCleanup),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi routing tree
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/bankroll", func(r chi.Router) {
		r.Get("/", s.handleGetBankroll)
		r.Post("/deposit", s.handleDeposit)
		r.Post("/withdraw", s.handleWithdraw)
	})
	r.Post("/prizes/claim", s.handleClaim)

	r.Post("/coinflip/flip", s.handleFlip)

	r.Post("/wheel/spin", s.handleSpin)
	r.Get("/wheel/outcome", s.handleGetOutcome)

	r.Route("/crash", func(r chi.Router) {
		r.Get("/round", s.handleGetRound)
		r.Post("/play", s.handlePlay)
		r.Post("/rounds", s.handleOpenRound)
		r.Post("/close", s.handleCloseBetting)
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/users/{id}", s.handleGetUserStats)
		r.Get("/global", s.handleGetGlobalStats)
	})

	return r
}

// Start begins serving requests, blocking until shutdown
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// withUnitOfWork wraps fn in a transaction: commit on success, rollback on
// error. Events buffered during fn are flushed only after the commit.
func (s *Server) withUnitOfWork(ctx context.Context, fn func(uow interfaces.UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Failed to rollback unit of work")
		}
		return err
	}

	return uow.Commit()
}

// errorStatus maps domain errors to HTTP statuses
func errorStatus(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidBet):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, entities.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrNothingToClaim):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInsufficientBankroll),
		errors.Is(err, entities.ErrPayoutCapExceeded),
		errors.Is(err, entities.ErrBettingClosed),
		errors.Is(err, entities.ErrRoundStillOpen),
		errors.Is(err, entities.ErrReentrancy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
