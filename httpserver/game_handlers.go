package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"casino/domain/entities"
	"casino/domain/interfaces"
	"casino/domain/services"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

const crashRoundCacheKey = "crash:round"

type flipRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
	Guess  *bool `json:"guess" validate:"required"`
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type flipResponse struct {
	Response
	Won    bool  `json:"won"`
	Guess  bool  `json:"guess"`
	Result bool  `json:"result"`
	Payout int64 `json:"payout"`
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleFlip",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req flipRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		logger.WithError(err).Error("Failed to decode request body")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("failed to decode request body", http.StatusBadRequest))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var result *entities.FlipResult
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewCoinFlipService(
			uow.WalletRepository(), uow.BankrollRepository(), uow.StatsRepository(),
			s.entropy, s.guard, uow.EventBus())

		var err error
		result, err = svc.Flip(r.Context(), req.UserID, *req.Guess, req.Amount)
		return err
	})
	if err != nil {
		logger.WithError(err).Warn("Coin flip failed")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}

	render.JSON(w, r, flipResponse{
		Response: OK(),
		Won:      result.Won,
		Guess:    result.Guess,
		Result:   result.Result,
		Payout:   result.Payout,
	})
}

type spinRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type spinResponse struct {
	Response
	OutcomeIndex     int   `json:"outcome_index"`
	MultiplierTenths int64 `json:"multiplier_tenths"`
	Won              bool  `json:"won"`
	Payout           int64 `json:"payout"`
	Nonce            int64 `json:"nonce"`
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleSpin",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req spinRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		logger.WithError(err).Error("Failed to decode request body")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("failed to decode request body", http.StatusBadRequest))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var result *entities.SpinResult
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewWheelService(
			uow.WalletRepository(), uow.BankrollRepository(), uow.StatsRepository(),
			uow.OutcomeRepository(), s.entropy, s.guard, uow.EventBus())

		var err error
		result, err = svc.Spin(r.Context(), req.UserID, req.Amount)
		return err
	})
	if err != nil {
		logger.WithError(err).Warn("Wheel spin failed")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}

	render.JSON(w, r, spinResponse{
		Response:         OK(),
		OutcomeIndex:     result.OutcomeIndex,
		MultiplierTenths: result.MultiplierTenths,
		Won:              result.Won,
		Payout:           result.Payout,
		Nonce:            result.Nonce,
	})
}

type outcomeResponse struct {
	Response
	OutcomeIndex     int       `json:"outcome_index"`
	MultiplierTenths int64     `json:"multiplier_tenths"`
	Won              bool      `json:"won"`
	Amount           int64     `json:"amount"`
	Nonce            int64     `json:"nonce"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s *Server) handleGetOutcome(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleGetOutcome",
		"requestID": middleware.GetReqID(r.Context()),
	})

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("query parameter user_id must be an integer", http.StatusBadRequest))
		return
	}

	var outcome *entities.WheelOutcome
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		outcome, err = uow.OutcomeRepository().GetByUser(r.Context(), userID)
		return err
	})
	if err != nil {
		logger.WithError(err).Error("Failed to get last outcome")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("failed to get last outcome", http.StatusInternalServerError))
		return
	}
	if outcome == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error("user has no recorded spin", http.StatusNotFound))
		return
	}

	render.JSON(w, r, outcomeResponse{
		Response:         OK(),
		OutcomeIndex:     outcome.OutcomeIndex,
		MultiplierTenths: outcome.MultiplierTenths,
		Won:              outcome.Won,
		Amount:           outcome.Amount,
		Nonce:            outcome.Nonce,
		UpdatedAt:        outcome.UpdatedAt,
	})
}

type playRequest struct {
	UserID            int64 `json:"user_id" validate:"required"`
	Amount            int64 `json:"amount" validate:"required,min=1"`
	AutoCashoutTenths int64 `json:"auto_cashout_tenths" validate:"required,min=11,max=300"`
}

type playResponse struct {
	Response
	RoundID           int64 `json:"round_id"`
	AutoCashoutTenths int64 `json:"auto_cashout_tenths"`
	Won               bool  `json:"won"`
	Payout            int64 `json:"payout"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handlePlay",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req playRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		logger.WithError(err).Error("Failed to decode request body")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("failed to decode request body", http.StatusBadRequest))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var result *entities.CrashResult
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewCrashService(
			uow.WalletRepository(), uow.BankrollRepository(), uow.StatsRepository(),
			uow.RoundRepository(), s.entropy, s.guard, uow.EventBus())

		var err error
		result, err = svc.Play(r.Context(), req.UserID, req.Amount, req.AutoCashoutTenths)
		return err
	})
	if err != nil {
		logger.WithError(err).Warn("Crash bet failed")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}

	render.JSON(w, r, playResponse{
		Response:          OK(),
		RoundID:           result.RoundID,
		AutoCashoutTenths: result.AutoCashoutTenths,
		Won:               result.Won,
		Payout:            result.Payout,
	})
}

type openRoundRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

type roundResponse struct {
	Response
	RoundID       int64     `json:"round_id"`
	Phase         string    `json:"phase"`
	StartedAt     time.Time `json:"started_at"`
	BettingEndsAt time.Time `json:"betting_ends_at"`

	// CrashTenths is revealed only once betting has closed.
	CrashTenths int64 `json:"crash_tenths,omitempty"`
}

func newRoundResponse(round *entities.Round, now time.Time) roundResponse {
	resp := roundResponse{
		Response:      OK(),
		RoundID:       round.ID,
		Phase:         string(round.Phase(now)),
		StartedAt:     round.StartedAt,
		BettingEndsAt: round.BettingEndsAt,
	}
	if !round.BettingOpen(now) {
		resp.CrashTenths = round.CrashTenths
	}
	return resp
}

func (s *Server) handleOpenRound(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleOpenRound",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req openRoundRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		logger.WithError(err).Error("Failed to decode request body")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("failed to decode request body", http.StatusBadRequest))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var round *entities.Round
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewCrashService(
			uow.WalletRepository(), uow.BankrollRepository(), uow.StatsRepository(),
			uow.RoundRepository(), s.entropy, s.guard, uow.EventBus())

		var err error
		round, err = svc.OpenNextRound(r.Context(), req.UserID)
		return err
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to open round")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}
	s.readCache.Delete(crashRoundCacheKey)

	render.JSON(w, r, newRoundResponse(round, time.Now()))
}

type closeBettingRequest struct {
	OwnerID int64 `json:"owner_id" validate:"required"`
}

func (s *Server) handleCloseBetting(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleCloseBetting",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req closeBettingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		logger.WithError(err).Error("Failed to decode request body")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("failed to decode request body", http.StatusBadRequest))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var round *entities.Round
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewCrashService(
			uow.WalletRepository(), uow.BankrollRepository(), uow.StatsRepository(),
			uow.RoundRepository(), s.entropy, s.guard, uow.EventBus())

		var err error
		round, err = svc.ForceCloseBetting(r.Context(), req.OwnerID)
		return err
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to close betting")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}
	s.readCache.Delete(crashRoundCacheKey)

	render.JSON(w, r, newRoundResponse(round, time.Now()))
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleGetRound",
		"requestID": middleware.GetReqID(r.Context()),
	})

	if cached, found := s.readCache.Get(crashRoundCacheKey); found {
		render.JSON(w, r, cached.(roundResponse))
		return
	}

	var round *entities.Round
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		round, err = uow.RoundRepository().Current(r.Context())
		return err
	})
	if err != nil {
		logger.WithError(err).Error("Failed to get current round")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("failed to get current round", http.StatusInternalServerError))
		return
	}
	if round == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error("no round has been opened", http.StatusNotFound))
		return
	}

	resp := newRoundResponse(round, time.Now())
	s.readCache.SetDefault(crashRoundCacheKey, resp)

	render.JSON(w, r, resp)
}
