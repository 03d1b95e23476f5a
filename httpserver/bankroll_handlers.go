package httpserver

import (
	"net/http"
	"time"

	"casino/domain/entities"
	"casino/domain/interfaces"
	"casino/domain/services"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type depositRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type depositResponse struct {
	Response
	HeldBalance  int64 `json:"held_balance"`
	TotalPending int64 `json:"total_pending"`
	Available    int64 `json:"available"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleDeposit",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req depositRequest
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

	var bankroll *entities.Bankroll
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		gateway := services.NewWalletFundGateway(uow.WalletRepository())
		svc := services.NewBankrollService(
			uow.WalletRepository(), uow.BankrollRepository(), gateway, s.guard, uow.EventBus())

		var err error
		bankroll, err = svc.Deposit(r.Context(), req.UserID, req.Amount)
		return err
	})
	if err != nil {
		logger.WithError(err).Error("Deposit failed")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}

	render.JSON(w, r, depositResponse{
		Response:     OK(),
		HeldBalance:  bankroll.HeldBalance,
		TotalPending: bankroll.TotalPending,
		Available:    bankroll.Available(),
	})
}

type claimRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

type claimResponse struct {
	Response
	Amount int64 `json:"amount"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleClaim",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req claimRequest
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

	var amount int64
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		gateway := services.NewWalletFundGateway(uow.WalletRepository())
		svc := services.NewBankrollService(
			uow.WalletRepository(), uow.BankrollRepository(), gateway, s.guard, uow.EventBus())

		var err error
		amount, err = svc.Claim(r.Context(), req.UserID)
		return err
	})
	if err != nil {
		logger.WithError(err).Warn("Claim failed")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}

	render.JSON(w, r, claimResponse{
		Response: OK(),
		Amount:   amount,
	})
}

type withdrawRequest struct {
	OwnerID int64 `json:"owner_id" validate:"required"`
}

type withdrawResponse struct {
	Response
	Amount int64 `json:"amount"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleWithdraw",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req withdrawRequest
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

	var amount int64
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		gateway := services.NewWalletFundGateway(uow.WalletRepository())
		svc := services.NewBankrollService(
			uow.WalletRepository(), uow.BankrollRepository(), gateway, s.guard, uow.EventBus())

		var err error
		amount, err = svc.Withdraw(r.Context(), req.OwnerID)
		return err
	})
	if err != nil {
		logger.WithError(err).Warn("Withdrawal failed")
		status := errorStatus(err)
		render.Status(r, status)
		render.JSON(w, r, Error(err.Error(), status))
		return
	}

	render.JSON(w, r, withdrawResponse{
		Response: OK(),
		Amount:   amount,
	})
}

type bankrollResponse struct {
	Response
	HeldBalance  int64     `json:"held_balance"`
	TotalPending int64     `json:"total_pending"`
	Available    int64     `json:"available"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Server) handleGetBankroll(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleGetBankroll",
		"requestID": middleware.GetReqID(r.Context()),
	})

	var bankroll *entities.Bankroll
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		bankroll, err = uow.BankrollRepository().Get(r.Context())
		return err
	})
	if err != nil {
		logger.WithError(err).Error("Failed to get bankroll")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("failed to get bankroll", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, bankrollResponse{
		Response:     OK(),
		HeldBalance:  bankroll.HeldBalance,
		TotalPending: bankroll.TotalPending,
		Available:    bankroll.Available(),
		UpdatedAt:    bankroll.UpdatedAt,
	})
}
