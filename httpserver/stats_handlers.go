package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"casino/domain/entities"
	"casino/domain/interfaces"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
)

const globalStatsCacheKey = "stats:global"

type userStatsResponse struct {
	Response
	UserID    int64     `json:"user_id"`
	TotalBet  int64     `json:"total_bet"`
	TotalWon  int64     `json:"total_won"`
	TotalLost int64     `json:"total_lost"`
	NetProfit int64     `json:"net_profit"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleGetUserStats(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleGetUserStats",
		"requestID": middleware.GetReqID(r.Context()),
	})

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("path parameter id must be an integer", http.StatusBadRequest))
		return
	}

	var stats *entities.UserStats
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		stats, err = uow.StatsRepository().GetUser(r.Context(), userID)
		return err
	})
	if err != nil {
		logger.WithError(err).Error("Failed to get user stats")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("failed to get user stats", http.StatusInternalServerError))
		return
	}
	if stats == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error("user has no recorded bets", http.StatusNotFound))
		return
	}

	render.JSON(w, r, userStatsResponse{
		Response:  OK(),
		UserID:    stats.UserID,
		TotalBet:  stats.TotalBet,
		TotalWon:  stats.TotalWon,
		TotalLost: stats.TotalLost,
		NetProfit: stats.NetProfit(),
		UpdatedAt: stats.UpdatedAt,
	})
}

type globalStatsResponse struct {
	Response
	TotalBet  int64     `json:"total_bet"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleGetGlobalStats(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(log.Fields{
		"op":        "httpserver.handleGetGlobalStats",
		"requestID": middleware.GetReqID(r.Context()),
	})

	if cached, found := s.readCache.Get(globalStatsCacheKey); found {
		render.JSON(w, r, cached.(globalStatsResponse))
		return
	}

	var stats *entities.GlobalStats
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		stats, err = uow.StatsRepository().GetGlobal(r.Context())
		return err
	})
	if err != nil {
		logger.WithError(err).Error("Failed to get global stats")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("failed to get global stats", http.StatusInternalServerError))
		return
	}

	resp := globalStatsResponse{
		Response:  OK(),
		TotalBet:  stats.TotalBet,
		UpdatedAt: stats.UpdatedAt,
	}
	s.readCache.SetDefault(globalStatsCacheKey, resp)

	render.JSON(w, r, resp)
}
