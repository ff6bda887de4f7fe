package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"padel-league/internal/constants"
	"padel-league/internal/domain"
	"padel-league/internal/middleware"
	"padel-league/internal/service"
)

// LeagueServer exposes the league over JSON HTTP. It holds no state of its
// own; every response is derived from the services on demand.
type LeagueServer struct {
	leagueSvc  *service.LeagueService
	pairSvc    *service.PairService
	statsSvc   *service.StatsService
	recordsSvc *service.RecordsService
	logger     zerolog.Logger
}

func NewLeagueServer(
	leagueSvc *service.LeagueService,
	pairSvc *service.PairService,
	statsSvc *service.StatsService,
	recordsSvc *service.RecordsService,
	logger zerolog.Logger,
) *LeagueServer {
	return &LeagueServer{
		leagueSvc:  leagueSvc,
		pairSvc:    pairSvc,
		statsSvc:   statsSvc,
		recordsSvc: recordsSvc,
		logger:     logger,
	}
}

// Router assembles the full route tree with request-id logging, CORS and a
// request timeout applied to everything.
func (s *LeagueServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(constants.RequestTimeout))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/players", s.handleCreatePlayer)
		r.Get("/players", s.handleListPlayers)
		r.Get("/players/{id}", s.handleGetPlayer)
		r.Patch("/players/{id}", s.handleRenamePlayer)
		r.Post("/players/{id}/link", s.handleLinkPlayer)

		r.Get("/players/{id}/stats", s.handlePlayerStats)
		r.Get("/players/{id}/streaks", s.handlePlayerStreaks)
		r.Get("/players/{id}/history", s.handlePlayerHistory)
		r.Get("/players/{id}/form", s.handlePlayerForm)
		r.Get("/players/{id}/performance", s.handlePlayerPerformance)
		r.Get("/players/{id}/progress", s.handlePlayerProgress)

		r.Post("/matches", s.handleSubmitMatch)
		r.Get("/matches", s.handleRecentMatches)

		r.Get("/standings", s.handleStandings)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/records", s.handleRecords)
		r.Get("/versus", s.handleVersus)
		r.Get("/rivalries", s.handleRivalries)

		r.Get("/pairs", s.handleTopPairs)
		r.Get("/pairs/stats", s.handlePairDetail)
		r.Post("/pairs/rebuild", s.handleRebuildPairs)

		r.Post("/predict", s.handlePredict)
	})

	return r
}

func (s *LeagueServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *LeagueServer) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Rule  string `json:"rule,omitempty"`
}

// respondError maps domain errors onto status codes: validation failures are
// the caller's fault, missing entities are 404, everything else is internal.
func (s *LeagueServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		s.respond(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Rule: ve.Rule})
	case domain.IsNotFound(err):
		s.respond(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *LeagueServer) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (s *LeagueServer) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid id in path"})
		return 0, false
	}
	return id, true
}

func queryID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
}
