package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"padel-league/internal/constants"
	"padel-league/internal/domain"
	"padel-league/internal/notify"
	"padel-league/internal/rating"
	"padel-league/internal/repository"
)

// LeagueService owns player registration and match submission. Submission is
// the only write path that touches ratings: the match row and both teammate
// pair rows commit in one transaction.
type LeagueService struct {
	players  *repository.PlayerRepository
	matches  *repository.MatchRepository
	pairs    *repository.PairRepository
	notifier *notify.Client
	logger   zerolog.Logger
}

func NewLeagueService(
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	pairs *repository.PairRepository,
	notifier *notify.Client,
	logger zerolog.Logger,
) *LeagueService {
	return &LeagueService{
		players:  players,
		matches:  matches,
		pairs:    pairs,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *LeagueService) RegisterPlayer(ctx context.Context, name string) (*domain.Player, error) {
	return s.players.Create(ctx, name)
}

func (s *LeagueService) RenamePlayer(ctx context.Context, id int64, name string) error {
	return s.players.Rename(ctx, id, name)
}

func (s *LeagueService) LinkPlayer(ctx context.Context, id, externalID int64) error {
	return s.players.Link(ctx, id, externalID)
}

func (s *LeagueService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	return s.players.List(ctx)
}

func (s *LeagueService) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return s.players.GetByID(ctx, id)
}

func (s *LeagueService) ResolvePlayer(ctx context.Context, name string) (*domain.Player, error) {
	return s.players.GetByName(ctx, name)
}

// RecentMatches returns the newest matches first, at most limit of them.
func (s *LeagueService) RecentMatches(ctx context.Context, limit int) ([]domain.Match, error) {
	if limit <= 0 {
		limit = constants.MatchListLimit
	}
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	recent := make([]domain.Match, 0, limit)
	for i := len(matches) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, matches[i])
	}
	return recent, nil
}

type SubmitMatchRequest struct {
	TeamA       []int64
	TeamB       []int64
	ScoreA      int
	ScoreB      int
	PlayedAt    time.Time // zero means now
	SubmittedBy string
}

// SubmitMatch validates, classifies and appends a match, updating the two
// teammate pair ratings in the same transaction. The per-player rating table
// is not touched here; it is recomputed from the log on every read.
func (s *LeagueService) SubmitMatch(ctx context.Context, req SubmitMatchRequest) (*domain.Match, error) {
	if err := validateTeams(req.TeamA, req.TeamB); err != nil {
		return nil, err
	}

	format, err := rating.Classify(req.ScoreA, req.ScoreB)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, 4)
	for _, id := range append(append([]int64{}, req.TeamA...), req.TeamB...) {
		p, err := s.players.GetByID(ctx, id)
		if domain.IsNotFound(err) {
			// On the submit path an unknown roster id is the submitter's
			// mistake, not a missing resource.
			return nil, domain.NewValidationError("unknown_player", "player %d is not registered", id)
		}
		if err != nil {
			return nil, err
		}
		names[id] = p.Name
	}

	playedAt := req.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}

	m := &domain.Match{
		PlayedAt:    playedAt.UTC(),
		Format:      format,
		TeamA:       req.TeamA,
		TeamB:       req.TeamB,
		ScoreA:      req.ScoreA,
		ScoreB:      req.ScoreB,
		SubmittedBy: req.SubmittedBy,
	}

	pairA, err := s.pairs.Get(ctx, req.TeamA[0], req.TeamA[1])
	if err != nil {
		return nil, err
	}
	pairB, err := s.pairs.Get(ctx, req.TeamB[0], req.TeamB[1])
	if err != nil {
		return nil, err
	}
	updatedA, updatedB := pairUpdatesForMatch(pairA, pairB, *m)

	if err := s.matches.AppendWithPairs(ctx, m, []domain.Pair{updatedA, updatedB}); err != nil {
		return nil, err
	}

	s.announceMatch(*m, names)
	return m, nil
}

// validateTeams enforces the 2-vs-2 shape with four distinct players.
func validateTeams(teamA, teamB []int64) error {
	if len(teamA) != 2 || len(teamB) != 2 {
		return domain.NewValidationError("team_shape", "each team must have exactly two players")
	}
	seen := make(map[int64]struct{}, 4)
	for _, id := range append(append([]int64{}, teamA...), teamB...) {
		if _, dup := seen[id]; dup {
			return domain.NewValidationError("duplicate_player", "player %d appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (s *LeagueService) announceMatch(m domain.Match, names map[int64]string) {
	winA, winB := names[m.TeamA[0]], names[m.TeamA[1]]
	loseA, loseB := names[m.TeamB[0]], names[m.TeamB[1]]
	scoreW, scoreL := m.ScoreA, m.ScoreB
	if m.ScoreB > m.ScoreA {
		winA, winB, loseA, loseB = loseA, loseB, winA, winB
		scoreW, scoreL = scoreL, scoreW
	}

	s.notifier.AnnounceAsync(fmt.Sprintf(
		"🎾 <b>%s & %s</b> beat %s & %s %d-%d (%s)",
		winA, winB, loseA, loseB, scoreW, scoreL, m.Format,
	))
}
