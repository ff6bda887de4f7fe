package service

import (
	"context"

	"github.com/rs/zerolog"

	"padel-league/internal/constants"
	"padel-league/internal/domain"
	"padel-league/internal/rating"
	"padel-league/internal/repository"
)

type PairService struct {
	pairs   *repository.PairRepository
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewPairService(pairs *repository.PairRepository, matches *repository.MatchRepository, logger zerolog.Logger) *PairService {
	return &PairService{pairs: pairs, matches: matches, logger: logger}
}

// Top returns the best-rated pairs, at most TopPairsLimit of them.
func (s *PairService) Top(ctx context.Context) ([]domain.Pair, error) {
	pairs, err := s.pairs.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(pairs) > constants.TopPairsLimit {
		pairs = pairs[:constants.TopPairsLimit]
	}
	return pairs, nil
}

// Get returns the stored pair rating for two teammates, a fresh start-rating
// pair when they have never played together.
func (s *PairService) Get(ctx context.Context, p1, p2 int64) (domain.Pair, error) {
	return s.pairs.Get(ctx, p1, p2)
}

// Rebuild discards all pair state and replays every doubles match in the log
// chronologically. Running it twice against the same log lands on identical
// ratings.
func (s *PairService) Rebuild(ctx context.Context) (int, error) {
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return 0, err
	}

	rebuilt := rebuildPairs(matches)
	if err := s.pairs.ReplaceAll(ctx, rebuilt); err != nil {
		return 0, err
	}

	s.logger.Info().Int("pairs", len(rebuilt)).Int("matches", len(matches)).Msg("pair ratings rebuilt from history")
	return len(rebuilt), nil
}

// pairUpdatesForMatch returns the post-match state of both teammate pairs.
// Each side's expectation uses the opponent's pre-update rating: both sides
// read the same snapshot, neither sees the other's adjustment.
func pairUpdatesForMatch(pairA, pairB domain.Pair, m domain.Match) (domain.Pair, domain.Pair) {
	ratingA := pairA.Rating
	ratingB := pairB.Rating
	diff := m.ScoreA - m.ScoreB

	applyPairResult(&pairA, ratingB, m.ScoreA > m.ScoreB, diff, m.Format)
	applyPairResult(&pairB, ratingA, m.ScoreB > m.ScoreA, -diff, m.Format)
	return pairA, pairB
}

// applyPairResult records one match for one pair. signedDiff is positive when
// the pair is the higher scorer; it feeds the same outcome scorer the player
// table uses.
func applyPairResult(p *domain.Pair, opponentRating float64, won bool, signedDiff int, format domain.Format) {
	expected := rating.Expected(p.Rating, opponentRating)
	actual := rating.Actual(signedDiff, format.Ceiling())

	p.Rating += rating.Delta(expected, actual, format.Weight())
	p.Matches++
	if won {
		p.Wins++
	} else {
		p.Losses++
	}
}

// rebuildPairs replays the full log and returns every pair's final state.
// Pairs are created lazily the first time two players team up.
func rebuildPairs(matches []domain.Match) []domain.Pair {
	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	rating.SortChronological(ordered)

	type key struct{ lo, hi int64 }
	table := make(map[key]*domain.Pair)
	var order []key

	getOrCreate := func(a, b int64) *domain.Pair {
		lo, hi := domain.PairKey(a, b)
		k := key{lo, hi}
		if p, ok := table[k]; ok {
			return p
		}
		p := &domain.Pair{Player1ID: lo, Player2ID: hi, Rating: rating.StartRating}
		table[k] = p
		order = append(order, k)
		return p
	}

	for _, m := range ordered {
		if !m.IsDoubles() {
			continue
		}
		pairA := getOrCreate(m.TeamA[0], m.TeamA[1])
		pairB := getOrCreate(m.TeamB[0], m.TeamB[1])

		updatedA, updatedB := pairUpdatesForMatch(*pairA, *pairB, m)
		*pairA = updatedA
		*pairB = updatedB
	}

	pairs := make([]domain.Pair, 0, len(order))
	for _, k := range order {
		pairs = append(pairs, *table[k])
	}
	return pairs
}
