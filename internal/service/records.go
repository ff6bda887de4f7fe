package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"padel-league/internal/domain"
	"padel-league/internal/rating"
	"padel-league/internal/repository"
)

// RecordsService produces the full-history league record sheet. Unlike the
// standings it ignores the rating window: a record set two years ago still
// stands.
type RecordsService struct {
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewRecordsService(players *repository.PlayerRepository, matches *repository.MatchRepository, logger zerolog.Logger) *RecordsService {
	return &RecordsService{players: players, matches: matches, logger: logger}
}

// Records replays the log once per concern, fanned out across goroutines.
// Each goroutine writes disjoint fields of the report over the same read-only
// match slice.
func (s *RecordsService) Records(ctx context.Context) (*domain.RecordsReport, error) {
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.players.IDs(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := &domain.RecordsReport{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.HighestRating, report.LowestRating = ratingExtremes(matches, ids)
		return nil
	})
	g.Go(func() error {
		fillTallyRecords(report, matches, ids)
		return nil
	})
	g.Go(func() error {
		report.LongestWinStreak, report.LongestLossStreak = streakRecords(matches, ids)
		return nil
	})
	g.Go(func() error {
		report.BiggestDiff, report.BiggestDiffMatch = biggestDiff(matches)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("matches", len(matches)).
		Int("players", len(ids)).
		Dur("took", time.Since(start)).
		Msg("records computed")
	return report, nil
}

// ratingExtremes replays the whole log and tracks each player's peak and
// trough as they happened. Strict comparisons keep the earliest occurrence on
// ties; among players, the lower id wins ties.
func ratingExtremes(matches []domain.Match, playerIDs []int64) (*domain.RatingExtreme, *domain.RatingExtreme) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	peaks := make(map[int64]domain.RatingExtreme, len(playerIDs))
	troughs := make(map[int64]domain.RatingExtreme, len(playerIDs))
	for _, id := range playerIDs {
		peaks[id] = domain.RatingExtreme{PlayerID: id, Rating: rating.StartRating}
		troughs[id] = domain.RatingExtreme{PlayerID: id, Rating: rating.StartRating}
	}

	rating.Replay(matches, playerIDs, func(m domain.Match, ratings map[int64]float64) {
		for _, id := range append(append([]int64{}, m.TeamA...), m.TeamB...) {
			r := ratings[id]
			if peak := peaks[id]; r > peak.Rating {
				at := m.PlayedAt
				peaks[id] = domain.RatingExtreme{PlayerID: id, Rating: r, At: &at}
			}
			if trough := troughs[id]; r < trough.Rating {
				at := m.PlayedAt
				troughs[id] = domain.RatingExtreme{PlayerID: id, Rating: r, At: &at}
			}
		}
	})

	sorted := make([]int64, len(playerIDs))
	copy(sorted, playerIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	highest := peaks[sorted[0]]
	lowest := troughs[sorted[0]]
	for _, id := range sorted[1:] {
		if p := peaks[id]; p.Rating > highest.Rating {
			highest = p
		}
		if t := troughs[id]; t.Rating < lowest.Rating {
			lowest = t
		}
	}
	return &highest, &lowest
}

// fillTallyRecords derives the count-based records: most matches, win-rate
// extremes (minimum five matches) and the best and worst regular duo (minimum
// three shared matches). Each player contributes at most one duo candidate,
// their own best or worst partner.
func fillTallyRecords(report *domain.RecordsReport, matches []domain.Match, playerIDs []int64) {
	sorted := make([]int64, len(playerIDs))
	copy(sorted, playerIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	bestWR, worstWR := -1.0, 101.0

	for _, id := range sorted {
		stats := computePlayerStats(matches, id)
		if stats.Matches == 0 {
			continue
		}

		if stats.Matches > report.MostMatches {
			report.MostMatches = stats.Matches
			report.MostMatchesPlayerID = id
		}

		if stats.Matches >= 5 {
			if stats.WinRate > bestWR {
				bestWR = stats.WinRate
				report.BestWinRatePlayerID = id
				report.BestWinRate = stats.WinRate
			}
			if stats.WinRate < worstWR {
				worstWR = stats.WinRate
				report.WorstWinRatePlayerID = id
				report.WorstWinRate = stats.WinRate
			}
		}

		if stats.BestPartnerID != 0 {
			games := stats.Partners[stats.BestPartnerID].Games
			if report.BestDuo == nil || stats.BestPartnerWR > report.BestDuo.WinRate {
				report.BestDuo = &domain.DuoRecord{
					PlayerID:  id,
					PartnerID: stats.BestPartnerID,
					WinRate:   stats.BestPartnerWR,
					Games:     games,
				}
			}
		}
		if stats.WorstPartnerID != 0 {
			games := stats.Partners[stats.WorstPartnerID].Games
			if report.WorstDuo == nil || stats.WorstPartnerWR < report.WorstDuo.WinRate {
				report.WorstDuo = &domain.DuoRecord{
					PlayerID:  id,
					PartnerID: stats.WorstPartnerID,
					WinRate:   stats.WorstPartnerWR,
					Games:     games,
				}
			}
		}
	}
}

// streakRecords finds the longest win and loss streak across all players,
// stamped with the date the record run completed.
func streakRecords(matches []domain.Match, playerIDs []int64) (*domain.StreakRecord, *domain.StreakRecord) {
	sorted := make([]int64, len(playerIDs))
	copy(sorted, playerIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var win, loss *domain.StreakRecord
	for _, id := range sorted {
		streaks := computeStreaks(matches, id)
		if streaks.BestWin > 0 && (win == nil || streaks.BestWin > win.Length) {
			win = &domain.StreakRecord{PlayerID: id, Length: streaks.BestWin, SetAt: streaks.BestWinAt}
		}
		if streaks.WorstLoss > 0 && (loss == nil || streaks.WorstLoss > loss.Length) {
			loss = &domain.StreakRecord{PlayerID: id, Length: streaks.WorstLoss, SetAt: streaks.WorstLossAt}
		}
	}
	return win, loss
}

// biggestDiff returns the largest score margin ever recorded and the match
// that set it; the earliest holder keeps a tied record.
func biggestDiff(matches []domain.Match) (int, *domain.Match) {
	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	rating.SortChronological(ordered)

	best := 0
	var bestMatch *domain.Match
	for i, m := range ordered {
		if !m.IsDoubles() {
			continue
		}
		diff := m.ScoreA - m.ScoreB
		if diff < 0 {
			diff = -diff
		}
		if diff > best {
			best = diff
			bestMatch = &ordered[i]
		}
	}
	return best, bestMatch
}
