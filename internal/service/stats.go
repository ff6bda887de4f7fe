package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"padel-league/internal/constants"
	"padel-league/internal/domain"
	"padel-league/internal/rating"
	"padel-league/internal/repository"
)

// StatsService derives every analytics view by replaying the match log. No
// view is cached: each call reads the full log so a rebuilt or backfilled log
// is always reflected immediately.
type StatsService struct {
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewStatsService(players *repository.PlayerRepository, matches *repository.MatchRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{players: players, matches: matches, logger: logger}
}

type StandingEntry struct {
	PlayerID int64
	Name     string
	Rating   float64
	Matches  int
	Wins     int
	Losses   int
}

// Standings returns the windowed rating table, best first, with each player's
// win/loss record inside the same window.
func (s *StatsService) Standings(ctx context.Context, now time.Time) ([]StandingEntry, error) {
	matches, names, ids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	table := rating.Table(matches, ids, now)
	cutoff := rating.Window(now)

	entries := make([]StandingEntry, 0, len(ids))
	for _, id := range ids {
		e := StandingEntry{PlayerID: id, Name: names[id], Rating: table[id]}
		for _, m := range matches {
			if m.PlayedAt.Before(cutoff) || !m.IsDoubles() {
				continue
			}
			switch m.SideOf(id) {
			case domain.SideA:
				e.Matches++
				if m.ScoreA > m.ScoreB {
					e.Wins++
				} else {
					e.Losses++
				}
			case domain.SideB:
				e.Matches++
				if m.ScoreB > m.ScoreA {
					e.Wins++
				} else {
					e.Losses++
				}
			}
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	return entries, nil
}

func (s *StatsService) PlayerStats(ctx context.Context, id int64) (*domain.PlayerStats, error) {
	if _, err := s.players.GetByID(ctx, id); err != nil {
		return nil, err
	}
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	stats := computePlayerStats(matches, id)
	return &stats, nil
}

func (s *StatsService) Streaks(ctx context.Context, id int64) (*domain.Streaks, error) {
	if _, err := s.players.GetByID(ctx, id); err != nil {
		return nil, err
	}
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	streaks := computeStreaks(matches, id)
	return &streaks, nil
}

func (s *StatsService) Versus(ctx context.Context, p1, p2 int64) (*domain.VersusStats, error) {
	for _, id := range []int64{p1, p2} {
		if _, err := s.players.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	vs := computeVersus(matches, p1, p2)
	return &vs, nil
}

func (s *StatsService) PairRecord(ctx context.Context, p1, p2 int64) (*domain.PairStats, error) {
	for _, id := range []int64{p1, p2} {
		if _, err := s.players.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	ps := computePairRecord(matches, p1, p2)
	return &ps, nil
}

func (s *StatsService) Performance(ctx context.Context, id int64, now time.Time) (*domain.StrengthSplit, error) {
	if _, err := s.players.GetByID(ctx, id); err != nil {
		return nil, err
	}
	matches, _, ids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	split := computeStrengthSplit(matches, ids, id, now)
	return &split, nil
}

func (s *StatsService) Progress(ctx context.Context, id int64, now time.Time) (*domain.ProgressReport, error) {
	if _, err := s.players.GetByID(ctx, id); err != nil {
		return nil, err
	}
	matches, _, ids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	report := computeProgress(matches, ids, id, now)

	// Peak and trough are taken over the full trajectory; only the returned
	// history is capped.
	if len(report.History) > constants.DefaultHistoryLimit {
		report.History = report.History[len(report.History)-constants.DefaultHistoryLimit:]
	}
	return &report, nil
}

// History returns the player's windowed rating trajectory, one point per
// match played, capped to the most recent limit points.
func (s *StatsService) History(ctx context.Context, id int64, limit int, now time.Time) ([]domain.ProgressPoint, error) {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	if _, err := s.players.GetByID(ctx, id); err != nil {
		return nil, err
	}
	matches, _, ids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	report := computeProgress(matches, ids, id, now)
	history := report.History
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

func (s *StatsService) Form(ctx context.Context, id int64) (*domain.FormReport, error) {
	if _, err := s.players.GetByID(ctx, id); err != nil {
		return nil, err
	}
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	form := computeForm(matches, id)
	return &form, nil
}

func (s *StatsService) Rivalries(ctx context.Context, limit int) ([]domain.Rivalry, error) {
	if limit <= 0 {
		limit = constants.RivalryLimit
	}
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	return computeRivalries(matches, limit), nil
}

func (s *StatsService) Predict(ctx context.Context, teamA, teamB []int64, now time.Time) (*domain.Prediction, error) {
	if err := validateTeams(teamA, teamB); err != nil {
		return nil, err
	}
	for _, id := range append(append([]int64{}, teamA...), teamB...) {
		if _, err := s.players.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	matches, _, ids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	table := rating.Table(matches, ids, now)
	p := computePrediction(table, teamA, teamB)
	return &p, nil
}

type LeaderboardEntry struct {
	PlayerID int64
	Name     string
	Rating   float64
	Matches  int
	Wins     int
	WinRate  float64
}

// Leaderboard ranks players by one of: rating, wins, winrate, matches. The
// winrate board only admits players with at least ten matches.
func (s *StatsService) Leaderboard(ctx context.Context, by string, now time.Time) ([]LeaderboardEntry, error) {
	switch by {
	case "", "rating", "wins", "winrate", "matches":
	default:
		return nil, domain.NewValidationError("invalid_category", "unknown leaderboard category %q, use rating, wins, winrate or matches", by)
	}

	matches, names, ids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	table := rating.Table(matches, ids, now)

	entries := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		stats := computePlayerStats(matches, id)
		entries = append(entries, LeaderboardEntry{
			PlayerID: id,
			Name:     names[id],
			Rating:   table[id],
			Matches:  stats.Matches,
			Wins:     stats.Wins,
			WinRate:  stats.WinRate,
		})
	}

	if by == "winrate" {
		qualified := entries[:0]
		for _, e := range entries {
			if e.Matches >= 10 {
				qualified = append(qualified, e)
			}
		}
		entries = qualified
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less bool
		switch by {
		case "wins":
			less = a.Wins > b.Wins
		case "winrate":
			less = a.WinRate > b.WinRate
		case "matches":
			less = a.Matches > b.Matches
		default:
			less = a.Rating > b.Rating
		}
		if sameRank(a, b, by) {
			return a.PlayerID < b.PlayerID
		}
		return less
	})

	if len(entries) > constants.LeaderboardLimit {
		entries = entries[:constants.LeaderboardLimit]
	}
	return entries, nil
}

func sameRank(a, b LeaderboardEntry, by string) bool {
	switch by {
	case "wins":
		return a.Wins == b.Wins
	case "winrate":
		return a.WinRate == b.WinRate
	case "matches":
		return a.Matches == b.Matches
	default:
		return a.Rating == b.Rating
	}
}

func (s *StatsService) load(ctx context.Context) ([]domain.Match, map[int64]string, []int64, error) {
	matches, err := s.matches.ListOrdered(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	names := make(map[int64]string, len(players))
	ids := make([]int64, 0, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
		ids = append(ids, p.ID)
	}
	return matches, names, ids, nil
}

// computePlayerStats builds a player's full-history profile from the log.
// Ties on any "biggest" or "most" comparison keep the earlier occurrence.
func computePlayerStats(matches []domain.Match, playerID int64) domain.PlayerStats {
	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	rating.SortChronological(ordered)

	stats := domain.PlayerStats{
		PlayerID:  playerID,
		Partners:  make(map[int64]domain.HeadCount),
		Opponents: make(map[int64]domain.HeadCount),
		ByFormat:  make(map[domain.Format]domain.FormatSplit),
	}

	var scoreFor, scoreAgainst int
	bestWinDiff, worstLossDiff := 0, 0

	for _, m := range ordered {
		if !m.IsDoubles() {
			continue
		}
		side := m.SideOf(playerID)
		if side == domain.SideNone {
			continue
		}

		own, opp := m.TeamA, m.TeamB
		sf, sa := m.ScoreA, m.ScoreB
		if side == domain.SideB {
			own, opp = opp, own
			sf, sa = sa, sf
		}
		won := sf > sa

		stats.Matches++
		if won {
			stats.Wins++
		} else {
			stats.Losses++
		}
		scoreFor += sf
		scoreAgainst += sa

		for _, teammate := range own {
			if teammate == playerID {
				continue
			}
			stats.Partners[teammate] = bump(stats.Partners[teammate], won)
		}
		for _, opponent := range opp {
			stats.Opponents[opponent] = bump(stats.Opponents[opponent], won)
		}

		split := stats.ByFormat[m.Format]
		if won {
			split.Wins++
		} else {
			split.Losses++
		}
		stats.ByFormat[m.Format] = split

		diff := sf - sa
		if won && diff > bestWinDiff {
			bestWinDiff = diff
			stats.BiggestWin = &domain.ScoreLine{For: sf, Against: sa}
		}
		if !won && -diff > worstLossDiff {
			worstLossDiff = -diff
			stats.BiggestLoss = &domain.ScoreLine{For: sf, Against: sa}
		}
	}

	if stats.Matches > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Matches) * 100
		stats.AvgScoreFor = float64(scoreFor) / float64(stats.Matches)
		stats.AvgScoreAgainst = float64(scoreAgainst) / float64(stats.Matches)
	}

	fillPartnerHighlights(&stats)
	return stats
}

func bump(h domain.HeadCount, won bool) domain.HeadCount {
	h.Games++
	if won {
		h.Wins++
	} else {
		h.Losses++
	}
	return h
}

// fillPartnerHighlights picks the best and worst regular partner (minimum
// three shared matches) and the most frequent partner and opponent. Iteration
// is over sorted ids so ties resolve to the lower id every run.
func fillPartnerHighlights(stats *domain.PlayerStats) {
	bestWR, worstWR := 0.0, 100.0
	for _, id := range sortedKeys(stats.Partners) {
		h := stats.Partners[id]
		if h.Games > stats.MostFrequentPartnerN {
			stats.MostFrequentPartnerID = id
			stats.MostFrequentPartnerN = h.Games
		}
		if h.Games < 3 {
			continue
		}
		wr := h.WinRate()
		if wr > bestWR {
			bestWR = wr
			stats.BestPartnerID = id
			stats.BestPartnerWR = wr
		}
		if wr < worstWR {
			worstWR = wr
			stats.WorstPartnerID = id
			stats.WorstPartnerWR = wr
		}
	}
	for _, id := range sortedKeys(stats.Opponents) {
		if h := stats.Opponents[id]; h.Games > stats.MostFrequentOpponentN {
			stats.MostFrequentOpponentID = id
			stats.MostFrequentOpponentN = h.Games
		}
	}
}

func sortedKeys(m map[int64]domain.HeadCount) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// computeStreaks walks the player's results in order. A record is set the
// first time a run reaches a new length, so later runs of equal length do not
// move the record date.
func computeStreaks(matches []domain.Match, playerID int64) domain.Streaks {
	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	rating.SortChronological(ordered)

	streaks := domain.Streaks{PlayerID: playerID}
	var curWin, curLoss int

	for _, m := range ordered {
		if !m.IsDoubles() {
			continue
		}
		side := m.SideOf(playerID)
		if side == domain.SideNone {
			continue
		}
		won := (side == domain.SideA) == (m.ScoreA > m.ScoreB)

		if won {
			curWin++
			curLoss = 0
			if curWin > streaks.BestWin {
				streaks.BestWin = curWin
				at := m.PlayedAt
				streaks.BestWinAt = &at
			}
		} else {
			curLoss++
			curWin = 0
			if curLoss > streaks.WorstLoss {
				streaks.WorstLoss = curLoss
				at := m.PlayedAt
				streaks.WorstLossAt = &at
			}
		}
	}

	switch {
	case curWin > 0:
		streaks.Current = curWin
		streaks.CurrentKind = domain.StreakWin
	case curLoss > 0:
		streaks.Current = curLoss
		streaks.CurrentKind = domain.StreakLoss
	}
	return streaks
}

// computeVersus aggregates matches where the two players faced each other.
func computeVersus(matches []domain.Match, p1, p2 int64) domain.VersusStats {
	var vs domain.VersusStats
	var sum1, sum2 int

	for _, m := range matches {
		if !m.IsDoubles() {
			continue
		}
		s1, s2 := m.SideOf(p1), m.SideOf(p2)
		if s1 == domain.SideNone || s2 == domain.SideNone || s1 == s2 {
			continue
		}

		score1, score2 := m.ScoreA, m.ScoreB
		if s1 == domain.SideB {
			score1, score2 = score2, score1
		}

		vs.Matches++
		sum1 += score1
		sum2 += score2
		if score1 > score2 {
			vs.P1Wins++
		} else {
			vs.P2Wins++
		}
	}

	if vs.Matches > 0 {
		vs.AvgP1 = float64(sum1) / float64(vs.Matches)
		vs.AvgP2 = float64(sum2) / float64(vs.Matches)
	}
	return vs
}

// computePairRecord aggregates matches where the two players were teammates.
func computePairRecord(matches []domain.Match, p1, p2 int64) domain.PairStats {
	var ps domain.PairStats
	for _, m := range matches {
		if !m.IsDoubles() {
			continue
		}
		s1, s2 := m.SideOf(p1), m.SideOf(p2)
		if s1 == domain.SideNone || s1 != s2 {
			continue
		}
		won := (s1 == domain.SideA) == (m.ScoreA > m.ScoreB)

		ps.Matches++
		if won {
			ps.Wins++
		} else {
			ps.Losses++
		}
	}
	if ps.Matches > 0 {
		ps.WinRate = float64(ps.Wins) / float64(ps.Matches) * 100
	}
	return ps
}

// computeStrengthSplit buckets a player's full history by how the opposing
// team's current rating compares to the player's own. Current ratings are the
// windowed table at now; a diff of exactly 50 counts as stronger or weaker,
// not equal.
func computeStrengthSplit(matches []domain.Match, playerIDs []int64, playerID int64, now time.Time) domain.StrengthSplit {
	table := rating.Table(matches, playerIDs, now)
	own := tableRating(table, playerID)

	split := domain.StrengthSplit{PlayerID: playerID, CurrentRating: own}

	for _, m := range matches {
		if !m.IsDoubles() {
			continue
		}
		side := m.SideOf(playerID)
		if side == domain.SideNone {
			continue
		}
		opp := m.TeamB
		won := m.ScoreA > m.ScoreB
		if side == domain.SideB {
			opp = m.TeamA
			won = !won
		}

		avgOpp := (tableRating(table, opp[0]) + tableRating(table, opp[1])) / 2
		diff := avgOpp - own

		var bucket *domain.StrengthBucket
		switch {
		case diff >= 50:
			bucket = &split.VsStronger
		case diff <= -50:
			bucket = &split.VsWeaker
		default:
			bucket = &split.VsEqual
		}
		bucket.Matches++
		if won {
			bucket.Wins++
		} else {
			bucket.Losses++
		}
	}

	for _, b := range []*domain.StrengthBucket{&split.VsStronger, &split.VsEqual, &split.VsWeaker} {
		if b.Matches > 0 {
			b.WinRate = float64(b.Wins) / float64(b.Matches) * 100
		}
	}
	return split
}

func tableRating(table map[int64]float64, id int64) float64 {
	if r, ok := table[id]; ok {
		return r
	}
	return rating.StartRating
}

// computeProgress recomputes the windowed table at each of the player's
// matches, giving the rating trajectory as it was seen at the time. Quadratic
// in the log, acceptable at league scale.
func computeProgress(matches []domain.Match, playerIDs []int64, playerID int64, now time.Time) domain.ProgressReport {
	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	rating.SortChronological(ordered)

	report := domain.ProgressReport{
		PlayerID:      playerID,
		StartRating:   rating.StartRating,
		PeakRating:    rating.StartRating,
		LowestRating:  rating.StartRating,
		CurrentRating: tableRating(rating.Table(ordered, playerIDs, now), playerID),
	}

	for i, m := range ordered {
		if !m.IsDoubles() || !m.HasPlayer(playerID) {
			continue
		}
		table := rating.Table(ordered[:i+1], playerIDs, m.PlayedAt)
		r := tableRating(table, playerID)
		report.History = append(report.History, domain.ProgressPoint{At: m.PlayedAt, Rating: r})

		if r > report.PeakRating {
			report.PeakRating = r
			at := m.PlayedAt
			report.PeakAt = &at
		}
		if r < report.LowestRating {
			report.LowestRating = r
		}
	}
	return report
}

// computeForm summarizes the player's most recent results. Results holds at
// most the last five, oldest first.
func computeForm(matches []domain.Match, playerID int64) domain.FormReport {
	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	rating.SortChronological(ordered)

	var results []bool
	for _, m := range ordered {
		if !m.IsDoubles() {
			continue
		}
		side := m.SideOf(playerID)
		if side == domain.SideNone {
			continue
		}
		results = append(results, (side == domain.SideA) == (m.ScoreA > m.ScoreB))
	}

	report := domain.FormReport{PlayerID: playerID}
	tally := func(n int) (wins, played int) {
		start := len(results) - n
		if start < 0 {
			start = 0
		}
		for _, won := range results[start:] {
			played++
			if won {
				wins++
			}
		}
		return wins, played
	}
	report.Wins5, report.Played5 = tally(5)
	report.Wins10, report.Played10 = tally(10)

	start := len(results) - 5
	if start < 0 {
		start = 0
	}
	report.Results = append(report.Results, results[start:]...)
	return report
}

// computeRivalries counts every cross-team player pairing and returns the
// most played ones. Ties break toward the lower player id pair.
func computeRivalries(matches []domain.Match, limit int) []domain.Rivalry {
	type key struct{ lo, hi int64 }
	table := make(map[key]*domain.Rivalry)

	for _, m := range matches {
		if !m.IsDoubles() {
			continue
		}
		aWon := m.ScoreA > m.ScoreB
		for _, a := range m.TeamA {
			for _, b := range m.TeamB {
				lo, hi := domain.PairKey(a, b)
				k := key{lo, hi}
				r, ok := table[k]
				if !ok {
					r = &domain.Rivalry{Player1ID: lo, Player2ID: hi}
					table[k] = r
				}
				r.Matches++
				// P1Wins belongs to the lower id, whichever side it was on.
				loOnA := lo == a
				if aWon == loOnA {
					r.P1Wins++
				} else {
					r.P2Wins++
				}
			}
		}
	}

	rivalries := make([]domain.Rivalry, 0, len(table))
	for _, r := range table {
		rivalries = append(rivalries, *r)
	}
	sort.Slice(rivalries, func(i, j int) bool {
		a, b := rivalries[i], rivalries[j]
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		if a.Player1ID != b.Player1ID {
			return a.Player1ID < b.Player1ID
		}
		return a.Player2ID < b.Player2ID
	})

	if len(rivalries) > limit {
		rivalries = rivalries[:limit]
	}
	return rivalries
}

// computePrediction estimates the outcome of a hypothetical matchup from the
// current rating table. The score estimate is presentation only.
func computePrediction(table map[int64]float64, teamA, teamB []int64) domain.Prediction {
	avgA := (tableRating(table, teamA[0]) + tableRating(table, teamA[1])) / 2
	avgB := (tableRating(table, teamB[0]) + tableRating(table, teamB[1])) / 2

	pA := rating.Expected(avgA, avgB)
	return domain.Prediction{
		TeamARating:     avgA,
		TeamBRating:     avgB,
		WinProbA:        pA,
		WinProbB:        1 - pA,
		PredictedScoreA: rating.PredictScore(pA),
		PredictedScoreB: rating.PredictScore(1 - pA),
	}
}
