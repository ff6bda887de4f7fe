package server

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"padel-league/internal/domain"
	"padel-league/internal/service"
)

type playerJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ExternalID *int64 `json:"external_id,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toPlayerJSON(p *domain.Player) playerJSON {
	return playerJSON{
		ID:         p.ID,
		Name:       p.Name,
		ExternalID: p.ExternalID,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

func (s *LeagueServer) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	player, err := s.leagueSvc.RegisterPlayer(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, toPlayerJSON(player))
}

func (s *LeagueServer) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		player, err := s.leagueSvc.ResolvePlayer(r.Context(), name)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respond(w, http.StatusOK, []playerJSON{toPlayerJSON(player)})
		return
	}

	players, err := s.leagueSvc.ListPlayers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]playerJSON, 0, len(players))
	for i := range players {
		out = append(out, toPlayerJSON(&players[i]))
	}
	s.respond(w, http.StatusOK, out)
}

func (s *LeagueServer) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	player, err := s.leagueSvc.GetPlayer(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, toPlayerJSON(player))
}

func (s *LeagueServer) handleRenamePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.leagueSvc.RenamePlayer(r.Context(), id, req.Name); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "renamed"})
}

func (s *LeagueServer) handleLinkPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		ExternalID int64 `json:"external_id"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.leagueSvc.LinkPlayer(r.Context(), id, req.ExternalID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "linked"})
}

type matchJSON struct {
	ID          int64   `json:"id"`
	Ref         string  `json:"ref"`
	PlayedAt    string  `json:"played_at"`
	Format      string  `json:"format"`
	TeamA       []int64 `json:"team_a"`
	TeamB       []int64 `json:"team_b"`
	ScoreA      int     `json:"score_a"`
	ScoreB      int     `json:"score_b"`
	SubmittedBy string  `json:"submitted_by,omitempty"`
}

func toMatchJSON(m domain.Match) matchJSON {
	return matchJSON{
		ID:          m.ID,
		Ref:         m.Ref,
		PlayedAt:    m.PlayedAt.Format(time.RFC3339),
		Format:      string(m.Format),
		TeamA:       m.TeamA,
		TeamB:       m.TeamB,
		ScoreA:      m.ScoreA,
		ScoreB:      m.ScoreB,
		SubmittedBy: m.SubmittedBy,
	}
}

func (s *LeagueServer) handleSubmitMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamA       []int64 `json:"team_a"`
		TeamB       []int64 `json:"team_b"`
		ScoreA      int     `json:"score_a"`
		ScoreB      int     `json:"score_b"`
		PlayedAt    string  `json:"played_at,omitempty"`
		SubmittedBy string  `json:"submitted_by,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	var playedAt time.Time
	if req.PlayedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.PlayedAt)
		if err != nil {
			s.respond(w, http.StatusBadRequest, errorResponse{Error: "played_at must be RFC 3339"})
			return
		}
		playedAt = parsed
	}

	match, err := s.leagueSvc.SubmitMatch(r.Context(), service.SubmitMatchRequest{
		TeamA:       req.TeamA,
		TeamB:       req.TeamB,
		ScoreA:      req.ScoreA,
		ScoreB:      req.ScoreB,
		PlayedAt:    playedAt,
		SubmittedBy: req.SubmittedBy,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, toMatchJSON(*match))
}

func (s *LeagueServer) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := s.leagueSvc.RecentMatches(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]matchJSON, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchJSON(m))
	}
	s.respond(w, http.StatusOK, out)
}

type standingJSON struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Matches  int     `json:"matches"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
}

func (s *LeagueServer) handleStandings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.statsSvc.Standings(r.Context(), time.Now().UTC())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]standingJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, standingJSON{
			PlayerID: e.PlayerID,
			Name:     e.Name,
			Rating:   e.Rating,
			Matches:  e.Matches,
			Wins:     e.Wins,
			Losses:   e.Losses,
		})
	}
	s.respond(w, http.StatusOK, out)
}

func (s *LeagueServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.statsSvc.Leaderboard(r.Context(), r.URL.Query().Get("by"), time.Now().UTC())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type entryJSON struct {
		PlayerID int64   `json:"player_id"`
		Name     string  `json:"name"`
		Rating   float64 `json:"rating"`
		Matches  int     `json:"matches"`
		Wins     int     `json:"wins"`
		WinRate  float64 `json:"win_rate"`
	}
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			PlayerID: e.PlayerID,
			Name:     e.Name,
			Rating:   e.Rating,
			Matches:  e.Matches,
			Wins:     e.Wins,
			WinRate:  e.WinRate,
		})
	}
	s.respond(w, http.StatusOK, out)
}

type headToHeadJSON struct {
	PlayerID int64   `json:"player_id"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	WinRate  float64 `json:"win_rate"`
}

func headToHeadList(m map[int64]domain.HeadCount) []headToHeadJSON {
	out := make([]headToHeadJSON, 0, len(m))
	for id, h := range m {
		out = append(out, headToHeadJSON{
			PlayerID: id,
			Games:    h.Games,
			Wins:     h.Wins,
			Losses:   h.Losses,
			WinRate:  h.WinRate(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

type scoreLineJSON struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

func (s *LeagueServer) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	stats, err := s.statsSvc.PlayerStats(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type formatJSON struct {
		Wins    int     `json:"wins"`
		Losses  int     `json:"losses"`
		WinRate float64 `json:"win_rate"`
	}
	byFormat := make(map[string]formatJSON, len(stats.ByFormat))
	for f, split := range stats.ByFormat {
		byFormat[string(f)] = formatJSON{Wins: split.Wins, Losses: split.Losses, WinRate: split.WinRate()}
	}

	resp := struct {
		PlayerID         int64                 `json:"player_id"`
		Matches          int                   `json:"matches"`
		Wins             int                   `json:"wins"`
		Losses           int                   `json:"losses"`
		WinRate          float64               `json:"win_rate"`
		AvgScoreFor      float64               `json:"avg_score_for"`
		AvgScoreAgainst  float64               `json:"avg_score_against"`
		Partners         []headToHeadJSON      `json:"partners"`
		Opponents        []headToHeadJSON      `json:"opponents"`
		BiggestWin       *scoreLineJSON        `json:"biggest_win,omitempty"`
		BiggestLoss      *scoreLineJSON        `json:"biggest_loss,omitempty"`
		ByFormat         map[string]formatJSON `json:"by_format"`
		BestPartnerID    int64                 `json:"best_partner_id,omitempty"`
		BestPartnerWR    float64               `json:"best_partner_win_rate,omitempty"`
		WorstPartnerID   int64                 `json:"worst_partner_id,omitempty"`
		WorstPartnerWR   float64               `json:"worst_partner_win_rate,omitempty"`
		FrequentPartner  int64                 `json:"most_frequent_partner_id,omitempty"`
		FrequentOpponent int64                 `json:"most_frequent_opponent_id,omitempty"`
	}{
		PlayerID:         stats.PlayerID,
		Matches:          stats.Matches,
		Wins:             stats.Wins,
		Losses:           stats.Losses,
		WinRate:          stats.WinRate,
		AvgScoreFor:      stats.AvgScoreFor,
		AvgScoreAgainst:  stats.AvgScoreAgainst,
		Partners:         headToHeadList(stats.Partners),
		Opponents:        headToHeadList(stats.Opponents),
		ByFormat:         byFormat,
		BestPartnerID:    stats.BestPartnerID,
		BestPartnerWR:    stats.BestPartnerWR,
		WorstPartnerID:   stats.WorstPartnerID,
		WorstPartnerWR:   stats.WorstPartnerWR,
		FrequentPartner:  stats.MostFrequentPartnerID,
		FrequentOpponent: stats.MostFrequentOpponentID,
	}
	if stats.BiggestWin != nil {
		resp.BiggestWin = &scoreLineJSON{For: stats.BiggestWin.For, Against: stats.BiggestWin.Against}
	}
	if stats.BiggestLoss != nil {
		resp.BiggestLoss = &scoreLineJSON{For: stats.BiggestLoss.For, Against: stats.BiggestLoss.Against}
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *LeagueServer) handlePlayerStreaks(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	streaks, err := s.statsSvc.Streaks(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, struct {
		PlayerID    int64      `json:"player_id"`
		Current     int        `json:"current"`
		CurrentKind string     `json:"current_kind,omitempty"`
		BestWin     int        `json:"best_win"`
		BestWinAt   *time.Time `json:"best_win_at,omitempty"`
		WorstLoss   int        `json:"worst_loss"`
		WorstLossAt *time.Time `json:"worst_loss_at,omitempty"`
	}{
		PlayerID:    streaks.PlayerID,
		Current:     streaks.Current,
		CurrentKind: string(streaks.CurrentKind),
		BestWin:     streaks.BestWin,
		BestWinAt:   streaks.BestWinAt,
		WorstLoss:   streaks.WorstLoss,
		WorstLossAt: streaks.WorstLossAt,
	})
}

func (s *LeagueServer) handlePlayerForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	form, err := s.statsSvc.Form(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, struct {
		PlayerID int64  `json:"player_id"`
		Results  []bool `json:"results"`
		Wins5    int    `json:"wins_last_5"`
		Played5  int    `json:"played_last_5"`
		Wins10   int    `json:"wins_last_10"`
		Played10 int    `json:"played_last_10"`
	}{
		PlayerID: form.PlayerID,
		Results:  form.Results,
		Wins5:    form.Wins5,
		Played5:  form.Played5,
		Wins10:   form.Wins10,
		Played10: form.Played10,
	})
}

type bucketJSON struct {
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

func toBucketJSON(b domain.StrengthBucket) bucketJSON {
	return bucketJSON{Matches: b.Matches, Wins: b.Wins, Losses: b.Losses, WinRate: b.WinRate}
}

func (s *LeagueServer) handlePlayerPerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	split, err := s.statsSvc.Performance(r.Context(), id, time.Now().UTC())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, struct {
		PlayerID      int64      `json:"player_id"`
		CurrentRating float64    `json:"current_rating"`
		VsStronger    bucketJSON `json:"vs_stronger"`
		VsEqual       bucketJSON `json:"vs_equal"`
		VsWeaker      bucketJSON `json:"vs_weaker"`
	}{
		PlayerID:      split.PlayerID,
		CurrentRating: split.CurrentRating,
		VsStronger:    toBucketJSON(split.VsStronger),
		VsEqual:       toBucketJSON(split.VsEqual),
		VsWeaker:      toBucketJSON(split.VsWeaker),
	})
}

func (s *LeagueServer) handlePlayerProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	report, err := s.statsSvc.Progress(r.Context(), id, time.Now().UTC())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type pointJSON struct {
		At     string  `json:"at"`
		Rating float64 `json:"rating"`
	}
	history := make([]pointJSON, 0, len(report.History))
	for _, p := range report.History {
		history = append(history, pointJSON{At: p.At.Format(time.RFC3339), Rating: p.Rating})
	}

	s.respond(w, http.StatusOK, struct {
		PlayerID      int64       `json:"player_id"`
		CurrentRating float64     `json:"current_rating"`
		StartRating   float64     `json:"start_rating"`
		PeakRating    float64     `json:"peak_rating"`
		PeakAt        *time.Time  `json:"peak_at,omitempty"`
		LowestRating  float64     `json:"lowest_rating"`
		RatingChange  float64     `json:"rating_change"`
		History       []pointJSON `json:"history"`
	}{
		PlayerID:      report.PlayerID,
		CurrentRating: report.CurrentRating,
		StartRating:   report.StartRating,
		PeakRating:    report.PeakRating,
		PeakAt:        report.PeakAt,
		LowestRating:  report.LowestRating,
		RatingChange:  report.CurrentRating - report.StartRating,
		History:       history,
	})
}

func (s *LeagueServer) handleVersus(w http.ResponseWriter, r *http.Request) {
	p1, err1 := queryID(r, "p1")
	p2, err2 := queryID(r, "p2")
	if err1 != nil || err2 != nil || p1 == p2 {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "p1 and p2 must be distinct player ids"})
		return
	}

	vs, err := s.statsSvc.Versus(r.Context(), p1, p2)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, struct {
		Matches int     `json:"matches"`
		P1Wins  int     `json:"p1_wins"`
		P2Wins  int     `json:"p2_wins"`
		AvgP1   float64 `json:"avg_score_p1"`
		AvgP2   float64 `json:"avg_score_p2"`
	}{vs.Matches, vs.P1Wins, vs.P2Wins, vs.AvgP1, vs.AvgP2})
}

func (s *LeagueServer) handleRivalries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rivalries, err := s.statsSvc.Rivalries(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type rivalryJSON struct {
		Player1ID int64 `json:"player1_id"`
		Player2ID int64 `json:"player2_id"`
		Matches   int   `json:"matches"`
		P1Wins    int   `json:"p1_wins"`
		P2Wins    int   `json:"p2_wins"`
	}
	out := make([]rivalryJSON, 0, len(rivalries))
	for _, rv := range rivalries {
		out = append(out, rivalryJSON{rv.Player1ID, rv.Player2ID, rv.Matches, rv.P1Wins, rv.P2Wins})
	}
	s.respond(w, http.StatusOK, out)
}

type pairJSON struct {
	Player1ID int64   `json:"player1_id"`
	Player2ID int64   `json:"player2_id"`
	Rating    float64 `json:"rating"`
	Matches   int     `json:"matches"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	WinRate   float64 `json:"win_rate"`
}

func toPairJSON(p domain.Pair) pairJSON {
	return pairJSON{
		Player1ID: p.Player1ID,
		Player2ID: p.Player2ID,
		Rating:    p.Rating,
		Matches:   p.Matches,
		Wins:      p.Wins,
		Losses:    p.Losses,
		WinRate:   p.WinRate(),
	}
}

func (s *LeagueServer) handleTopPairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := s.pairSvc.Top(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]pairJSON, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, toPairJSON(p))
	}
	s.respond(w, http.StatusOK, out)
}

func (s *LeagueServer) handlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := s.statsSvc.History(r.Context(), id, limit, time.Now().UTC())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type pointJSON struct {
		At     string  `json:"at"`
		Rating float64 `json:"rating"`
	}
	out := make([]pointJSON, 0, len(history))
	for _, p := range history {
		out = append(out, pointJSON{At: p.At.Format(time.RFC3339), Rating: p.Rating})
	}
	s.respond(w, http.StatusOK, out)
}

func (s *LeagueServer) handlePairDetail(w http.ResponseWriter, r *http.Request) {
	p1, err1 := queryID(r, "p1")
	p2, err2 := queryID(r, "p2")
	if err1 != nil || err2 != nil || p1 == p2 {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "p1 and p2 must be distinct player ids"})
		return
	}

	record, err := s.statsSvc.PairRecord(r.Context(), p1, p2)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	pair, err := s.pairSvc.Get(r.Context(), p1, p2)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, struct {
		Pair    pairJSON `json:"pair"`
		Matches int      `json:"matches"`
		Wins    int      `json:"wins"`
		Losses  int      `json:"losses"`
		WinRate float64  `json:"win_rate"`
	}{toPairJSON(pair), record.Matches, record.Wins, record.Losses, record.WinRate})
}

func (s *LeagueServer) handleRebuildPairs(w http.ResponseWriter, r *http.Request) {
	n, err := s.pairSvc.Rebuild(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]int{"pairs": n})
}

func (s *LeagueServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	report, err := s.recordsSvc.Records(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type extremeJSON struct {
		PlayerID int64      `json:"player_id"`
		Rating   float64    `json:"rating"`
		At       *time.Time `json:"at,omitempty"`
	}
	type streakJSON struct {
		PlayerID int64      `json:"player_id"`
		Length   int        `json:"length"`
		SetAt    *time.Time `json:"set_at,omitempty"`
	}
	type duoJSON struct {
		PlayerID  int64   `json:"player_id"`
		PartnerID int64   `json:"partner_id"`
		WinRate   float64 `json:"win_rate"`
		Games     int     `json:"games"`
	}

	resp := struct {
		HighestRating  *extremeJSON `json:"highest_rating,omitempty"`
		LowestRating   *extremeJSON `json:"lowest_rating,omitempty"`
		MostMatchesID  int64        `json:"most_matches_player_id,omitempty"`
		MostMatches    int          `json:"most_matches,omitempty"`
		BestWinRateID  int64        `json:"best_win_rate_player_id,omitempty"`
		BestWinRate    float64      `json:"best_win_rate,omitempty"`
		WorstWinRateID int64        `json:"worst_win_rate_player_id,omitempty"`
		WorstWinRate   float64      `json:"worst_win_rate,omitempty"`
		LongestWin     *streakJSON  `json:"longest_win_streak,omitempty"`
		LongestLoss    *streakJSON  `json:"longest_loss_streak,omitempty"`
		BiggestDiff    int          `json:"biggest_diff,omitempty"`
		BiggestMatch   *matchJSON   `json:"biggest_diff_match,omitempty"`
		BestDuo        *duoJSON     `json:"best_duo,omitempty"`
		WorstDuo       *duoJSON     `json:"worst_duo,omitempty"`
	}{
		MostMatchesID:  report.MostMatchesPlayerID,
		MostMatches:    report.MostMatches,
		BestWinRateID:  report.BestWinRatePlayerID,
		BestWinRate:    report.BestWinRate,
		WorstWinRateID: report.WorstWinRatePlayerID,
		WorstWinRate:   report.WorstWinRate,
		BiggestDiff:    report.BiggestDiff,
	}
	if report.HighestRating != nil {
		resp.HighestRating = &extremeJSON{report.HighestRating.PlayerID, report.HighestRating.Rating, report.HighestRating.At}
	}
	if report.LowestRating != nil {
		resp.LowestRating = &extremeJSON{report.LowestRating.PlayerID, report.LowestRating.Rating, report.LowestRating.At}
	}
	if report.LongestWinStreak != nil {
		resp.LongestWin = &streakJSON{report.LongestWinStreak.PlayerID, report.LongestWinStreak.Length, report.LongestWinStreak.SetAt}
	}
	if report.LongestLossStreak != nil {
		resp.LongestLoss = &streakJSON{report.LongestLossStreak.PlayerID, report.LongestLossStreak.Length, report.LongestLossStreak.SetAt}
	}
	if report.BiggestDiffMatch != nil {
		mj := toMatchJSON(*report.BiggestDiffMatch)
		resp.BiggestMatch = &mj
	}
	if report.BestDuo != nil {
		resp.BestDuo = &duoJSON{report.BestDuo.PlayerID, report.BestDuo.PartnerID, report.BestDuo.WinRate, report.BestDuo.Games}
	}
	if report.WorstDuo != nil {
		resp.WorstDuo = &duoJSON{report.WorstDuo.PlayerID, report.WorstDuo.PartnerID, report.WorstDuo.WinRate, report.WorstDuo.Games}
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *LeagueServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamA []int64 `json:"team_a"`
		TeamB []int64 `json:"team_b"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.statsSvc.Predict(r.Context(), req.TeamA, req.TeamB, time.Now().UTC())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, struct {
		TeamARating     float64 `json:"team_a_rating"`
		TeamBRating     float64 `json:"team_b_rating"`
		WinProbA        float64 `json:"win_prob_a"`
		WinProbB        float64 `json:"win_prob_b"`
		PredictedScoreA float64 `json:"predicted_score_a"`
		PredictedScoreB float64 `json:"predicted_score_b"`
	}{p.TeamARating, p.TeamBRating, p.WinProbA, p.WinProbB, p.PredictedScoreA, p.PredictedScoreB})
}
