package domain

import "time"

// HeadCount is the fixed-shape record behind every per-opponent and
// per-partner frequency table.
type HeadCount struct {
	Games  int
	Wins   int
	Losses int
}

func (h HeadCount) WinRate() float64 {
	if h.Games == 0 {
		return 0
	}
	return float64(h.Wins) / float64(h.Games) * 100
}

type FormatSplit struct {
	Wins   int
	Losses int
}

func (s FormatSplit) Total() int { return s.Wins + s.Losses }

func (s FormatSplit) WinRate() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Total()) * 100
}

type ScoreLine struct {
	For     int
	Against int
}

type PlayerStats struct {
	PlayerID        int64
	Matches         int
	Wins            int
	Losses          int
	WinRate         float64
	AvgScoreFor     float64
	AvgScoreAgainst float64

	Partners  map[int64]HeadCount
	Opponents map[int64]HeadCount

	BiggestWin  *ScoreLine
	BiggestLoss *ScoreLine

	ByFormat map[Format]FormatSplit

	BestPartnerID  int64 // 0 when no partner has enough shared matches
	BestPartnerWR  float64
	WorstPartnerID int64
	WorstPartnerWR float64

	MostFrequentPartnerID  int64
	MostFrequentPartnerN   int
	MostFrequentOpponentID int64
	MostFrequentOpponentN  int
}

type StreakKind string

const (
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

type Streaks struct {
	PlayerID    int64
	Current     int
	CurrentKind StreakKind
	BestWin     int
	BestWinAt   *time.Time
	WorstLoss   int
	WorstLossAt *time.Time
}

type VersusStats struct {
	Matches  int
	P1Wins   int
	P2Wins   int
	AvgP1    float64
	AvgP2    float64
}

type PairStats struct {
	Matches int
	Wins    int
	Losses  int
	WinRate float64
}

type StrengthBucket struct {
	Matches int
	Wins    int
	Losses  int
	WinRate float64
}

// StrengthSplit buckets a player's results by how the opposing team's current
// average rating compares to the player's own.
type StrengthSplit struct {
	PlayerID      int64
	CurrentRating float64
	VsStronger    StrengthBucket // opponents rated >= 50 above
	VsEqual       StrengthBucket // within +/- 50
	VsWeaker      StrengthBucket // opponents rated >= 50 below
}

type RatingExtreme struct {
	PlayerID int64
	Rating   float64
	At       *time.Time // nil when never moved off the start rating
}

type StreakRecord struct {
	PlayerID int64
	Length   int
	SetAt    *time.Time
}

type DuoRecord struct {
	PlayerID  int64
	PartnerID int64
	WinRate   float64
	Games     int
}

// RecordsReport is the full-history league record sheet. Pointer fields stay
// nil when the log has no qualifying data.
type RecordsReport struct {
	HighestRating *RatingExtreme
	LowestRating  *RatingExtreme

	MostMatchesPlayerID int64
	MostMatches         int

	BestWinRatePlayerID  int64 // min 5 matches
	BestWinRate          float64
	WorstWinRatePlayerID int64
	WorstWinRate         float64

	LongestWinStreak  *StreakRecord
	LongestLossStreak *StreakRecord

	BiggestDiff      int
	BiggestDiffMatch *Match

	BestDuo  *DuoRecord
	WorstDuo *DuoRecord
}

type FormReport struct {
	PlayerID int64
	Results  []bool // oldest first, at most the last 5
	Wins5    int
	Played5  int
	Wins10   int
	Played10 int
}

type ProgressPoint struct {
	At     time.Time
	Rating float64
}

type ProgressReport struct {
	PlayerID      int64
	CurrentRating float64
	StartRating   float64
	PeakRating    float64
	PeakAt        *time.Time
	LowestRating  float64
	History       []ProgressPoint
}

type Rivalry struct {
	Player1ID int64
	Player2ID int64
	Matches   int
	P1Wins    int
	P2Wins    int
}

type Prediction struct {
	TeamARating float64
	TeamBRating float64
	WinProbA    float64
	WinProbB    float64
	// Display-only score estimate; not part of the rating math.
	PredictedScoreA float64
	PredictedScoreB float64
}
