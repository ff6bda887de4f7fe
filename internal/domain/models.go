package domain

import (
	"time"
)

// Format is one of the three fixed match-length classes. The score ceiling
// and rating weight are properties of the format, not of the match.
type Format string

const (
	FormatTo6 Format = "to6"
	FormatTo4 Format = "to4"
	FormatTo3 Format = "to3"
)

// Ceiling is the maximum regular score for the format.
func (f Format) Ceiling() int {
	switch f {
	case FormatTo4:
		return 4
	case FormatTo3:
		return 3
	default:
		return 6
	}
}

// Weight scales how strongly a match of this format moves ratings.
func (f Format) Weight() float64 {
	switch f {
	case FormatTo4:
		return 0.8
	case FormatTo3:
		return 0.7
	default:
		return 1.0
	}
}

func (f Format) Valid() bool {
	return f == FormatTo6 || f == FormatTo4 || f == FormatTo3
}

type Player struct {
	ID         int64
	Name       string
	ExternalID *int64 // chat-platform account binding, optional
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Match is immutable once appended. Teams are stored as player id slices so
// that a malformed historical row can be detected and skipped during replay
// rather than silently reshaped.
type Match struct {
	ID          int64
	Ref         string // short public reference, generated on append
	PlayedAt    time.Time
	Format      Format
	TeamA       []int64
	TeamB       []int64
	ScoreA      int
	ScoreB      int
	SubmittedBy string
	CreatedAt   time.Time
}

// IsDoubles reports whether the match has the 2-vs-2 shape the rating engine
// requires.
func (m Match) IsDoubles() bool {
	return len(m.TeamA) == 2 && len(m.TeamB) == 2
}

// HasPlayer reports whether the player took part on either side.
func (m Match) HasPlayer(id int64) bool {
	return m.SideOf(id) != SideNone
}

type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

// SideOf returns which team the player was on, or SideNone.
func (m Match) SideOf(id int64) Side {
	for _, p := range m.TeamA {
		if p == id {
			return SideA
		}
	}
	for _, p := range m.TeamB {
		if p == id {
			return SideB
		}
	}
	return SideNone
}

// Pair is a fixed teammate unit with its own persistent rating. Player1ID is
// always the smaller id.
type Pair struct {
	Player1ID int64
	Player2ID int64
	Rating    float64
	Matches   int
	Wins      int
	Losses    int
	UpdatedAt time.Time
}

// PairKey canonicalizes two player ids into the stored (low, high) order.
func PairKey(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

func (p Pair) WinRate() float64 {
	if p.Matches == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Matches) * 100
}
