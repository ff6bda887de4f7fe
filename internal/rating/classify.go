package rating

import (
	"padel-league/internal/domain"
)

const allowedScores = "to6: 6-0..6-4, 7-6 | to4: 4-0..4-3, 5-4 | to3: 3-0..3-2, 4-3"

// Classify maps a raw score to its format. The first matching rule wins:
// 4-3 satisfies both the to4 regular rule and the to3 tiebreak rule and
// always classifies as to4.
func Classify(scoreA, scoreB int) (domain.Format, error) {
	if scoreA < 0 || scoreB < 0 {
		return "", domain.NewValidationError("invalid_score", "scores must be non-negative, got %d-%d", scoreA, scoreB)
	}

	hi, lo := scoreA, scoreB
	if lo > hi {
		hi, lo = lo, hi
	}

	switch {
	case (hi == 6 && lo <= 4) || (hi == 7 && lo == 6):
		return domain.FormatTo6, nil
	case (hi == 4 && lo <= 3) || (hi == 5 && lo == 4):
		return domain.FormatTo4, nil
	case (hi == 3 && lo <= 2) || (hi == 4 && lo == 3):
		return domain.FormatTo3, nil
	default:
		return "", domain.NewValidationError("invalid_score",
			"score %d-%d matches no format; valid scores are %s", scoreA, scoreB, allowedScores)
	}
}
