package rating

import "math"

const (
	// StartRating seeds every player and pair with zero processed matches.
	StartRating = 1000.0
	// KBase is the fixed base K-factor; the format weight scales it down for
	// shorter matches.
	KBase = 28.0

	// marginFactor compresses the actual result into [0.2, 0.8] so a
	// one-point win never scores as a near-loss and a blowout never scores
	// as a certainty.
	marginFactor = 0.3
)

// Expected is the classic Elo win probability for a side rated a against a
// side rated b. Expected(a,b)+Expected(b,a) == 1 for all finite inputs.
func Expected(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/400.0))
}

// Actual maps a signed score margin onto [0.2, 0.8]. diff is points for
// minus points against; ceiling is the format's score ceiling T.
func Actual(diff, ceiling int) float64 {
	margin := float64(diff) / float64(ceiling)
	if margin > 1 {
		margin = 1
	} else if margin < -1 {
		margin = -1
	}
	return 0.5 + marginFactor*margin
}

// Delta is the signed rating adjustment for one side. Both sides of a match
// compute their own delta from their own expectation; the results are close
// to, but not exactly, mirror images.
func Delta(expected, actual, weight float64) float64 {
	return KBase * weight * (actual - expected)
}

// PredictScore turns a win probability into a rough displayed score for a
// to6 match. Presentation helper only; the rating math never consumes it.
func PredictScore(winProb float64) float64 {
	return 3 + (winProb-0.5)*6
}
