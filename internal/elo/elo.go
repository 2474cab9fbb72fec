// Package elo is the stateless rating arithmetic: expected scores and the
// fixed-K rating change for a single pairing.
package elo

import "math"

// KFactor is the maximum single-game adjustment magnitude.
const KFactor = 32

// Valid single-game results.
const (
	Loss float64 = 0
	Draw float64 = 0.5
	Win  float64 = 1
)

var ErrInvalidResult = errInvalidResult

type staticErr string

func (e staticErr) Error() string { return string(e) }

const errInvalidResult = staticErr("result must be 0, 0.5 or 1")

// ExpectedScore is the probability-like score expectation of a rated player a
// against opponent b: 1 / (1 + 10^((b-a)/400)).
func ExpectedScore(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/400))
}

// Change returns the rounded rating delta for player against opponent given
// the actual result. Results outside {0, 0.5, 1} are rejected.
func Change(player, opponent int, result float64) (int, error) {
	if result != Loss && result != Draw && result != Win {
		return 0, ErrInvalidResult
	}
	return int(math.Round(KFactor * (result - ExpectedScore(player, opponent)))), nil
}
