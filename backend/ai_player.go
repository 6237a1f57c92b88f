package main

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

var ErrNoLegalMoves = errors.New("no legal moves on this board")

// Opponent replies beyond this many immediate wins rank the same anyway, so
// counting stops early and the count caps at threatCountCutoff+1.
const threatCountCutoff = 5

// Small jitter keeps equally-safe moves from always resolving to the first
// candidate in generation order.
const tieBreakJitter = 0.01

type AIPlayer struct {
	rng *rand.Rand
}

// NewAIPlayer builds a planner around the given randomness source. A nil rng
// falls back to a clock-seeded one.
func NewAIPlayer(rng *rand.Rand) *AIPlayer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AIPlayer{rng: rng}
}

// ChooseMove picks a full turn for the given color. It takes the first
// candidate that wins outright; otherwise it keeps the candidate leaving the
// opponent the fewest immediate winning replies, jittered so ties vary
// between games. The board is never mutated.
func (a *AIPlayer) ChooseMove(board Board, color PlayerColor) (Move, error) {
	candidates := GenerateMoves(board)
	if len(candidates) == 0 {
		return Move{}, ErrNoLegalMoves
	}

	winFor := WinOutcomeFor(color)
	for _, move := range candidates {
		_, outcome, err := ApplyMove(board, color, move.Pos, move.Quadrant, move.Dir)
		if err == nil && outcome == winFor {
			return move, nil
		}
	}

	opponent := otherPlayer(color)
	best := candidates[a.rng.Intn(len(candidates))]
	bestScore := math.Inf(-1)
	for _, move := range candidates {
		next, _, err := ApplyMove(board, color, move.Pos, move.Quadrant, move.Dir)
		if err != nil {
			continue
		}
		threats := countImmediateWins(next, opponent)
		score := -float64(threats) + a.rng.Float64()*tieBreakJitter
		if score > bestScore {
			bestScore = score
			best = move
		}
	}
	return best, nil
}

// countImmediateWins counts the moves with which player wins on the spot,
// stopping once the count passes the cutoff.
func countImmediateWins(board Board, player PlayerColor) int {
	winFor := WinOutcomeFor(player)
	count := 0
	for _, move := range GenerateMoves(board) {
		_, outcome, err := ApplyMove(board, player, move.Pos, move.Quadrant, move.Dir)
		if err != nil {
			continue
		}
		if outcome == winFor {
			count++
			if count > threatCountCutoff {
				break
			}
		}
	}
	return count
}
