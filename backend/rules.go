package main

import "errors"

type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeWhiteWins
	OutcomeBlackWins
	OutcomeDraw
)

var (
	ErrInvalidCell     = errors.New("cell is occupied or out of bounds")
	ErrInvalidQuadrant = errors.New("invalid quadrant or rotation direction")
)

const winLength = 5

var lineDirections = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// CheckWinner scans the whole board for runs of five or more. A rotation can
// complete a run for both colors at once; that counts as a draw, as does a
// full board with no run at all.
func CheckWinner(board Board) Outcome {
	whiteRun := hasAlignment(board, CellWhite)
	blackRun := hasAlignment(board, CellBlack)
	switch {
	case whiteRun && blackRun:
		return OutcomeDraw
	case whiteRun:
		return OutcomeWhiteWins
	case blackRun:
		return OutcomeBlackWins
	case board.CountEmpty() == 0:
		return OutcomeDraw
	}
	return OutcomeOngoing
}

func hasAlignment(board Board, target Cell) bool {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if board.At(x, y) != target {
				continue
			}
			for i := 0; i < 4; i++ {
				dx := lineDirections[i][0]
				dy := lineDirections[i][1]
				if countDirection(board, x, y, dx, dy, target) >= winLength {
					return true
				}
			}
		}
	}
	return false
}

func countDirection(board Board, x, y, dx, dy int, target Cell) int {
	count := 0
	for board.InBounds(x, y) && board.At(x, y) == target {
		count++
		x += dx
		y += dy
	}
	return count
}

// FindAlignmentLine returns the cells of a winning run for the given color,
// if one exists. Used for highlighting only; CheckWinner decides the outcome.
func FindAlignmentLine(board Board, target Cell) ([]Position, bool) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if board.At(x, y) != target {
				continue
			}
			for i := 0; i < 4; i++ {
				dx := lineDirections[i][0]
				dy := lineDirections[i][1]
				if countDirection(board, x, y, dx, dy, target) < winLength {
					continue
				}
				line := make([]Position, 0, winLength)
				cx, cy := x, y
				for board.InBounds(cx, cy) && board.At(cx, cy) == target {
					line = append(line, Position{X: cx, Y: cy})
					cx += dx
					cy += dy
				}
				return line, true
			}
		}
	}
	return nil, false
}

// ApplyMove places the player's stone, rotates the chosen quadrant and
// evaluates the result. The input board is left as-is; the returned board is
// the next state. Placement happens before rotation, so the new stone is
// carried along by the turn.
func ApplyMove(board Board, player PlayerColor, pos Position, quadrant Quadrant, dir RotationDirection) (Board, Outcome, error) {
	if !board.IsEmpty(pos.X, pos.Y) {
		return board, OutcomeOngoing, ErrInvalidCell
	}
	if !quadrant.IsValid() || !dir.IsValid() {
		return board, OutcomeOngoing, ErrInvalidQuadrant
	}
	next := board
	next.Set(pos.X, pos.Y, CellFromPlayer(player))
	next = RotateQuadrant(next, quadrant, dir)
	return next, CheckWinner(next), nil
}

// WinOutcomeFor maps a color to the outcome in which that color has won.
func WinOutcomeFor(player PlayerColor) Outcome {
	if player == PlayerWhite {
		return OutcomeWhiteWins
	}
	return OutcomeBlackWins
}

func (o Outcome) String() string {
	switch o {
	case OutcomeWhiteWins:
		return "White wins"
	case OutcomeBlackWins:
		return "Black wins"
	case OutcomeDraw:
		return "Draw"
	default:
		return "Ongoing"
	}
}
