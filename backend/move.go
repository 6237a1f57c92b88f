package main

import "fmt"

// Move is a full turn: place a stone, then rotate one quadrant.
type Move struct {
	Pos      Position          `json:"pos"`
	Quadrant Quadrant          `json:"quadrant"`
	Dir      RotationDirection `json:"dir"`
}

func (m Move) IsValid() bool {
	return m.Pos.X >= 0 && m.Pos.Y >= 0 && m.Pos.X < BoardSize && m.Pos.Y < BoardSize &&
		m.Quadrant.IsValid() && m.Dir.IsValid()
}

func (m Move) Equals(other Move) bool {
	return m.Pos == other.Pos && m.Quadrant == other.Quadrant && m.Dir == other.Dir
}

func (m Move) String() string {
	return fmt.Sprintf("%s %s %s", m.Pos, m.Quadrant, m.Dir)
}

// Describe renders a move the way the UI announces it, e.g.
// "Black places at d5 and rotates the top-right quadrant clockwise".
func (m Move) Describe(player PlayerColor) string {
	return fmt.Sprintf("%s places at %s and rotates the %s quadrant %s",
		player, m.Pos, m.Quadrant, m.Dir)
}

// GenerateMoves enumerates every legal turn on the board in a fixed order:
// cells row by row left to right, then quadrant top-left through bottom-right,
// clockwise before counter-clockwise. An empty board yields 36*4*2 = 288
// candidates. Rotating an empty or symmetric quadrant still counts as a
// distinct move; callers that care about duplicates filter themselves.
func GenerateMoves(board Board) []Move {
	moves := make([]Move, 0, board.CountEmpty()*8)
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if !board.IsEmpty(x, y) {
				continue
			}
			for q := QuadrantTopLeft; q <= QuadrantBottomRight; q++ {
				moves = append(moves,
					Move{Pos: Position{X: x, Y: y}, Quadrant: q, Dir: RotateClockwise},
					Move{Pos: Position{X: x, Y: y}, Quadrant: q, Dir: RotateCounterClockwise})
			}
		}
	}
	return moves
}
