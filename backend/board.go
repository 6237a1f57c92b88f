package main

import "fmt"

type Cell int

const (
	CellEmpty Cell = iota
	CellWhite
	CellBlack
)

// BoardSize is fixed: four 3x3 quadrants arranged in a 2x2 grid.
const BoardSize = 6

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board is a plain value: assignment copies the whole grid, so transitions
// can build a new board without touching the one they started from.
type Board [BoardSize * BoardSize]Cell

func NewBoard() Board {
	return Board{}
}

func (b Board) At(x, y int) Cell {
	return b[y*BoardSize+x]
}

func (b *Board) Set(x, y int, value Cell) {
	b[y*BoardSize+x] = value
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < BoardSize && y < BoardSize
}

func (b Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (c Cell) String() string {
	switch c {
	case CellWhite:
		return "White"
	case CellBlack:
		return "Black"
	default:
		return "Empty"
	}
}

func (p Position) String() string {
	// Columns a-f left to right, rows 1-6 top to bottom.
	return fmt.Sprintf("%c%d", 'a'+p.X, p.Y+1)
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerWhite {
		return CellWhite
	}
	return CellBlack
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellWhite:
		return PlayerWhite, nil
	case CellBlack:
		return PlayerBlack, nil
	default:
		return PlayerWhite, fmt.Errorf("empty cell has no player")
	}
}
