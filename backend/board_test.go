package main

import "testing"

func TestBoardSetAndAt(t *testing.T) {
	board := NewBoard()
	board.Set(0, 0, CellWhite)
	board.Set(5, 5, CellBlack)
	if board.At(0, 0) != CellWhite {
		t.Fatalf("expected white at (0,0), got %v", board.At(0, 0))
	}
	if board.At(5, 5) != CellBlack {
		t.Fatalf("expected black at (5,5), got %v", board.At(5, 5))
	}
	if board.At(5, 0) != CellEmpty || board.At(0, 5) != CellEmpty {
		t.Fatalf("expected the opposite corners empty")
	}
}

func TestBoardInBounds(t *testing.T) {
	board := NewBoard()
	for _, p := range []Position{{0, 0}, {5, 5}, {3, 2}} {
		if !board.InBounds(p.X, p.Y) {
			t.Fatalf("expected (%d,%d) in bounds", p.X, p.Y)
		}
	}
	for _, p := range []Position{{-1, 0}, {0, -1}, {6, 0}, {0, 6}} {
		if board.InBounds(p.X, p.Y) {
			t.Fatalf("expected (%d,%d) out of bounds", p.X, p.Y)
		}
		if board.IsEmpty(p.X, p.Y) {
			t.Fatalf("expected (%d,%d) not to count as empty", p.X, p.Y)
		}
	}
}

func TestBoardCountEmpty(t *testing.T) {
	board := NewBoard()
	if board.CountEmpty() != 36 {
		t.Fatalf("expected 36 empty cells, got %d", board.CountEmpty())
	}
	board.Set(1, 2, CellWhite)
	board.Set(4, 4, CellBlack)
	if board.CountEmpty() != 34 {
		t.Fatalf("expected 34 empty cells, got %d", board.CountEmpty())
	}
}

func TestCellPlayerConversions(t *testing.T) {
	for _, player := range []PlayerColor{PlayerWhite, PlayerBlack} {
		cell := CellFromPlayer(player)
		back, err := PlayerFromCell(cell)
		if err != nil {
			t.Fatalf("expected cell %v to map back, got %v", cell, err)
		}
		if back != player {
			t.Fatalf("expected %v round-tripped, got %v", player, back)
		}
	}
	if _, err := PlayerFromCell(CellEmpty); err == nil {
		t.Fatalf("expected error for empty cell")
	}
}
