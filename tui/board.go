package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	boardSize    = 6
	quadrantSize = 3
)

// BoardView renders the shared board state inside a tview.Box: two characters
// per cell, gutters between the quadrants, a movable cursor and markers for
// the staged placement, the last move and the winning line. While a rotation
// preview is set it is drawn instead of the live board.
type BoardView struct {
	Box     *tview.Box
	status  gameStatus
	preview *previewResult
	selX    int
	selY    int
}

func NewBoardView() *BoardView {
	b := &BoardView{
		Box:  tview.NewBox(),
		selX: -1,
		selY: -1,
	}
	b.Box.SetDrawFunc(b.draw)
	return b
}

func (b *BoardView) SetStatus(status gameStatus) {
	b.status = status
	if status.Phase != "rotate" {
		b.preview = nil
	}
	if status.Phase == "game_over" {
		b.ResetSelection()
	}
}

func (b *BoardView) Status() gameStatus {
	return b.status
}

func (b *BoardView) SetPreview(preview previewResult) {
	p := preview
	b.preview = &p
}

func (b *BoardView) ClearPreview() {
	b.preview = nil
}

func (b *BoardView) Preview() *previewResult {
	return b.preview
}

func (b *BoardView) Selected() (int, int, bool) {
	if b.selX < 0 || b.selY < 0 {
		return 0, 0, false
	}
	return b.selX, b.selY, true
}

func (b *BoardView) ResetSelection() {
	b.selX = -1
	b.selY = -1
}

// MoveSelection moves the cursor, clamping to the board. The first movement
// drops the cursor on the center instead.
func (b *BoardView) MoveSelection(dx, dy int) {
	if b.selX < 0 || b.selY < 0 {
		b.selX = boardSize / 2
		b.selY = boardSize / 2
		return
	}
	if b.selX+dx < 0 || b.selX+dx >= boardSize {
		return
	}
	if b.selY+dy < 0 || b.selY+dy >= boardSize {
		return
	}
	b.selX += dx
	b.selY += dy
}

// cellScreenPos maps a board cell to its screen position: 2 characters per
// cell plus a 2-character gutter between quadrant columns and a spacer row
// between quadrant rows. The left margin holds row numbers, the top row holds
// column letters.
func cellScreenPos(left, top, x, y int) (int, int) {
	sx := left + 3 + x*2 + (x/quadrantSize)*2
	sy := top + 1 + y + y/quadrantSize
	return sx, sy
}

func (b *BoardView) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if len(b.status.Board) != boardSize {
		return x, y, width, height
	}
	grid := b.status.Board
	previewing := b.preview != nil && len(b.preview.Board) == boardSize
	if previewing {
		grid = b.preview.Board
	}

	base := tcell.StyleDefault
	// Column letters across the top, row numbers down the left edge.
	for col := 0; col < boardSize; col++ {
		sx, _ := cellScreenPos(x, y, col, 0)
		style := base
		if col == b.selX {
			style = style.Bold(true)
		}
		screen.SetContent(sx, y, rune('a'+col), nil, style)
	}
	for row := 0; row < boardSize; row++ {
		_, sy := cellScreenPos(x, y, 0, row)
		style := base
		if row == b.selY {
			style = style.Bold(true)
		}
		screen.SetContent(x+1, sy, rune('1'+row), nil, style)
	}

	b.drawGutters(screen, x, y)

	winning := make(map[cellRef]bool, len(b.status.WinningLine))
	for _, p := range b.status.WinningLine {
		winning[p] = true
	}

	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			sx, sy := cellScreenPos(x, y, col, row)
			style := base
			cell := grid[row][col]
			drawRune := '·'
			switch cell {
			case 1:
				drawRune = '○'
			case 2:
				drawRune = '●'
			}

			if previewing && inQuadrant(b.preview.Quadrant, col, row) {
				style = style.Background(tcell.ColorDarkSlateGray)
			}
			if !previewing {
				if b.status.Pending != nil && b.status.Pending.X == col && b.status.Pending.Y == row && cell == 0 {
					drawRune = stoneRune(b.status.NextPlayer)
					style = style.Foreground(tcell.ColorYellow)
				}
				if b.status.LastMove != nil && b.status.LastMove.X == col && b.status.LastMove.Y == row {
					style = style.Underline(true)
				}
				if winning[cellRef{X: col, Y: row}] {
					style = style.Background(tcell.ColorDarkGreen)
				}
			}
			if col == b.selX && row == b.selY {
				style = style.Reverse(true)
			}

			screen.SetContent(sx, sy, drawRune, nil, style)
			screen.SetContent(sx+1, sy, ' ', nil, style)
		}
	}

	boardW := 3 + boardSize*2 + 2
	boardH := 1 + boardSize + 1
	return x, y, boardW, boardH
}

// drawGutters separates the four quadrants with light box lines.
func (b *BoardView) drawGutters(screen tcell.Screen, x, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	leftEdge, _ := cellScreenPos(x, y, 0, 0)
	rightCellX, _ := cellScreenPos(x, y, boardSize-1, 0)
	gutterX := leftEdge + quadrantSize*2
	_, topEdge := cellScreenPos(x, y, 0, 0)
	_, gutterY := cellScreenPos(x, y, 0, quadrantSize-1)
	gutterY++
	_, bottomCellY := cellScreenPos(x, y, 0, boardSize-1)

	for sy := topEdge; sy <= bottomCellY; sy++ {
		if sy == gutterY {
			continue
		}
		screen.SetContent(gutterX, sy, '│', nil, style)
	}
	for sx := leftEdge; sx <= rightCellX+1; sx++ {
		if sx == gutterX {
			continue
		}
		screen.SetContent(sx, gutterY, '─', nil, style)
	}
	screen.SetContent(gutterX, gutterY, '┼', nil, style)
}

func stoneRune(player int) rune {
	if player == 2 {
		return '●'
	}
	return '○'
}

// inQuadrant reports whether the cell lies in the given quadrant (0 top-left,
// 1 top-right, 2 bottom-left, 3 bottom-right).
func inQuadrant(quadrant, x, y int) bool {
	ox := (quadrant % 2) * quadrantSize
	oy := (quadrant / 2) * quadrantSize
	return x >= ox && x < ox+quadrantSize && y >= oy && y < oy+quadrantSize
}
