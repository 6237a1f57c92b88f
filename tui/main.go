// pentago-tui is a terminal client for the pentago-web backend. It drives a
// game over the backend's HTTP API and follows pushed updates over its
// websocket, so it can play against the server AI or spectate a running game.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var (
	flagAddr  = flag.String("addr", "http://localhost:8080", "backend base URL")
	flagMode  = flag.String("mode", "ai_vs_human", "game mode (ai_vs_human, human_vs_human, ai_vs_ai)")
	flagColor = flag.String("color", "white", "seat to play in ai_vs_human mode (white or black)")
	flagWatch = flag.Bool("watch", false, "spectate the running game instead of starting a new one")
)

var (
	app    *tview.Application
	board  *BoardView
	hint   *tview.TextView
	client *apiClient

	rotateQuadrant = -1
	rotateDir      = "cw"
	lastError      string
)

func main() {
	flag.Parse()

	client = newAPIClient(*flagAddr)
	if err := waitBackendReady(5 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "backend not reachable at %s: %v\n", *flagAddr, err)
		os.Exit(1)
	}

	humanPlayer := 1
	if strings.EqualFold(*flagColor, "black") || strings.EqualFold(*flagColor, "b") {
		humanPlayer = 2
	}

	var status gameStatus
	var err error
	if *flagWatch {
		status, err = client.Status()
	} else {
		status, err = client.StartGame(*flagMode, humanPlayer)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not join game: %v\n", err)
		os.Exit(1)
	}

	app = tview.NewApplication()

	hint = tview.NewTextView()
	hint.SetBorder(true)
	hint.SetBorderPadding(0, 0, 1, 1)
	hint.SetTitle(" Status ")
	hint.SetTitleAlign(tview.AlignLeft)

	board = NewBoardView()
	board.Box.SetInputCapture(handleKey)

	applyStatus(status)

	layout := tview.NewFlex().
		AddItem(board.Box, 0, 2, true).
		AddItem(hint, 0, 1, false)

	done := make(chan struct{})
	go func() {
		err := client.Listen(done, func(status gameStatus) {
			app.QueueUpdateDraw(func() {
				applyStatus(status)
			})
		})
		if err != nil {
			app.QueueUpdateDraw(func() {
				lastError = "connection lost: " + err.Error()
				refreshHint()
			})
		}
	}()

	runErr := app.SetRoot(layout, true).Run()
	close(done)
	if runErr != nil {
		panic(runErr)
	}
}

func waitBackendReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var err error
	for time.Now().Before(deadline) {
		if err = client.Ping(); err == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return err
}

func applyStatus(status gameStatus) {
	if status.Phase != "rotate" {
		rotateQuadrant = -1
		rotateDir = "cw"
	}
	board.SetStatus(status)
	refreshHint()
}

// runIntent applies the status a successful intent returned, or surfaces the
// rejection without touching the board.
func runIntent(status gameStatus, err error) {
	if err != nil {
		lastError = err.Error()
		refreshHint()
		return
	}
	lastError = ""
	applyStatus(status)
}

func handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
		app.Stop()
		return nil
	}
	if event.Key() == tcell.KeyRune && event.Rune() == 'r' {
		restartGame()
		return nil
	}

	switch board.Status().Phase {
	case "place":
		return handlePlaceKey(event)
	case "rotate":
		return handleRotateKey(event)
	}
	return event
}

func handlePlaceKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		board.MoveSelection(0, -1)
	case tcell.KeyDown:
		board.MoveSelection(0, 1)
	case tcell.KeyLeft:
		board.MoveSelection(-1, 0)
	case tcell.KeyRight:
		board.MoveSelection(1, 0)
	case tcell.KeyEnter:
		stageOrLock()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			board.MoveSelection(-1, 0)
		case 'j':
			board.MoveSelection(0, 1)
		case 'k':
			board.MoveSelection(0, -1)
		case 'l':
			board.MoveSelection(1, 0)
		case 'c':
			runIntent(client.Cancel())
		}
	}
	refreshHint()
	return nil
}

// stageOrLock stages the cursor cell, or locks the staged placement in and
// moves on to the rotation when the cursor already sits on it.
func stageOrLock() {
	x, y, ok := board.Selected()
	if !ok {
		return
	}
	status := board.Status()
	if status.Pending != nil && status.Pending.X == x && status.Pending.Y == y {
		runIntent(client.Proceed())
		return
	}
	runIntent(client.Tap(x, y))
}

func handleRotateKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter:
		if rotateQuadrant >= 0 {
			runIntent(client.Confirm(rotateQuadrant, rotateDir))
		}
	case tcell.KeyRune:
		switch r := event.Rune(); r {
		case '1', '2', '3', '4':
			rotateQuadrant = int(r - '1')
			requestPreview()
		case 'd':
			if rotateDir == "cw" {
				rotateDir = "ccw"
			} else {
				rotateDir = "cw"
			}
			requestPreview()
		case 'c':
			rotateQuadrant = -1
			rotateDir = "cw"
			board.ClearPreview()
			runIntent(client.Cancel())
		}
	}
	refreshHint()
	return nil
}

func requestPreview() {
	if rotateQuadrant < 0 {
		return
	}
	preview, err := client.Preview(rotateQuadrant, rotateDir)
	if err != nil {
		lastError = err.Error()
		return
	}
	lastError = ""
	board.SetPreview(preview)
}

func restartGame() {
	humanPlayer := 1
	if strings.EqualFold(*flagColor, "black") || strings.EqualFold(*flagColor, "b") {
		humanPlayer = 2
	}
	runIntent(client.StartGame(*flagMode, humanPlayer))
}

func refreshHint() {
	status := board.Status()
	var lines []string

	switch {
	case status.Phase == "game_over":
		lines = append(lines, fmt.Sprintf("  Result: %s", outcomeText(status)))
	case status.AiThinking:
		lines = append(lines, "  ◌ Thinking...")
	default:
		lines = append(lines, fmt.Sprintf("  %c %s to move", stoneRune(status.NextPlayer), playerName(status.NextPlayer)))
	}

	if status.LastAiMove != "" {
		lines = append(lines, "  "+status.LastAiMove)
	}
	if lastError != "" {
		lines = append(lines, "  ! "+lastError)
	} else if status.Message != "" {
		lines = append(lines, "  ! "+status.Message)
	}
	lines = append(lines, fmt.Sprintf("  %d moves played", len(status.History)))
	lines = append(lines, "")

	switch status.Phase {
	case "place":
		lines = append(lines,
			"  hjkl/↑↓←→ move cursor",
			"  ⏎ stage stone, ⏎ again to lock",
			"  c clear stone")
	case "rotate":
		if p := board.Preview(); p != nil {
			lines = append(lines, fmt.Sprintf("  previewing quadrant %d %s", p.Quadrant+1, directionText(p.Direction)))
		}
		lines = append(lines,
			"  1-4 pick quadrant   d flip direction",
			"  ⏎ confirm rotation   c back to placing")
	}
	lines = append(lines, "  r new game   q quit")

	hint.SetText(strings.Join(lines, "\n"))
}

func outcomeText(status gameStatus) string {
	switch status.Outcome {
	case "white_won":
		return "White wins"
	case "black_won":
		return "Black wins"
	case "draw":
		return "Draw"
	}
	return "Ongoing"
}

func playerName(player int) string {
	if player == 2 {
		return "Black"
	}
	return "White"
}

func directionText(direction string) string {
	if direction == "ccw" {
		return "counter-clockwise"
	}
	return "clockwise"
}
