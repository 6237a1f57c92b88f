package main

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var ErrNotYourTurn = errors.New("not your turn")

// Game owns one session: the seats, the authoritative state and the move
// history. It is not safe for concurrent use; GameController serializes
// access.
type Game struct {
	settings  GameSettings
	state     GameState
	history   MoveHistory
	ai        *AIPlayer
	sessionID string
	turnStart time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings
	g.state = NewGameState()
	g.history.Clear()
	g.ai = NewAIPlayer(newAIRand())
	g.sessionID = uuid.NewString()
	g.turnStart = time.Now()
	g.logMatchup()
}

// State returns the current snapshot. GameState copies deeply by assignment,
// so the caller can hold on to it.
func (g *Game) State() GameState {
	return g.state
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) SessionID() string {
	return g.sessionID
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) CurrentPlayerIsHuman() bool {
	return g.settings.PlayerTypeFor(g.state.ToMove) == PlayerHuman
}

func (g *Game) Tap(pos Position) (bool, string) {
	if err := g.humanGate(); err != nil {
		return g.reject(err)
	}
	return g.applyTransition(g.state.TapCell(pos))
}

func (g *Game) Proceed() (bool, string) {
	if err := g.humanGate(); err != nil {
		return g.reject(err)
	}
	return g.applyTransition(g.state.Proceed())
}

func (g *Game) Cancel() (bool, string) {
	if err := g.humanGate(); err != nil {
		return g.reject(err)
	}
	return g.applyTransition(g.state.Cancel())
}

func (g *Game) Confirm(quadrant Quadrant, dir RotationDirection) (bool, string) {
	if err := g.humanGate(); err != nil {
		return g.reject(err)
	}
	player := g.state.ToMove
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	next, err := g.state.ConfirmRotation(quadrant, dir)
	if err != nil {
		return g.reject(err)
	}
	next.LastMessage = ""
	g.state = next
	g.history.Push(HistoryEntry{Move: next.LastMove, Player: player, ElapsedMs: elapsedMs})
	g.logMovePlayed(next.LastMove, player, elapsedMs, false)
	g.finishTurn()
	return true, ""
}

// NeedsAIMove reports whether the deferred AI trigger conditions hold: Place
// phase, game still running, nothing staged, and an AI on the seat to move.
func (g *Game) NeedsAIMove() bool {
	return g.state.Phase == PhasePlace &&
		g.state.Outcome == OutcomeOngoing &&
		!g.state.HasPending &&
		g.settings.PlayerTypeFor(g.state.ToMove) == PlayerAI
}

// PlayAIMove chooses and commits one move for the AI seat to move.
func (g *Game) PlayAIMove() (bool, string) {
	if !g.NeedsAIMove() {
		return false, "no AI move pending"
	}
	player := g.state.ToMove
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	move, err := g.ai.ChooseMove(g.state.Board, player)
	if err != nil {
		return g.reject(err)
	}
	next, err := g.state.commitMove(move)
	if err != nil {
		return g.reject(err)
	}
	next.LastMessage = ""
	next.LastAIMove = move.Describe(player)
	g.state = next
	g.history.Push(HistoryEntry{Move: move, Player: player, ElapsedMs: elapsedMs, IsAi: true})
	g.logMovePlayed(move, player, elapsedMs, true)
	g.finishTurn()
	return true, ""
}

// humanGate rejects intents that do not belong to a human seat right now.
// The game-over check runs first so a finished game reports that instead of
// whose turn it nominally is.
func (g *Game) humanGate() error {
	if g.state.Phase == PhaseGameOver {
		return ErrGameOver
	}
	if !g.CurrentPlayerIsHuman() {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) applyTransition(next GameState, err error) (bool, string) {
	if err != nil {
		return g.reject(err)
	}
	next.LastMessage = ""
	g.state = next
	return true, ""
}

func (g *Game) reject(err error) (bool, string) {
	g.state.LastMessage = "Illegal move: " + err.Error()
	return false, err.Error()
}

func (g *Game) finishTurn() {
	if g.state.Phase == PhaseGameOver {
		g.logOutcome()
		return
	}
	g.turnStart = time.Now()
}

func newAIRand() *rand.Rand {
	seed := GetConfig().AiSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Printf("[backend] game %s: White (%s) vs Black (%s)",
		g.sessionID, label(g.settings.WhiteType), label(g.settings.BlackType))
}

func (g *Game) logMovePlayed(move Move, player PlayerColor, elapsedMs float64, isAi bool) {
	if !GetConfig().LogMoves {
		return
	}
	actor := "human"
	if isAi {
		actor = "ai"
	}
	log.Printf("[backend] %s (%s) plays %s after %.0fms", player, actor, move, elapsedMs)
}

func (g *Game) logOutcome() {
	log.Printf("[backend] game %s over: %s after %d moves", g.sessionID, g.state.Outcome, g.history.Size())
}
