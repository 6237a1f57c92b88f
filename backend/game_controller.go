package main

import (
	"sync"
	"time"
)

// GameController serializes intents from HTTP handlers and websocket clients
// onto the Game, and owns the deferred AI move. The AI move is an explicit
// scheduled task: armed when the trigger conditions hold, cancelled by
// anything that invalidates them, and re-verified against the live state when
// it finally runs. aiEpoch counts cancellations, so a callback armed before a
// cancel can recognize that it is stale.
type GameController struct {
	mu        sync.Mutex
	game      Game
	aiTimer   *time.Timer
	aiEpoch   uint64
	publisher func()
}

func NewGameController(settings GameSettings) *GameController {
	gc := &GameController{game: NewGame(settings)}
	gc.mu.Lock()
	gc.scheduleAIMove()
	gc.mu.Unlock()
	return gc
}

// SetStatusPublisher registers the callback invoked after a deferred AI move
// lands, so the transport layer can push fresh status to its clients. It is
// called without the controller lock held.
func (gc *GameController) SetStatusPublisher(publisher func()) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.publisher = publisher
}

func (gc *GameController) Tap(pos Position) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tap(pos)
}

func (gc *GameController) Proceed() (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Proceed()
}

func (gc *GameController) Cancel() (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Cancel()
}

func (gc *GameController) Confirm(quadrant Quadrant, dir RotationDirection) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	applied, reason := gc.game.Confirm(quadrant, dir)
	if applied {
		gc.scheduleAIMove()
	}
	return applied, reason
}

// Preview simulates the staged placement with a chosen rotation without
// committing anything. Only meaningful while a rotation is being picked.
func (gc *GameController) Preview(quadrant Quadrant, dir RotationDirection) (Board, Outcome, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	state := gc.game.State()
	if state.Phase != PhaseRotate || !state.HasPending {
		return Board{}, OutcomeOngoing, false
	}
	board, outcome, err := ApplyMove(state.Board, state.ToMove, state.Pending, quadrant, dir)
	if err != nil {
		return Board{}, OutcomeOngoing, false
	}
	return board, outcome, true
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) SessionID() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SessionID()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

// AiThinking reports whether an AI move is scheduled but not yet played. The
// UI uses it for its thinking affordance.
func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.aiTimer != nil
}

// Reset starts a fresh game with the current settings.
func (gc *GameController) Reset() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.cancelAIMove()
	gc.game.Reset(gc.game.settings)
	gc.scheduleAIMove()
}

// StartGame starts a fresh game with new settings.
func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.cancelAIMove()
	gc.game.Reset(settings)
	gc.scheduleAIMove()
}

// UpdateSettings swaps the seats, optionally restarting the game. Either way
// any scheduled AI move belongs to the old setup and is dropped first.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.cancelAIMove()
	if reset {
		gc.game.Reset(update)
	} else {
		gc.game.settings = update
	}
	gc.scheduleAIMove()
}

// ResetForConfigChange re-arms a scheduled AI move so a new delay takes
// effect immediately. A new seed only applies from the next game.
func (gc *GameController) ResetForConfigChange() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.cancelAIMove()
	gc.scheduleAIMove()
}

// scheduleAIMove arms the deferred trigger when the game is waiting on the
// AI and nothing is armed yet. Caller holds mu.
func (gc *GameController) scheduleAIMove() {
	if gc.aiTimer != nil || !gc.game.NeedsAIMove() {
		return
	}
	epoch := gc.aiEpoch
	delay := time.Duration(GetConfig().AiDelayMs) * time.Millisecond
	gc.aiTimer = time.AfterFunc(delay, func() { gc.fireAIMove(epoch) })
}

// cancelAIMove disarms the trigger and invalidates callbacks already in
// flight. Caller holds mu.
func (gc *GameController) cancelAIMove() {
	gc.aiEpoch++
	if gc.aiTimer != nil {
		gc.aiTimer.Stop()
		gc.aiTimer = nil
	}
}

func (gc *GameController) fireAIMove(epoch uint64) {
	gc.mu.Lock()
	if epoch != gc.aiEpoch {
		// Cancelled after the timer went off; the state has moved on.
		gc.mu.Unlock()
		return
	}
	gc.aiTimer = nil
	applied, _ := gc.game.PlayAIMove()
	if applied {
		gc.scheduleAIMove()
	}
	publisher := gc.publisher
	gc.mu.Unlock()
	if applied && publisher != nil {
		publisher()
	}
}
