package main

import "errors"

type PlayerColor int

const (
	PlayerWhite PlayerColor = iota
	PlayerBlack
)

// Phase is where the current turn stands. A turn is two steps: place a stone,
// then rotate a quadrant. The move only commits once the rotation is
// confirmed.
type Phase int

const (
	PhasePlace Phase = iota
	PhaseRotate
	PhaseGameOver
)

var (
	ErrWrongPhase    = errors.New("action not allowed in this phase")
	ErrNoPendingMove = errors.New("no placement staged")
	ErrGameOver      = errors.New("game is over")
)

// GameState is an immutable snapshot. Transitions take a value receiver and
// return the next state; the caller decides whether to keep it. Every field
// is either a value or set-once, so a plain copy is a deep copy for all
// practical purposes.
type GameState struct {
	Board       Board
	ToMove      PlayerColor
	Phase       Phase
	Outcome     Outcome
	HasPending  bool
	Pending     Position
	HasLastMove bool
	LastMove    Move
	LastAIMove  string
	LastMessage string
	WinningLine []Position
}

func NewGameState() GameState {
	return GameState{
		Board:  NewBoard(),
		ToMove: PlayerWhite,
		Phase:  PhasePlace,
	}
}

// TapCell stages a placement on an empty cell. Tapping again before
// proceeding simply restages on the new cell.
func (s GameState) TapCell(pos Position) (GameState, error) {
	if s.Phase == PhaseGameOver {
		return s, ErrGameOver
	}
	if s.Phase != PhasePlace {
		return s, ErrWrongPhase
	}
	if !s.Board.IsEmpty(pos.X, pos.Y) {
		return s, ErrInvalidCell
	}
	s.HasPending = true
	s.Pending = pos
	return s, nil
}

// Proceed locks the staged placement in and moves on to quadrant selection.
func (s GameState) Proceed() (GameState, error) {
	if s.Phase == PhaseGameOver {
		return s, ErrGameOver
	}
	if s.Phase != PhasePlace {
		return s, ErrWrongPhase
	}
	if !s.HasPending {
		return s, ErrNoPendingMove
	}
	s.Phase = PhaseRotate
	return s, nil
}

// Cancel backs out one step: from Rotate back to Place with the staged
// placement kept, or from Place by dropping the staged placement.
func (s GameState) Cancel() (GameState, error) {
	if s.Phase == PhaseGameOver {
		return s, ErrGameOver
	}
	if s.Phase == PhaseRotate {
		s.Phase = PhasePlace
		return s, nil
	}
	if !s.HasPending {
		return s, ErrNoPendingMove
	}
	s.HasPending = false
	s.Pending = Position{}
	return s, nil
}

// ConfirmRotation commits the staged placement together with the chosen
// rotation. This is the only transition that changes the board.
func (s GameState) ConfirmRotation(quadrant Quadrant, dir RotationDirection) (GameState, error) {
	if s.Phase == PhaseGameOver {
		return s, ErrGameOver
	}
	if s.Phase != PhaseRotate {
		return s, ErrWrongPhase
	}
	if !s.HasPending {
		return s, ErrNoPendingMove
	}
	return s.commitMove(Move{Pos: s.Pending, Quadrant: quadrant, Dir: dir})
}

// commitMove applies a full turn for the player to move: place, rotate,
// evaluate, then either flip the turn or end the game. Shared by human
// confirmation and AI moves.
func (s GameState) commitMove(move Move) (GameState, error) {
	board, outcome, err := ApplyMove(s.Board, s.ToMove, move.Pos, move.Quadrant, move.Dir)
	if err != nil {
		return s, err
	}
	s.Board = board
	s.Outcome = outcome
	s.HasPending = false
	s.Pending = Position{}
	s.HasLastMove = true
	s.LastMove = move
	if outcome != OutcomeOngoing {
		s.Phase = PhaseGameOver
		s.WinningLine = winningLineFor(board, outcome)
		return s, nil
	}
	s.ToMove = otherPlayer(s.ToMove)
	s.Phase = PhasePlace
	return s, nil
}

func winningLineFor(board Board, outcome Outcome) []Position {
	switch outcome {
	case OutcomeWhiteWins:
		line, _ := FindAlignmentLine(board, CellWhite)
		return line
	case OutcomeBlackWins:
		line, _ := FindAlignmentLine(board, CellBlack)
		return line
	}
	return nil
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerWhite {
		return PlayerBlack
	}
	return PlayerWhite
}

func (p PlayerColor) String() string {
	if p == PlayerWhite {
		return "White"
	}
	return "Black"
}

func (p Phase) String() string {
	switch p {
	case PhasePlace:
		return "place"
	case PhaseRotate:
		return "rotate"
	default:
		return "game_over"
	}
}
