package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type StatusResponse struct {
	GameID          string            `json:"game_id"`
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Phase           string            `json:"phase"`
	Outcome         string            `json:"outcome"`
	Winner          int               `json:"winner"`
	AiThinking      bool              `json:"ai_thinking"`
	Pending         *Position         `json:"pending,omitempty"`
	LastMove        *moveDTO          `json:"last_move,omitempty"`
	LastAiMove      string            `json:"last_ai_move,omitempty"`
	Message         string            `json:"message,omitempty"`
	WinningLine     []Position        `json:"winning_line,omitempty"`
	History         []historyEntryDTO `json:"history"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
}

type moveDTO struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Quadrant  int    `json:"quadrant"`
	Direction string `json:"direction"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Quadrant  int     `json:"quadrant"`
	Direction string  `json:"direction"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
}

type tapRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type rotationRequest struct {
	Quadrant  int    `json:"quadrant"`
	Direction string `json:"direction"`
}

type resetPayload struct {
	GameID          string          `json:"game_id"`
	Settings        GameSettingsDTO `json:"settings"`
	Board           [][]int         `json:"board"`
	NextPlayer      int             `json:"next_player"`
	Phase           string          `json:"phase"`
	Outcome         string          `json:"outcome"`
	TurnStartedAtMs int64           `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type previewPayload struct {
	Board     [][]int `json:"board"`
	Quadrant  int     `json:"quadrant"`
	Direction string  `json:"direction"`
	Outcome   string  `json:"outcome"`
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "config file (default: search xdg config dirs)")
	flag.Parse()

	LoadConfigFile(*configPath)
	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Deferred AI moves land outside any request, so the controller pushes
	// fresh status through the hub itself.
	controller.SetStatusPublisher(func() {
		if !hub.HasClients() {
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
	})

	go hub.Run(ctx.Done())

	server := &http.Server{
		Addr:    *addr,
		Handler: newRouter(controller, hub),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Printf("[backend] listening on %s", *addr)
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}
	cancel()
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

func newRouter(controller *GameController, hub *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		controller.Reset()
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
			controller.ResetForConfigChange()
			if err := SaveConfigFile(); err != nil {
				log.Printf("[backend] config save failed: %v", err)
			}
		}
		if payload.Settings != nil {
			settings := settingsFromDTO(*payload.Settings, controller.Settings())
			controller.UpdateSettings(settings, false)
		}
		hub.broadcastSettings <- settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/tap", func(w http.ResponseWriter, r *http.Request) {
		var payload tapRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.Tap(Position{X: payload.X, Y: payload.Y})
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/proceed", func(w http.ResponseWriter, r *http.Request) {
		applied, errMsg := controller.Proceed()
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/cancel", func(w http.ResponseWriter, r *http.Request) {
		applied, errMsg := controller.Cancel()
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/confirm", func(w http.ResponseWriter, r *http.Request) {
		var payload rotationRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		dir, ok := directionFromString(payload.Direction)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidQuadrant.Error()})
			return
		}
		applied, errMsg := controller.Confirm(Quadrant(payload.Quadrant), dir)
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/preview", func(w http.ResponseWriter, r *http.Request) {
		var payload rotationRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		dir, ok := directionFromString(payload.Direction)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidQuadrant.Error()})
			return
		}
		board, outcome, ok := controller.Preview(Quadrant(payload.Quadrant), dir)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no rotation to preview"})
			return
		}
		preview := previewPayload{
			Board:     boardToSlice(board),
			Quadrant:  payload.Quadrant,
			Direction: directionToString(dir),
			Outcome:   outcomeToString(outcome),
		}
		hub.broadcastPreview <- preview
		writeJSON(w, http.StatusOK, preview)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	return r
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := client.writePump(conn); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	status := StatusResponse{
		GameID:          controller.SessionID(),
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove),
		Phase:           state.Phase.String(),
		Outcome:         outcomeToString(state.Outcome),
		Winner:          winnerFromOutcome(state.Outcome),
		AiThinking:      controller.AiThinking(),
		LastAiMove:      state.LastAIMove,
		Message:         state.LastMessage,
		WinningLine:     append([]Position(nil), state.WinningLine...),
		History:         historyToDTO(controller.History()),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
	if state.HasPending {
		pending := state.Pending
		status.Pending = &pending
	}
	if state.HasLastMove {
		status.LastMove = &moveDTO{
			X:         state.LastMove.Pos.X,
			Y:         state.LastMove.Pos.Y,
			Quadrant:  int(state.LastMove.Quadrant),
			Direction: directionToString(state.LastMove.Dir),
		}
	}
	return status
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		GameID:          controller.SessionID(),
		Settings:        controllerSettingsDTO(controller.Settings()),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove),
		Phase:           state.Phase.String(),
		Outcome:         outcomeToString(state.Outcome),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.WhiteType = PlayerAI
		settings.BlackType = PlayerAI
	case "human_vs_human":
		settings.WhiteType = PlayerHuman
		settings.BlackType = PlayerHuman
	case "ai_vs_human":
		if intToPlayer(dto.HumanPlayer) == PlayerBlack {
			settings.WhiteType = PlayerAI
			settings.BlackType = PlayerHuman
		} else {
			settings.WhiteType = PlayerHuman
			settings.BlackType = PlayerAI
		}
	}
	return settings
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.WhiteType == PlayerAI && settings.BlackType == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.WhiteType == PlayerHuman && settings.BlackType == PlayerHuman {
		mode = "human_vs_human"
	}
	humanPlayer := 0
	if settings.WhiteType == PlayerHuman && settings.BlackType != PlayerHuman {
		humanPlayer = 1
	} else if settings.BlackType == PlayerHuman && settings.WhiteType != PlayerHuman {
		humanPlayer = 2
	} else if settings.WhiteType == PlayerHuman && settings.BlackType == PlayerHuman {
		humanPlayer = 1
	}
	return GameSettingsDTO{Mode: mode, HumanPlayer: humanPlayer}
}

func boardToSlice(board Board) [][]int {
	rows := make([][]int, BoardSize)
	for y := 0; y < BoardSize; y++ {
		rows[y] = make([]int, BoardSize)
		for x := 0; x < BoardSize; x++ {
			rows[y][x] = cellToInt(board.At(x, y))
		}
	}
	return rows
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellWhite:
		return 1
	case CellBlack:
		return 2
	default:
		return 0
	}
}

func playerToInt(player PlayerColor) int {
	if player == PlayerWhite {
		return 1
	}
	return 2
}

func intToPlayer(value int) PlayerColor {
	if value == 2 {
		return PlayerBlack
	}
	return PlayerWhite
}

func winnerFromOutcome(outcome Outcome) int {
	switch outcome {
	case OutcomeWhiteWins:
		return 1
	case OutcomeBlackWins:
		return 2
	default:
		return 0
	}
}

func outcomeToString(outcome Outcome) string {
	switch outcome {
	case OutcomeWhiteWins:
		return "white_won"
	case OutcomeBlackWins:
		return "black_won"
	case OutcomeDraw:
		return "draw"
	default:
		return "ongoing"
	}
}

func directionToString(dir RotationDirection) string {
	if dir == RotateClockwise {
		return "cw"
	}
	return "ccw"
}

func directionFromString(value string) (RotationDirection, bool) {
	switch value {
	case "cw":
		return RotateClockwise, true
	case "ccw":
		return RotateCounterClockwise, true
	}
	return RotateClockwise, false
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.Pos.X,
		Y:         entry.Move.Pos.Y,
		Quadrant:  int(entry.Move.Quadrant),
		Direction: directionToString(entry.Move.Dir),
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
