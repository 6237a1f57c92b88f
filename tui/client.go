package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Wire types mirroring the backend's JSON payloads.
type gameStatus struct {
	GameID      string         `json:"game_id"`
	Settings    gameSettings   `json:"settings"`
	Board       [][]int        `json:"board"`
	NextPlayer  int            `json:"next_player"`
	Phase       string         `json:"phase"`
	Outcome     string         `json:"outcome"`
	Winner      int            `json:"winner"`
	AiThinking  bool           `json:"ai_thinking"`
	Pending     *cellRef       `json:"pending,omitempty"`
	LastMove    *lastMove      `json:"last_move,omitempty"`
	LastAiMove  string         `json:"last_ai_move,omitempty"`
	Message     string         `json:"message,omitempty"`
	WinningLine []cellRef      `json:"winning_line,omitempty"`
	History     []historyEntry `json:"history"`
}

type gameSettings struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
}

type cellRef struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type lastMove struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Quadrant  int    `json:"quadrant"`
	Direction string `json:"direction"`
}

type historyEntry struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Quadrant  int     `json:"quadrant"`
	Direction string  `json:"direction"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
}

type previewResult struct {
	Board     [][]int `json:"board"`
	Quadrant  int     `json:"quadrant"`
	Direction string  `json:"direction"`
	Outcome   string  `json:"outcome"`
}

type wsEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) Ping() error {
	var payload map[string]bool
	return c.getJSON("/api/ping", &payload)
}

func (c *apiClient) Status() (gameStatus, error) {
	var status gameStatus
	err := c.getJSON("/api/status", &status)
	return status, err
}

func (c *apiClient) StartGame(mode string, humanPlayer int) (gameStatus, error) {
	payload := map[string]any{
		"settings": map[string]any{
			"mode":         mode,
			"human_player": humanPlayer,
		},
	}
	var status gameStatus
	err := c.postJSON("/api/start", payload, &status)
	return status, err
}

func (c *apiClient) StopGame() (gameStatus, error) {
	var status gameStatus
	err := c.postJSON("/api/stop", map[string]any{}, &status)
	return status, err
}

func (c *apiClient) Tap(x, y int) (gameStatus, error) {
	var status gameStatus
	err := c.postJSON("/api/tap", map[string]int{"x": x, "y": y}, &status)
	return status, err
}

func (c *apiClient) Proceed() (gameStatus, error) {
	var status gameStatus
	err := c.postJSON("/api/proceed", map[string]any{}, &status)
	return status, err
}

func (c *apiClient) Cancel() (gameStatus, error) {
	var status gameStatus
	err := c.postJSON("/api/cancel", map[string]any{}, &status)
	return status, err
}

func (c *apiClient) Confirm(quadrant int, direction string) (gameStatus, error) {
	payload := map[string]any{"quadrant": quadrant, "direction": direction}
	var status gameStatus
	err := c.postJSON("/api/confirm", payload, &status)
	return status, err
}

func (c *apiClient) Preview(quadrant int, direction string) (previewResult, error) {
	payload := map[string]any{"quadrant": quadrant, "direction": direction}
	var preview previewResult
	err := c.postJSON("/api/preview", payload, &preview)
	return preview, err
}

// Listen dials the backend websocket and hands every status push to onStatus.
// Reset and settings events carry partial payloads, so the listener answers
// them by asking for a full status instead. Returns when the connection drops
// or done is closed.
func (c *apiClient) Listen(done <-chan struct{}, onStatus func(gameStatus)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	go func() {
		<-done
		conn.Close()
	}()
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
				return nil
			default:
				return err
			}
		}
		var msg wsEnvelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "status":
			var status gameStatus
			if err := json.Unmarshal(msg.Payload, &status); err != nil {
				continue
			}
			onStatus(status)
		case "reset", "settings":
			if err := conn.WriteJSON(wsEnvelope{Type: "request_status"}); err != nil {
				return err
			}
		}
	}
}

func (c *apiClient) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError surfaces the backend's error field when there is one, so rejection
// reasons read as written by the server.
func apiError(resp *http.Response, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s", payload.Error)
	}
	return fmt.Errorf("%s -> %d: %s", path, resp.StatusCode, string(raw))
}
