package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, settings GameSettings) (*httptest.Server, *GameController) {
	t.Helper()
	controller := NewGameController(settings)
	hub := NewHub()
	done := make(chan struct{})
	go hub.Run(done)
	server := httptest.NewServer(newRouter(controller, hub))
	t.Cleanup(func() {
		server.Close()
		close(done)
	})
	return server, controller
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("expected POST %s to succeed, got %v", url, err)
	}
	return resp
}

func decodeStatus(t *testing.T, resp *http.Response) StatusResponse {
	t.Helper()
	defer resp.Body.Close()
	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("expected status payload, got decode error %v", err)
	}
	return status
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("expected error payload, got decode error %v", err)
	}
	return payload["error"]
}

func TestPingEndpoint(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())
	resp, err := http.Get(server.URL + "/api/ping")
	if err != nil {
		t.Fatalf("expected ping to succeed, got %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	var payload map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("expected ping payload, got %v", err)
	}
	if !payload["ok"] {
		t.Fatalf("expected ok response, got %v", payload)
	}
}

func TestStatusEndpointInitialGame(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())
	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("expected status to succeed, got %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	status := decodeStatus(t, resp)
	if status.GameID == "" {
		t.Fatalf("expected a game id")
	}
	if status.Phase != "place" || status.Outcome != "ongoing" {
		t.Fatalf("expected fresh game, got phase %q outcome %q", status.Phase, status.Outcome)
	}
	if status.NextPlayer != 1 {
		t.Fatalf("expected white (1) to move, got %d", status.NextPlayer)
	}
	if status.Settings.Mode != "human_vs_human" {
		t.Fatalf("expected human_vs_human mode, got %q", status.Settings.Mode)
	}
	if len(status.Board) != BoardSize {
		t.Fatalf("expected %d board rows, got %d", BoardSize, len(status.Board))
	}
	for y, row := range status.Board {
		if len(row) != BoardSize {
			t.Fatalf("expected %d cells in row %d, got %d", BoardSize, y, len(row))
		}
		for x, cell := range row {
			if cell != 0 {
				t.Fatalf("expected empty cell at (%d,%d), got %d", x, y, cell)
			}
		}
	}
	if len(status.History) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(status.History))
	}
	if status.TurnStartedAtMs <= 0 {
		t.Fatalf("expected turn start timestamp, got %d", status.TurnStartedAtMs)
	}
}

func TestTapProceedConfirmFlow(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())

	resp := postJSON(t, server.URL+"/api/tap", `{"x":0,"y":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected tap accepted, got %d", resp.StatusCode)
	}
	status := decodeStatus(t, resp)
	if status.Pending == nil || status.Pending.X != 0 || status.Pending.Y != 0 {
		t.Fatalf("expected pending placement at (0,0), got %+v", status.Pending)
	}

	resp = postJSON(t, server.URL+"/api/proceed", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected proceed accepted, got %d", resp.StatusCode)
	}
	if status = decodeStatus(t, resp); status.Phase != "rotate" {
		t.Fatalf("expected rotate phase, got %q", status.Phase)
	}

	resp = postJSON(t, server.URL+"/api/confirm", `{"quadrant":3,"direction":"cw"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected confirm accepted, got %d", resp.StatusCode)
	}
	status = decodeStatus(t, resp)
	if status.Board[0][0] != 1 {
		t.Fatalf("expected white stone at (0,0), got %d", status.Board[0][0])
	}
	if status.NextPlayer != 2 {
		t.Fatalf("expected black (2) to move, got %d", status.NextPlayer)
	}
	if status.Phase != "place" {
		t.Fatalf("expected place phase for the next turn, got %q", status.Phase)
	}
	if len(status.History) != 1 {
		t.Fatalf("expected one history entry, got %d", len(status.History))
	}
	entry := status.History[0]
	if entry.X != 0 || entry.Y != 0 || entry.Quadrant != 3 || entry.Direction != "cw" || entry.Player != 1 {
		t.Fatalf("unexpected history entry %+v", entry)
	}
	if status.LastMove == nil || status.LastMove.Quadrant != 3 || status.LastMove.Direction != "cw" {
		t.Fatalf("expected last move recorded, got %+v", status.LastMove)
	}
}

func TestTapRejectedOnOccupiedCell(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())
	postJSON(t, server.URL+"/api/tap", `{"x":2,"y":2}`).Body.Close()
	postJSON(t, server.URL+"/api/proceed", `{}`).Body.Close()
	postJSON(t, server.URL+"/api/confirm", `{"quadrant":3,"direction":"cw"}`).Body.Close()

	resp := postJSON(t, server.URL+"/api/tap", `{"x":2,"y":2}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != ErrInvalidCell.Error() {
		t.Fatalf("expected %q, got %q", ErrInvalidCell.Error(), got)
	}
}

func TestConfirmRejectsUnknownDirection(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())
	postJSON(t, server.URL+"/api/tap", `{"x":0,"y":0}`).Body.Close()
	postJSON(t, server.URL+"/api/proceed", `{}`).Body.Close()

	resp := postJSON(t, server.URL+"/api/confirm", `{"quadrant":0,"direction":"sideways"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != ErrInvalidQuadrant.Error() {
		t.Fatalf("expected %q, got %q", ErrInvalidQuadrant.Error(), got)
	}
}

func TestStartSwitchesMode(t *testing.T) {
	slowAIConfig(t)
	server, _ := newTestServer(t, humanVsHuman())

	resp := postJSON(t, server.URL+"/api/start", `{"settings":{"mode":"ai_vs_ai"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected start accepted, got %d", resp.StatusCode)
	}
	status := decodeStatus(t, resp)
	if status.Settings.Mode != "ai_vs_ai" {
		t.Fatalf("expected ai_vs_ai mode, got %q", status.Settings.Mode)
	}
	if !status.AiThinking {
		t.Fatalf("expected AI move scheduled for the white seat")
	}
	if len(status.History) != 0 {
		t.Fatalf("expected fresh game, got %d history entries", len(status.History))
	}
}

func TestStopResetsGame(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())
	postJSON(t, server.URL+"/api/tap", `{"x":0,"y":0}`).Body.Close()
	postJSON(t, server.URL+"/api/proceed", `{}`).Body.Close()
	postJSON(t, server.URL+"/api/confirm", `{"quadrant":3,"direction":"cw"}`).Body.Close()

	before := decodeStatus(t, postJSON(t, server.URL+"/api/stop", `{}`))
	if before.Board[0][0] != 0 {
		t.Fatalf("expected board cleared by stop, got %d", before.Board[0][0])
	}
	if len(before.History) != 0 {
		t.Fatalf("expected history cleared by stop, got %d entries", len(before.History))
	}
}

func TestSettingsEndpointSwitchesSeats(t *testing.T) {
	slowAIConfig(t)
	server, controller := newTestServer(t, humanVsHuman())

	resp := postJSON(t, server.URL+"/api/settings", `{"settings":{"mode":"ai_vs_human","human_player":2}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected settings accepted, got %d", resp.StatusCode)
	}
	status := decodeStatus(t, resp)
	if status.Settings.Mode != "ai_vs_human" {
		t.Fatalf("expected ai_vs_human mode, got %q", status.Settings.Mode)
	}
	if status.Settings.HumanPlayer != 2 {
		t.Fatalf("expected human on black (2), got %d", status.Settings.HumanPlayer)
	}
	settings := controller.Settings()
	if settings.WhiteType != PlayerAI || settings.BlackType != PlayerHuman {
		t.Fatalf("expected AI white and human black, got %+v", settings)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())
	postJSON(t, server.URL+"/api/tap", `{"x":0,"y":0}`).Body.Close()
	postJSON(t, server.URL+"/api/proceed", `{}`).Body.Close()

	resp := postJSON(t, server.URL+"/api/preview", `{"quadrant":1,"direction":"cw"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected preview accepted, got %d", resp.StatusCode)
	}
	var preview previewPayload
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		t.Fatalf("expected preview payload, got %v", err)
	}
	resp.Body.Close()
	if preview.Board[0][0] != 1 {
		t.Fatalf("expected staged stone in preview, got %d", preview.Board[0][0])
	}
	if preview.Quadrant != 1 || preview.Direction != "cw" || preview.Outcome != "ongoing" {
		t.Fatalf("unexpected preview %+v", preview)
	}

	// The live game is still waiting for confirmation.
	statusResp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("expected status to succeed, got %v", err)
	}
	status := decodeStatus(t, statusResp)
	if status.Phase != "rotate" {
		t.Fatalf("expected rotate phase after preview, got %q", status.Phase)
	}
	if status.Board[0][0] != 0 {
		t.Fatalf("expected live board untouched by preview, got %d", status.Board[0][0])
	}
}

func TestPreviewRejectedOutsideRotatePhase(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())
	resp := postJSON(t, server.URL+"/api/preview", `{"quadrant":0,"direction":"ccw"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "no rotation to preview" {
		t.Fatalf("expected preview rejection, got %q", got)
	}
}

func TestWebSocketDeliversStatus(t *testing.T) {
	server, _ := newTestServer(t, humanVsHuman())

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("expected websocket dial to succeed, got %v", err)
	}
	defer conn.Close()

	readMessage := func() wsMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("expected websocket message, got %v", err)
		}
		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("expected well-formed message, got %v", err)
		}
		return msg
	}

	msg := readMessage()
	if msg.Type != "status" {
		t.Fatalf("expected initial status message, got %q", msg.Type)
	}
	var status StatusResponse
	if err := json.Unmarshal(msg.Payload, &status); err != nil {
		t.Fatalf("expected status payload, got %v", err)
	}
	if status.Phase != "place" {
		t.Fatalf("expected place phase, got %q", status.Phase)
	}

	// Intents arriving over HTTP are pushed to connected clients.
	postJSON(t, server.URL+"/api/tap", `{"x":1,"y":1}`).Body.Close()
	msg = readMessage()
	if msg.Type != "status" {
		t.Fatalf("expected broadcast status message, got %q", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, &status); err != nil {
		t.Fatalf("expected status payload, got %v", err)
	}
	if status.Pending == nil || status.Pending.X != 1 || status.Pending.Y != 1 {
		t.Fatalf("expected pending placement at (1,1), got %+v", status.Pending)
	}
}
