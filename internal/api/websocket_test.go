package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pgmkit/xdslconv/internal/events"
)

// waitFor polls until the condition is true or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	return conn
}

func TestWebSocketReceivesRecentEvents(t *testing.T) {
	events.Clear()
	events.Emit("info", "conversion.completed", "", map[string]interface{}{"filename": "net.xdsl"})

	srv := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read recent event: %v", err)
	}

	var e events.Event
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if e.Name != "conversion.completed" {
		t.Errorf("expected conversion.completed, got %s", e.Name)
	}
}

func TestWebSocketReceivesLiveEvents(t *testing.T) {
	events.Clear()

	srv := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	if !waitFor(t, 2*time.Second, func() bool { return events.SubscriberCount() == 1 }) {
		t.Fatal("subscriber never registered")
	}

	events.Emit("info", "conversion.started", "", map[string]interface{}{"filename": "live.xdsl"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read live event: %v", err)
	}

	var e events.Event
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if e.Name != "conversion.started" {
		t.Errorf("expected conversion.started, got %s", e.Name)
	}
}

func TestWebSocketUnsubscribesOnClose(t *testing.T) {
	events.Clear()

	srv := httptest.NewServer(http.HandlerFunc(wsEventsHandler))
	defer srv.Close()

	conn := dialWS(t, srv)
	if !waitFor(t, 2*time.Second, func() bool { return events.SubscriberCount() == 1 }) {
		t.Fatal("subscriber never registered")
	}

	conn.Close()

	if !waitFor(t, 2*time.Second, func() bool { return events.SubscriberCount() == 0 }) {
		t.Error("subscriber not removed after connection close")
	}
}
