package dev

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestReloadServerBroadcast(t *testing.T) {
	rs := NewReloadServer(zerolog.Nop())
	ts := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if rs.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", rs.ClientCount())
	}

	rs.NotifyReload("pages/home.go")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	if msg.Type != ReloadTypeFull {
		t.Errorf("Type = %q, want %q", msg.Type, ReloadTypeFull)
	}
	if msg.File != "pages/home.go" {
		t.Errorf("File = %q", msg.File)
	}
}

func TestReloadServerNotifyError(t *testing.T) {
	rs := NewReloadServer(zerolog.Nop())
	ts := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	rs.NotifyError("render failed")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != ReloadTypeError || msg.Error != "render failed" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestReloadServerDropsDeadClients(t *testing.T) {
	rs := NewReloadServer(zerolog.Nop())
	ts := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if rs.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", rs.ClientCount())
	}

	conn.Close()

	// Broadcasting against the dead connection must not leave it in the
	// client set.
	deadline = time.Now().Add(2 * time.Second)
	for rs.ClientCount() != 0 && time.Now().Before(deadline) {
		rs.NotifyReload("pages/home.go")
		time.Sleep(10 * time.Millisecond)
	}
	if rs.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d after disconnect, want 0", rs.ClientCount())
	}
}

func TestReloadServerWithoutClients(t *testing.T) {
	rs := NewReloadServer(zerolog.Nop())
	rs.NotifyReload("main.go")
	rs.NotifyError("boom")
	if rs.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", rs.ClientCount())
	}
}
