package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shuu880/slack-log-viewer/pkg/archive"
)

func TestEventHubBroadcastsReload(t *testing.T) {
	server, store := newTestServer(t, map[string]string{"general.json": sampleExport})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.hub.Run(ctx)

	store.OnReload(func(a *archive.Archive) {
		server.hub.Broadcast(Event{
			Type:      EventReload,
			Timestamp: time.Now().UTC(),
			Payload:   map[string]int{"messages": a.Len()},
		})
	})

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http://", "ws://", 1) + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// wait until the hub has picked up the registration
	deadline := time.Now().Add(2 * time.Second)
	for server.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Client never registered with the hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	store.Reload()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if event.Type != EventReload {
		t.Errorf("Expected reload event, got %q", event.Type)
	}
}

func TestEventHubPing(t *testing.T) {
	server, _ := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.hub.Run(ctx)

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http://", "ws://", 1) + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("Failed to send ping: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read pong: %v", err)
	}
	if event.Type != EventPong {
		t.Errorf("Expected pong, got %q", event.Type)
	}
}
