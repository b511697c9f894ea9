package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/csg33k/household-census/internal/domain"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// mockClient has a send channel but no connection.
func mockClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(quiet())
	c1, c2 := mockClient(hub), mockClient(hub)

	hub.Register(c1)
	hub.Register(c2)
	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	hub.Unregister(c1) // must not panic
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub(quiet())
	c := mockClient(hub)
	hub.Register(c)

	for i := 0; i < sendBufferSize+5; i++ {
		hub.Broadcast(NewMessage("submission", "success", int64(i), nil))
	}
	if got := len(c.send); got != sendBufferSize {
		t.Errorf("buffered = %d, want %d", got, sendBufferSize)
	}
}

func TestConcurrentBroadcast(t *testing.T) {
	hub := NewHub(quiet())
	for i := 0; i < 5; i++ {
		hub.Register(mockClient(hub))
	}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(NewMessage("submission", "failed", 1, nil))
		}()
	}
	wg.Wait()
}

func TestSubmissionRecorded(t *testing.T) {
	hub := NewHub(quiet())
	c := mockClient(hub)
	hub.Register(c)

	hub.SubmissionRecorded(domain.SubmissionAttempt{
		ID:        7,
		Outcome:   domain.OutcomeRejected,
		Members:   2,
		Message:   "Block_Name is required",
		CreatedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	})

	var msg Message
	if err := json.Unmarshal(<-c.send, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "submission_rejected" || msg.ID != 7 {
		t.Errorf("msg = %+v", msg)
	}
	if msg.Extra["message"] != "Block_Name is required" || msg.Extra["members"] != float64(2) {
		t.Errorf("extra = %v", msg.Extra)
	}
}

func TestHandleWebSocket_DeliversBroadcast(t *testing.T) {
	hub := NewHub(quiet())
	srv := httptest.NewServer(HandleWebSocket(hub, quiet()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	for hub.ClientCount() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	hub.SubmissionRecorded(domain.SubmissionAttempt{ID: 1, Outcome: domain.OutcomeSuccess})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"type":"submission_success"`) {
		t.Errorf("frame = %s", data)
	}
}

func TestClose_DropsAllClients(t *testing.T) {
	hub := NewHub(quiet())
	c1, c2 := mockClient(hub), mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.Close()
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("clients = %d, want 0", got)
	}
	if _, ok := <-c1.send; ok {
		t.Error("send channel still open")
	}
	hub.Unregister(c2) // already dropped, must not panic
}

func TestHandleWebSocket_ClosesConnWhenDropped(t *testing.T) {
	hub := NewHub(quiet())
	srv := httptest.NewServer(HandleWebSocket(hub, quiet()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	for hub.ClientCount() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	hub.Close()

	if _, _, err := conn.Read(ctx); err == nil {
		t.Fatal("read succeeded after the hub dropped the client")
	}
	if ctx.Err() != nil {
		t.Fatal("connection was not closed by the server")
	}
}
