package watch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gamedeck/internal/api"
)

func statusServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *api.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, api.New(server.URL, 5*time.Second)
}

func TestPollerDeliversUpdates(t *testing.T) {
	var calls atomic.Int64
	_, client := statusServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"is_online":        true,
			"is_running":       n > 1,
			"conversation_log": []any{},
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := NewPoller(client, 10*time.Millisecond)
	updates := poller.Run(ctx)

	first := <-updates
	if first.Err != nil {
		t.Fatalf("first poll: %v", first.Err)
	}
	if first.Status.IsRunning {
		t.Fatal("first poll should report not running")
	}

	second := <-updates
	if second.Err != nil {
		t.Fatalf("second poll: %v", second.Err)
	}
	if !second.Status.IsRunning {
		t.Fatal("second poll should report running")
	}
	if second.Seq <= first.Seq {
		t.Fatalf("sequence did not advance: %d then %d", first.Seq, second.Seq)
	}
}

func TestPollerDiscardsStaleResponse(t *testing.T) {
	poller := NewPoller(nil, time.Hour)

	// A newer request completing first wins; the older one is dropped.
	slow := poller.issued.Add(1)
	fast := poller.issued.Add(1)

	if !poller.apply(fast) {
		t.Fatal("newest response must apply")
	}
	if poller.apply(slow) {
		t.Fatal("stale response must be discarded")
	}
}

func TestPollerSurfacesErrors(t *testing.T) {
	_, client := statusServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent backend restarting", http.StatusBadGateway)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := NewPoller(client, 10*time.Millisecond).Run(ctx)
	update := <-updates
	if update.Err == nil {
		t.Fatal("expected an error update")
	}
	if !strings.Contains(update.Err.Error(), "agent backend restarting") {
		t.Fatalf("error lost the body: %v", update.Err)
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	_, client := statusServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"is_online": true, "is_running": false, "conversation_log": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	updates := NewPoller(client, 10*time.Millisecond).Run(ctx)
	<-updates
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("updates channel did not close after cancel")
		}
	}
}

func TestChanged(t *testing.T) {
	idle := &api.AgentStatus{IsOnline: true}
	running := &api.AgentStatus{IsOnline: true, IsRunning: true}
	oneMessage := &api.AgentStatus{
		IsOnline:        true,
		IsRunning:       true,
		ConversationLog: []json.RawMessage{json.RawMessage(`{"type":"system"}`)},
	}
	replaced := &api.AgentStatus{
		IsOnline:        true,
		IsRunning:       true,
		ConversationLog: []json.RawMessage{json.RawMessage(`{"type":"result"}`)},
	}

	cases := []struct {
		name       string
		prev, next *api.AgentStatus
		want       bool
	}{
		{"nil to status", nil, idle, true},
		{"same idle", idle, idle, false},
		{"started", idle, running, true},
		{"message appended", running, oneMessage, true},
		{"same log", oneMessage, oneMessage, false},
		{"last message rewritten", oneMessage, replaced, true},
	}
	for _, tc := range cases {
		if got := Changed(tc.prev, tc.next); got != tc.want {
			t.Fatalf("%s: Changed = %v, want %v", tc.name, got, tc.want)
		}
	}
}
