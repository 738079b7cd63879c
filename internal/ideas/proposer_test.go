package ideas

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"gamedeck/internal/api"
	"gamedeck/internal/llm"
)

type fakeBacklog struct {
	mu        sync.Mutex
	status    api.QueueStatus
	statusErr error
	created   []api.IdeaRequest
	createErr error
}

func (f *fakeBacklog) QueueStatus(ctx context.Context) (api.QueueStatus, error) {
	return f.status, f.statusErr
}

func (f *fakeBacklog) CreateIdea(ctx context.Context, req api.IdeaRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, req)
	return nil
}

func (f *fakeBacklog) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func TestProposeOneFromModel(t *testing.T) {
	proposer := New(&fakeBacklog{}, llm.NewMockClient(), "test-model", zap.NewNop())

	prompt, err := proposer.ProposeOne(context.Background())
	if err != nil {
		t.Fatalf("ProposeOne: %v", err)
	}
	if !strings.Contains(prompt, "game") {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
}

func TestProposeOneFallbackWithoutModel(t *testing.T) {
	proposer := New(&fakeBacklog{}, nil, "", zap.NewNop())

	prompt, err := proposer.ProposeOne(context.Background())
	if err != nil {
		t.Fatalf("ProposeOne: %v", err)
	}
	found := false
	for _, idea := range fallbackIdeas {
		if prompt == idea {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("prompt not from fallback list: %q", prompt)
	}
}

func TestSubmitEnqueues(t *testing.T) {
	backlog := &fakeBacklog{}
	proposer := New(backlog, llm.NewMockClient(), "test-model", zap.NewNop())

	prompt, err := proposer.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(backlog.created) != 1 {
		t.Fatalf("expected one enqueue, got %d", len(backlog.created))
	}
	if backlog.created[0].Prompt != prompt {
		t.Fatalf("enqueued %q, proposed %q", backlog.created[0].Prompt, prompt)
	}
}

func TestSubmitReportsEnqueueFailure(t *testing.T) {
	backlog := &fakeBacklog{createErr: fmt.Errorf("queue unavailable")}
	proposer := New(backlog, llm.NewMockClient(), "test-model", zap.NewNop())

	if _, err := proposer.Submit(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestBackoff(t *testing.T) {
	cases := []struct {
		name   string
		status api.QueueStatus
		want   time.Duration
	}{
		{"empty", api.QueueStatus{Size: 0, MaxSize: 50}, 0},
		{"under half", api.QueueStatus{Size: 24, MaxSize: 50}, 0},
		{"at half", api.QueueStatus{Size: 25, MaxSize: 50}, 2 * time.Second},
		{"at eighty", api.QueueStatus{Size: 40, MaxSize: 50}, 10 * time.Second},
		{"nearly full", api.QueueStatus{Size: 49, MaxSize: 50}, 10 * time.Second},
		{"unknown capacity", api.QueueStatus{Size: 10, MaxSize: 0}, 0},
	}
	for _, tc := range cases {
		if got := Backoff(tc.status); got != tc.want {
			t.Fatalf("%s: Backoff = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRunStopsWhenCanceled(t *testing.T) {
	backlog := &fakeBacklog{status: api.QueueStatus{IsFull: true, Size: 50, MaxSize: 50}}
	proposer := New(backlog, nil, "", zap.NewNop())

	slept := make(chan time.Duration, 1)
	proposer.sleep = func(ctx context.Context, d time.Duration) error {
		select {
		case slept <- d:
		default:
		}
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- proposer.Run(ctx) }()

	if d := <-slept; d != 30*time.Second {
		t.Fatalf("full queue should pause 30s, paused %v", d)
	}
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a cancellation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if backlog.createdCount() != 0 {
		t.Fatal("full queue must not receive proposals")
	}
}

func TestRunProposesWhenQueueHasRoom(t *testing.T) {
	backlog := &fakeBacklog{status: api.QueueStatus{Size: 1, MaxSize: 50}}
	proposer := New(backlog, llm.NewMockClient(), "test-model", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	proposer.sleep = func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() { done <- proposer.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for backlog.createdCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("no proposal submitted")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	<-done
}
