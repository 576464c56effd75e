package events_test

import (
	"sync"
	"testing"
	"time"

	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/pkg/logger"
)

type captureBroadcaster struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *captureBroadcaster) BroadcastToUser(userID string, event events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureBroadcaster) snapshot() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.Event, len(c.events))
	copy(out, c.events)
	return out
}

func newTestHub() *events.Hub {
	logger.Init(logger.ERROR, false, nil)
	return events.NewHub(logger.GetLogger())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}

func TestHubDispatchesToBroadcaster(t *testing.T) {
	hub := newTestHub()
	hub.Start()
	defer hub.Stop()

	capture := &captureBroadcaster{}
	hub.AddBroadcaster(capture)

	hub.NotifyChapterCompleted("user-1", map[string]interface{}{
		"chapter_id": "ch-1",
		"completed":  true,
	})

	waitFor(t, func() bool { return len(capture.snapshot()) == 1 })

	got := capture.snapshot()[0]
	if got.Type != events.TypeChapterCompleted {
		t.Errorf("Expected type %s, got %s", events.TypeChapterCompleted, got.Type)
	}
	if got.UserID != "user-1" {
		t.Errorf("Expected user-1, got %s", got.UserID)
	}
	if got.ID == "" {
		t.Error("Expected a generated event ID")
	}
	if got.Data["chapter_id"] != "ch-1" {
		t.Errorf("Unexpected event data: %v", got.Data)
	}
}

func TestHubMultipleBroadcasters(t *testing.T) {
	hub := newTestHub()
	hub.Start()
	defer hub.Stop()

	first := &captureBroadcaster{}
	second := &captureBroadcaster{}
	hub.AddBroadcaster(first)
	hub.AddBroadcaster(second)

	hub.NotifySubjectUpdate("user-2", map[string]interface{}{"action": "renamed"})

	waitFor(t, func() bool {
		return len(first.snapshot()) == 1 && len(second.snapshot()) == 1
	})
}

// Publishing without a running dispatcher must not block the caller even
// when the queue fills up.
func TestHubPublishNeverBlocks(t *testing.T) {
	hub := newTestHub()
	// Not started: nothing drains the channel.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.NotifyProgressUpdate("user-3", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestHubStopIsClean(t *testing.T) {
	hub := newTestHub()
	hub.Start()

	capture := &captureBroadcaster{}
	hub.AddBroadcaster(capture)
	hub.NotifyTargetSet("user-4", map[string]interface{}{"total_chapters": 12})

	waitFor(t, func() bool { return len(capture.snapshot()) == 1 })
	hub.Stop()
}
