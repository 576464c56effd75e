package test

import (
	"testing"
	"time"

	"github.com/studytrack/studytrack/internal/websocket"
)

func TestManagerRegisterClient(t *testing.T) {
	manager := websocket.NewManager()
	go manager.Run()

	manager.BroadcastMessage([]byte("test"))

	time.Sleep(50 * time.Millisecond)

	users := manager.GetActiveUsers()
	if len(users) != 0 {
		t.Errorf("Expected 0 users before registration, got %d", len(users))
	}
}

func TestManagerGetClient(t *testing.T) {
	manager := websocket.NewManager()
	go manager.Run()

	users := manager.GetActiveUsers()
	if len(users) != 0 {
		t.Errorf("Expected 0 active users, got %d", len(users))
	}

	_, found := manager.GetClient("non-existent-user")
	if found {
		t.Error("Expected to not find non-existent user")
	}
}

func TestManagerBroadcast(t *testing.T) {
	manager := websocket.NewManager()
	go manager.Run()

	testMsg := []byte("test message")
	manager.BroadcastMessage(testMsg)

	time.Sleep(50 * time.Millisecond)
}

func TestManagerSendToUser(t *testing.T) {
	manager := websocket.NewManager()
	go manager.Run()

	sent := manager.SendToUser("non-existent-user", []byte("test"))
	if sent {
		t.Error("Expected send to fail for non-existent user")
	}
}

func TestClientUpdateActivity(t *testing.T) {
	client := &websocket.Client{
		ID:         "test-user-1",
		Username:   "testuser",
		Send:       make(chan []byte, 256),
		LastActive: time.Now().Add(-1 * time.Hour),
	}

	oldTime := client.GetLastActive()
	time.Sleep(10 * time.Millisecond)
	client.UpdateActivity()
	newTime := client.GetLastActive()

	if !newTime.After(oldTime) {
		t.Error("Expected LastActive to be updated")
	}
}

func TestManagerClientCount(t *testing.T) {
	manager := websocket.NewManager()
	go manager.Run()

	if count := manager.GetClientCount(); count != 0 {
		t.Errorf("Expected 0 clients, got %d", count)
	}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

// A client whose send queue is full gets dropped during a broadcast while
// the others keep receiving.
func TestBroadcastDropsStalledClient(t *testing.T) {
	manager := websocket.NewManager()
	go manager.Run()

	stalled := &websocket.Client{ID: "stalled", Send: make(chan []byte)}
	healthy := &websocket.Client{ID: "healthy", Send: make(chan []byte, 4)}
	manager.Register(stalled)
	manager.Register(healthy)

	waitFor(t, func() bool { return manager.GetClientCount() == 2 }, "clients never registered")

	manager.BroadcastMessage([]byte("hello"))

	waitFor(t, func() bool { return manager.GetClientCount() == 1 }, "stalled client was not dropped")

	if _, ok := manager.GetClient("healthy"); !ok {
		t.Error("Healthy client should survive the broadcast")
	}
	if _, ok := manager.GetClient("stalled"); ok {
		t.Error("Stalled client should have been dropped")
	}

	select {
	case msg := <-healthy.Send:
		if string(msg) != "hello" {
			t.Errorf("Unexpected broadcast payload: %s", msg)
		}
	case <-time.After(time.Second):
		t.Error("Healthy client never received the broadcast")
	}
}
