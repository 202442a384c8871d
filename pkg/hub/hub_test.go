package hub

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessage_Wrappers(t *testing.T) {
	txt := Text([]byte("@@%%.."))
	if txt.Kind != TextKind {
		t.Errorf("text kind: got %v", txt.Kind)
	}

	bin := Binary([]byte{0xff, 0xd8})
	if bin.Kind != BinaryKind {
		t.Errorf("binary kind: got %v", bin.Kind)
	}
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	h := New("test")
	go h.Run()

	// No subscribers: broadcasts are absorbed, never block
	for i := 0; i < 300; i++ {
		h.BroadcastText([]byte("frame"))
	}

	if got := h.ClientCount(); got != 0 {
		t.Errorf("client count: got %d, want 0", got)
	}
}

func TestHub_StopEndsRun(t *testing.T) {
	h := New("test")

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()
	h.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestHub_BroadcastJSON(t *testing.T) {
	h := New("status")

	payload := map[string]string{"state": "running"}
	if err := h.BroadcastJSON(payload); err != nil {
		t.Fatalf("broadcast json: %v", err)
	}

	// Unencodable values surface an error instead of panicking
	if err := h.BroadcastJSON(json.RawMessage("{bad")); err == nil {
		t.Error("expected error for invalid payload")
	}
}
