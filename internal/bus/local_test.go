package bus

import (
	"encoding/json"
	"testing"
	"time"
)

func recvOne(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case raw := <-ch:
		return raw
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestPipeDelivers(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	got := make(chan []byte, 1)
	b.OnMessage(func(data []byte) { got <- data })

	if err := a.Send(map[string]string{"hello": "world"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(recvOne(t, got), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["hello"] != "world" {
		t.Errorf("got %v", decoded)
	}
}

func TestPipeBuffersBeforeSubscription(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	// Send before the receiver registers a handler: must not be lost.
	if err := a.Send("early"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	got := make(chan []byte, 1)
	b.OnMessage(func(data []byte) { got <- data })

	var s string
	if err := json.Unmarshal(recvOne(t, got), &s); err != nil || s != "early" {
		t.Errorf("buffered message lost: %q, %v", s, err)
	}
}

func TestPipeFIFOPerDirection(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	got := make(chan []byte, 16)
	b.OnMessage(func(data []byte) { got <- data })

	for i := 0; i < 10; i++ {
		if err := a.Send(i); err != nil {
			t.Fatalf("Send(%d) failed: %v", i, err)
		}
	}

	for i := 0; i < 10; i++ {
		var n int
		if err := json.Unmarshal(recvOne(t, got), &n); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if n != i {
			t.Fatalf("out of order delivery: got %d at position %d", n, i)
		}
	}
}

func TestPipeSendAfterCloseFails(t *testing.T) {
	a, b := Pipe()
	b.Close()

	if err := a.Send("anything"); err != ErrClosed {
		t.Errorf("Send to closed peer = %v, want ErrClosed", err)
	}

	a.Close()
	if err := a.Send("anything"); err != ErrClosed {
		t.Errorf("Send from closed endpoint = %v, want ErrClosed", err)
	}
}

func TestPipeBothDirections(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	fromA := make(chan []byte, 1)
	fromB := make(chan []byte, 1)
	a.OnMessage(func(data []byte) { fromB <- data })
	b.OnMessage(func(data []byte) { fromA <- data })

	a.Send("ping")
	b.Send("pong")

	var s string
	json.Unmarshal(recvOne(t, fromA), &s)
	if s != "ping" {
		t.Errorf("a→b got %q", s)
	}
	json.Unmarshal(recvOne(t, fromB), &s)
	if s != "pong" {
		t.Errorf("b→a got %q", s)
	}
}
