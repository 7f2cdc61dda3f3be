package rtos

import (
	"testing"
	"time"
)

const topicLED = "config/led"

func expect(t *testing.T, s *Sub, want any) {
	t.Helper()
	select {
	case m := <-s.C():
		if m.Payload != want {
			t.Fatalf("payload = %v, want %v", m.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v", want)
	}
}

func expectNone(t *testing.T, s *Sub) {
	t.Helper()
	select {
	case m := <-s.C():
		t.Fatalf("unexpected message %+v", m)
	default:
	}
}

func TestHubBasicPubSub(t *testing.T) {
	h := NewHub(4)
	s := h.Subscribe(topicLED)
	other := h.Subscribe("config/heartbeat")

	h.Publish(topicLED, "on", false)
	expect(t, s, "on")
	expectNone(t, other)
}

func TestHubRetained(t *testing.T) {
	h := NewHub(2)
	h.Publish(topicLED, 500, true)

	s := h.Subscribe(topicLED)
	expect(t, s, 500)

	h.Publish(topicLED, nil, true)
	if late := h.Subscribe(topicLED); len(late.C()) != 0 {
		t.Fatal("cleared retained value still delivered")
	}
}

func TestHubDropsOldestWhenFull(t *testing.T) {
	h := NewHub(2)
	s := h.Subscribe(topicLED)
	for i := 1; i <= 3; i++ {
		h.Publish(topicLED, i, false)
	}
	expect(t, s, 2)
	expect(t, s, 3)
	expectNone(t, s)
}

func TestHubCloseStopsDelivery(t *testing.T) {
	h := NewHub(1)
	s := h.Subscribe(topicLED)
	s.Close()
	if _, ok := <-s.C(); ok {
		t.Fatal("channel still open after Close")
	}
	h.Publish(topicLED, "x", false)
	if len(h.subs) != 0 {
		t.Fatalf("subscriber table not pruned: %v", h.subs)
	}
}
