package rtos

import "sync"

// Message is one value published on a topic.
type Message struct {
	Topic   string
	Payload any
}

// Sub is a subscriber queue. Delivery never blocks the publisher: when the
// queue is full the oldest pending message is dropped.
type Sub struct {
	topic string
	ch    chan Message
	hub   *Hub
}

func (s *Sub) C() <-chan Message { return s.ch }

// Close detaches the subscription and closes its channel.
func (s *Sub) Close() { s.hub.unsubscribe(s) }

// Hub is a flat-topic message hub with retained values, used to push
// configuration to running tasks.
type Hub struct {
	mu       sync.Mutex
	qLen     int
	subs     map[string][]*Sub
	retained map[string]Message
}

func NewHub(queueLen int) *Hub {
	if queueLen <= 0 {
		queueLen = 4
	}
	return &Hub{
		qLen:     queueLen,
		subs:     make(map[string][]*Sub),
		retained: make(map[string]Message),
	}
}

// Subscribe attaches to topic. A retained value, if any, is queued at once.
func (h *Hub) Subscribe(topic string) *Sub {
	s := &Sub{topic: topic, ch: make(chan Message, h.qLen), hub: h}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[topic] = append(h.subs[topic], s)
	if m, ok := h.retained[topic]; ok {
		s.ch <- m
	}
	return s
}

// Publish delivers payload to current subscribers. Retained payloads are
// also kept for later subscribers; a retained nil clears the slot.
func (h *Hub) Publish(topic string, payload any, retain bool) {
	m := Message{Topic: topic, Payload: payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	if retain {
		if payload == nil {
			delete(h.retained, topic)
		} else {
			h.retained[topic] = m
		}
	}
	for _, s := range h.subs[topic] {
		select {
		case s.ch <- m:
		default:
			select {
			case <-s.ch:
			default:
			}
			s.ch <- m
		}
	}
}

func (h *Hub) unsubscribe(s *Sub) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.subs[s.topic]
	for i, x := range list {
		if x == s {
			h.subs[s.topic] = append(list[:i], list[i+1:]...)
			close(s.ch)
			break
		}
	}
	if len(h.subs[s.topic]) == 0 {
		delete(h.subs, s.topic)
	}
}
