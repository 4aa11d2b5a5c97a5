// Package events fans the indexer activity feed out to any number of
// subscribers, one buffered channel per subscription.
package events

import (
	"fmt"
	"sync"
)

// subBuffer gives a slow receiver room before messages start dropping. A
// websocket write can take a while and the feed must never block ingest.
const subBuffer = 100

// Events fans feed messages out to subscribed channels keyed by a unique id.
type Events struct {
	mu     sync.RWMutex
	subs   map[string]chan string
	closed bool
}

// New constructs an Events for subscribing to the activity feed.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Subscribe registers the specified id and returns the channel the feed
// will be delivered on. Subscribing the same id twice returns the same
// channel. After Shutdown a closed channel is returned.
func (evt *Events) Subscribe(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if evt.closed {
		ch := make(chan string)
		close(ch)
		return ch
	}

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, subBuffer)
	evt.subs[id] = ch
	return ch
}

// Unsubscribe removes the specified id and closes its channel.
func (evt *Events) Unsubscribe(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("subscription %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)
	return nil
}

// Send delivers a message to every subscriber that has room in its buffer.
// Subscribers that are behind miss the message rather than block the sender.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Shutdown closes every subscription and rejects new ones.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if evt.closed {
		return
	}
	evt.closed = true

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}
