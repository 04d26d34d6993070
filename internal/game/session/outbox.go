// Package session holds a match: the shared content and rules, every
// player's inventory and slot set, and the net command loop that keeps the
// slot sets of all peers in agreement.
package session

import (
	"fmt"
	"sync"
)

// DefaultOutboxSize is the number of packets an outbox holds between tics.
const DefaultOutboxSize = 64

// Outbox queues a player's outgoing net command packets until the next tic.
type Outbox struct {
	player  int
	packets chan []byte
	mu      sync.Mutex
	closed  bool
}

// NewOutbox creates an Outbox for the given player number.
//
// Postcondition: Returns an open Outbox; bufferSize <= 0 uses DefaultOutboxSize.
func NewOutbox(player, bufferSize int) *Outbox {
	if bufferSize <= 0 {
		bufferSize = DefaultOutboxSize
	}
	return &Outbox{
		player:  player,
		packets: make(chan []byte, bufferSize),
	}
}

// Player returns the number of the player the outbox belongs to.
func (o *Outbox) Player() int {
	return o.player
}

// Push enqueues one packet.
//
// Postcondition: the packet is queued, or an error if the outbox is closed or full.
func (o *Outbox) Push(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("outbox of player %d is closed", o.player)
	}
	select {
	case o.packets <- data:
		return nil
	default:
		return fmt.Errorf("outbox of player %d is full", o.player)
	}
}

// Drain removes and returns every queued packet in push order.
func (o *Outbox) Drain() [][]byte {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out [][]byte
	for {
		select {
		case p, ok := <-o.packets:
			if !ok {
				return out
			}
			out = append(out, p)
		default:
			return out
		}
	}
}

// Len returns the number of queued packets.
func (o *Outbox) Len() int {
	return len(o.packets)
}

// Close marks the outbox as closed. Queued packets can still be drained.
//
// Postcondition: Further Push calls return an error.
func (o *Outbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.packets)
	}
	return nil
}

// IsClosed reports whether the outbox has been closed.
func (o *Outbox) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
