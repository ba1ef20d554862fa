package player

import (
	"github.com/gammazero/deque"

	"go.minekube.com/tabgate/pkg/edition/java/canonical"
)

// pendingQueue holds canonical packets sent before the client joined the game.
// A client that has not received its JoinGame packet yet would discard
// scoreboard packets, so they are queued and released after the join.
type pendingQueue struct {
	queue deque.Deque[canonical.Packet]
	max   int
}

func newPendingQueue(max int) *pendingQueue {
	return &pendingQueue{max: max}
}

// Queue returns false if the queue is full.
func (q *pendingQueue) Queue(p canonical.Packet) bool {
	if q.queue.Len() >= q.max {
		return false
	}
	q.queue.PushBack(p)
	return true
}

// Len returns the number of queued packets.
func (q *pendingQueue) Len() int { return q.queue.Len() }

// Release pops all queued packets in order and passes them to sink.
func (q *pendingQueue) Release(sink func(canonical.Packet)) {
	for q.queue.Len() > 0 {
		sink(q.queue.PopFront())
	}
}
