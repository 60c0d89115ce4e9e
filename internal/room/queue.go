package room

import (
	"sync"
	"time"
)

// Ticket is a player waiting in an open match for an opponent.
type Ticket struct {
	PlayerID string
	MatchID  string
	Rating   int
	Enqueued time.Time
}

// Queue pairs waiting players first come, first served. With a positive band
// only tickets whose rating is within band of the joiner are eligible.
type Queue struct {
	mu      sync.Mutex
	band    int
	tickets []Ticket
}

func NewQueue(band int) *Queue {
	return &Queue{band: band}
}

func (q *Queue) Push(t Ticket) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tickets = append(q.tickets, t)
}

// Requeue puts a popped ticket back at the head of the queue.
func (q *Queue) Requeue(t Ticket) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tickets = append([]Ticket{t}, q.tickets...)
}

// Pop removes and returns the oldest ticket compatible with the joiner.
func (q *Queue) Pop(playerID string, rating int) (Ticket, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.tickets {
		if t.PlayerID == playerID {
			continue
		}
		if q.band > 0 && abs(t.Rating-rating) > q.band {
			continue
		}
		q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
		return t, true
	}
	return Ticket{}, false
}

// Remove drops the ticket for matchID, reporting whether one was queued.
func (q *Queue) Remove(matchID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.tickets {
		if t.MatchID == matchID {
			q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tickets)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
