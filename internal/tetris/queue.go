package tetris

import "math/rand/v2"

// Queue deals blocks at random, never the same id twice in a row.
type Queue struct {
	rng  *rand.Rand
	next Block
}

// NewQueue creates a queue drawing from rng.
func NewQueue(rng *rand.Rand) *Queue {
	q := &Queue{rng: rng}
	q.next = q.random()
	return q
}

func (q *Queue) random() Block {
	return NewBlock(q.rng.IntN(NumBlocks) + 1)
}

// Next returns the upcoming block without taking it.
func (q *Queue) Next() Block {
	return q.next
}

// Take returns the upcoming block and draws a new, different one.
func (q *Queue) Take() Block {
	b := q.next
	for q.next.ID() == b.ID() {
		q.next = q.random()
	}
	return b
}
