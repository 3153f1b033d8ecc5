package sequencer

import (
	"fmt"
	"sync/atomic"
)

const displayPrefix = "ORD-"

// Sequencer hands out order numbers. The counter only moves forward, and only
// when a placement has been confirmed by the remote service.
type Sequencer struct {
	current atomic.Int64
}

// New seeds the counter; values below 1 are treated as 1.
func New(start int64) *Sequencer {
	s := &Sequencer{}
	s.current.Store(max(start, 1))
	return s
}

// Next returns the number the next placed order will use, without consuming it.
func (s *Sequencer) Next() int64 {
	return s.current.Load()
}

// AdvanceFrom moves the counter from seq to seq+1. It returns false when the
// counter no longer equals seq, so a number is never handed out twice.
func (s *Sequencer) AdvanceFrom(seq int64) bool {
	return s.current.CompareAndSwap(seq, seq+1)
}

// DisplayID formats seq as ORD-0001. Numbers wider than four digits are
// printed in full.
func DisplayID(seq int64) string {
	return fmt.Sprintf("%s%04d", displayPrefix, seq)
}
