package paxos

import (
	"sync"

	"github.com/halvorsen-oss/quorum-paxos/internal/logging"
)

// Learner records the first decision it is told about and exposes it
// to callers either by polling (Decided) or by a one-shot callback
// (OnDecided). It never participates in deciding which value wins —
// that quorum computation lives in Proposer — it only remembers the
// outcome once a Learn message announces it.
type Learner struct {
	mu sync.Mutex

	id     NodeID
	logger logging.Logger

	decided        bool
	proposalNumber ProposalNumber
	value          []byte

	callbacks []func([]byte)
}

// NewLearner builds a Learner for id. A nil logger is replaced with a
// no-op sink.
func NewLearner(id NodeID, logger logging.Logger) *Learner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Learner{id: id, logger: logger}
}

// HandleLearn records msg as the decision. It is idempotent: a repeat
// Learn carrying the same proposal number and value is a silent no-op.
// A Learn that disagrees with an already-recorded decision is never
// allowed to overwrite it — this would mean two different values were
// each accepted by a majority, which the protocol guarantees cannot
// happen — so it is only logged, as the safety-violation alarm it
// would be.
func (l *Learner) HandleLearn(msg Learn) {
	l.mu.Lock()
	var fire []func([]byte)
	var value []byte
	func() {
		defer l.mu.Unlock()
		if l.decided {
			if !msg.ProposalNumber.Equal(l.proposalNumber) || string(msg.Value) != string(l.value) {
				l.logger.Warnw("learner saw conflicting Learn after deciding",
					"learner", l.id, "have", l.proposalNumber, "got", msg.ProposalNumber)
			}
			return
		}
		l.decided = true
		l.proposalNumber = msg.ProposalNumber
		l.value = copyBytes(msg.Value)
		l.logger.Infow("learner decided", "learner", l.id, "proposal", msg.ProposalNumber)

		fire = l.callbacks
		l.callbacks = nil
		value = copyBytes(l.value)
	}()

	for _, cb := range fire {
		cb(value)
	}
}

// Decided reports the decided value and whether one has been recorded
// yet.
func (l *Learner) Decided() ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.decided {
		return nil, false
	}
	return copyBytes(l.value), true
}

// OnDecided registers cb to run exactly once, the moment a decision is
// recorded. If a decision already exists, cb runs immediately (on the
// caller's goroutine) instead of being queued.
func (l *Learner) OnDecided(cb func([]byte)) {
	l.mu.Lock()
	if l.decided {
		value := copyBytes(l.value)
		l.mu.Unlock()
		cb(value)
		return
	}
	l.callbacks = append(l.callbacks, cb)
	l.mu.Unlock()
}

// Reset clears the decision and any pending callbacks. Used by tests.
func (l *Learner) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decided = false
	l.proposalNumber = ProposalNumber{}
	l.value = nil
	l.callbacks = nil
}
