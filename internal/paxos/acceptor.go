package paxos

import (
	"sync"

	"github.com/halvorsen-oss/quorum-paxos/internal/logging"
)

// Acceptor holds the durable-within-process promise/accept state for a
// single participant. All methods are safe for concurrent use; the
// Node dispatcher may call them from more than one delivery goroutine
// at once.
type Acceptor struct {
	mu sync.Mutex

	id     NodeID
	logger logging.Logger

	promised ProposalNumber
	accepted ProposalNumber
	value    []byte
}

// NewAcceptor builds an Acceptor for id. A nil logger is replaced with
// a no-op sink.
func NewAcceptor(id NodeID, logger logging.Logger) *Acceptor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Acceptor{id: id, logger: logger}
}

// HandlePrepare implements Phase 1B. It replies with a Promise and
// true only when msg.ProposalNumber is strictly greater than anything
// already promised; otherwise it returns false and the caller must
// not send anything — per spec there is no negative reply on the
// wire, and a Prepare equal to the current promise is rejected just
// like a lower one (the strict ">", unlike AcceptRequest's ">=", is
// what makes a repeat delivery of the same Prepare idempotent).
func (a *Acceptor) HandlePrepare(msg Prepare) (Promise, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !msg.ProposalNumber.GreaterThan(a.promised) {
		a.logger.Debugw("acceptor rejecting prepare",
			"acceptor", a.id, "proposal", msg.ProposalNumber, "promised", a.promised)
		return Promise{}, false
	}

	a.promised = msg.ProposalNumber
	reply := Promise{
		ProposalNumber:   msg.ProposalNumber,
		AcceptedProposal: a.accepted,
		AcceptedValue:    copyBytes(a.value),
		Sender:           a.id,
	}
	a.logger.Debugw("acceptor promised",
		"acceptor", a.id, "proposal", msg.ProposalNumber)
	return reply, true
}

// HandleAccept implements Phase 2B. It accepts msg and replies with
// Accepted and true when msg.ProposalNumber is at least as high as
// anything promised or already accepted; otherwise it returns false
// and the caller sends nothing.
func (a *Acceptor) HandleAccept(msg AcceptRequest) (Accepted, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if msg.ProposalNumber.LessThan(a.promised) {
		a.logger.Debugw("acceptor rejecting accept",
			"acceptor", a.id, "proposal", msg.ProposalNumber, "promised", a.promised)
		return Accepted{}, false
	}

	a.promised = msg.ProposalNumber
	a.accepted = msg.ProposalNumber
	a.value = copyBytes(msg.Value)

	reply := Accepted{
		ProposalNumber: msg.ProposalNumber,
		Value:          copyBytes(a.value),
		Sender:         a.id,
	}
	a.logger.Debugw("acceptor accepted",
		"acceptor", a.id, "proposal", msg.ProposalNumber)
	return reply, true
}

// State returns the acceptor's current (promised, accepted, value)
// tuple, copying the value slice so callers cannot mutate internal
// state. Intended for tests and diagnostics.
func (a *Acceptor) State() (promised, accepted ProposalNumber, value []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.promised, a.accepted, copyBytes(a.value)
}

// Reset clears all promise/accept state. Per spec this state is reset
// only on an explicit test reset, never as part of normal protocol
// operation or a simulated crash.
func (a *Acceptor) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.promised = ProposalNumber{}
	a.accepted = ProposalNumber{}
	a.value = nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
