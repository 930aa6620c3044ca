package paxos

import (
	"sync"

	"github.com/halvorsen-oss/quorum-paxos/internal/logging"
)

// Sender is the outbound half of a transport, as seen by a Proposer.
// A concrete transport.Transport satisfies this without an adapter —
// Go allows a wider interface value to be used wherever this narrower
// one is expected.
type Sender interface {
	Send(to NodeID, msg Message) bool
	Broadcast(msg Message) int
}

// Phase is where a Proposer's current proposal stands.
type Phase int

const (
	Idle Phase = iota
	Preparing
	Accepting
	Decided
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Preparing:
		return "preparing"
	case Accepting:
		return "accepting"
	case Decided:
		return "decided"
	default:
		return "unknown"
	}
}

// Proposer drives Phase 1 and Phase 2 of the protocol. Unlike a
// blocking implementation that loops inside Propose until a decision
// is reached, this one returns from Propose immediately and advances
// only in reaction to HandlePromise/HandleAccepted callbacks fired by
// the node dispatcher as replies arrive — satisfying the requirement
// that a handler never wait on a future of its own outbound reply.
type Proposer struct {
	mu sync.Mutex

	id      NodeID
	peers   []NodeID
	sender  Sender
	learner *Learner
	logger  logging.Logger

	counter uint64 // monotonic; survives Reset

	phase   Phase
	current ProposalNumber
	value   []byte

	promises map[NodeID]Promise
	accepts  map[NodeID]NodeID // set of senders, keyed by themselves
}

// NewProposer builds a Proposer for id, proposing over peers (the full
// cluster membership including id), sending through sender and
// informing learner of any decision it reaches on its own behalf.
func NewProposer(id NodeID, peers []NodeID, sender Sender, learner *Learner, logger logging.Logger) *Proposer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Proposer{
		id:      id,
		peers:   peers,
		sender:  sender,
		learner: learner,
		logger:  logger,
	}
}

// Propose starts a new round proposing value. It returns ErrBusy if a
// round is already in flight, or ErrAlreadyDecided if this proposer's
// own learner already holds a decision. On success it broadcasts
// Prepare and returns nil immediately; the round completes later via
// HandlePromise/HandleAccepted.
func (p *Proposer) Propose(value []byte) error {
	if p.learner != nil {
		if _, ok := p.learner.Decided(); ok {
			return ErrAlreadyDecided
		}
	}

	p.mu.Lock()
	if p.phase != Idle {
		p.mu.Unlock()
		return ErrBusy
	}

	p.counter++
	number := Fresh(p.counter, p.id)
	p.phase = Preparing
	p.current = number
	p.value = copyBytes(value)
	p.promises = make(map[NodeID]Promise)
	p.accepts = make(map[NodeID]NodeID)
	p.mu.Unlock()

	p.logger.Infow("proposer starting round", "proposer", p.id, "proposal", number)
	p.sender.Broadcast(Prepare{ProposalNumber: number, Sender: p.id})
	return nil
}

// HandlePromise folds an incoming Promise into the in-flight round. It
// is a no-op if the promise is for a stale round or no round is
// in-flight. Once a majority of promises for the current round have
// arrived, it adopts the highest-numbered previously-accepted value
// among them (or keeps its own proposed value if none was accepted)
// and broadcasts AcceptRequest.
func (p *Proposer) HandlePromise(msg Promise) {
	p.mu.Lock()

	if p.phase != Preparing || !msg.ProposalNumber.Equal(p.current) {
		p.mu.Unlock()
		return
	}

	p.promises[msg.Sender] = msg
	if len(p.promises) < Majority(len(p.peers)) {
		p.mu.Unlock()
		return
	}

	value := p.value
	var highest ProposalNumber
	for _, promise := range p.promises {
		if !promise.AcceptedProposal.IsZero() && promise.AcceptedProposal.GreaterThan(highest) {
			highest = promise.AcceptedProposal
			value = promise.AcceptedValue
		}
	}

	p.phase = Accepting
	p.value = copyBytes(value)
	number := p.current
	p.accepts = make(map[NodeID]NodeID)
	sendValue := copyBytes(p.value)
	p.mu.Unlock()

	p.logger.Infow("proposer reached promise quorum", "proposer", p.id, "proposal", number)
	p.sender.Broadcast(AcceptRequest{ProposalNumber: number, Value: sendValue, Sender: p.id})
}

// HandleAccepted folds an incoming Accepted into the in-flight round.
// Once a majority accepts the current round's proposal, the round is
// marked Decided, the local learner is informed directly, and Learn is
// broadcast to everyone else.
func (p *Proposer) HandleAccepted(msg Accepted) {
	p.mu.Lock()

	if p.phase != Accepting || !msg.ProposalNumber.Equal(p.current) {
		p.mu.Unlock()
		return
	}

	p.accepts[msg.Sender] = msg.Sender
	if len(p.accepts) < Majority(len(p.peers)) {
		p.mu.Unlock()
		return
	}

	p.phase = Decided
	number := p.current
	value := copyBytes(p.value)
	p.mu.Unlock()

	p.logger.Infow("proposer reached accept quorum, deciding", "proposer", p.id, "proposal", number)
	if p.learner != nil {
		p.learner.HandleLearn(Learn{ProposalNumber: number, Value: value, Sender: p.id})
	}
	p.sender.Broadcast(Learn{ProposalNumber: number, Value: copyBytes(value), Sender: p.id})
}

// CurrentPhase reports the proposer's phase for the in-flight (or most
// recently completed) round. Intended for tests and diagnostics.
func (p *Proposer) CurrentPhase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Reset clears in-flight round state so a fresh Propose can run. The
// monotonic round counter is preserved so a reused node never reissues
// a proposal number it has already used.
func (p *Proposer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = Idle
	p.current = ProposalNumber{}
	p.value = nil
	p.promises = nil
	p.accepts = nil
}
