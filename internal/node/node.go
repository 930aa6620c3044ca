// Package node assembles Acceptor, Proposer and Learner behind a
// single participant and wires them to a transport.Transport.
package node

import (
	"sync/atomic"

	"github.com/halvorsen-oss/quorum-paxos/internal/logging"
	"github.com/halvorsen-oss/quorum-paxos/internal/paxos"
	"github.com/halvorsen-oss/quorum-paxos/internal/store"
	"github.com/halvorsen-oss/quorum-paxos/internal/transport"
)

// Identity is a node's own id plus the full cluster membership
// (including itself) used to compute quorum size.
type Identity struct {
	Self  paxos.NodeID
	Peers []paxos.NodeID
}

// Outcome is the immediate result of a Propose call. It never implies
// a decision has been reached — only that a round was started,
// rejected, or found moot.
type Outcome int

const (
	Initiated Outcome = iota
	Busy
	AlreadyDecided
	Crashed
)

func (o Outcome) String() string {
	switch o {
	case Initiated:
		return "initiated"
	case Busy:
		return "busy"
	case AlreadyDecided:
		return "already-decided"
	case Crashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Node is one participant running all three Paxos roles plus a crash
// switch for fault-injection scenarios.
type Node struct {
	identity  Identity
	transport transport.Transport
	logger    logging.Logger
	store     store.Store

	acceptor *paxos.Acceptor
	proposer *paxos.Proposer
	learner  *paxos.Learner

	crashed atomic.Bool
}

// Option configures a Node at construction time.
type Option func(*Node)

// WithLogger injects a structured logging sink. Without this option a
// Node logs nothing.
func WithLogger(logger logging.Logger) Option {
	return func(n *Node) { n.logger = logger }
}

// WithStore attaches a decision audit log. Without this option a Node
// still learns decisions correctly; it just doesn't record them
// anywhere outside the Learner.
func WithStore(s store.Store) Option {
	return func(n *Node) { n.store = s }
}

// NewNode builds a Node and registers its dispatch loop with t.
func NewNode(identity Identity, t transport.Transport, opts ...Option) *Node {
	n := &Node{identity: identity, transport: t, logger: logging.Nop()}
	for _, opt := range opts {
		opt(n)
	}

	n.acceptor = paxos.NewAcceptor(identity.Self, n.logger)
	n.learner = paxos.NewLearner(identity.Self, n.logger)
	n.proposer = paxos.NewProposer(identity.Self, identity.Peers, selfSender{Transport: t, self: identity.Self}, n.learner, n.logger)

	t.OnReceive(n.dispatch)
	return n
}

// selfSender is the proposer's view of the transport: Broadcast also
// sends the message to this node itself, so the local acceptor answers
// its own proposer's Prepare and AcceptRequest and counts toward quorum.
type selfSender struct {
	transport.Transport
	self paxos.NodeID
}

func (s selfSender) Broadcast(msg paxos.Message) int {
	sent := s.Transport.Broadcast(msg)
	if s.Transport.Send(s.self, msg) {
		sent++
	}
	return sent
}

// ID returns this node's own identity.
func (n *Node) ID() paxos.NodeID { return n.identity.Self }

// Propose attempts to start a new round proposing value.
func (n *Node) Propose(value []byte) Outcome {
	if n.crashed.Load() {
		return Crashed
	}
	switch n.proposer.Propose(value) {
	case nil:
		return Initiated
	case paxos.ErrAlreadyDecided:
		return AlreadyDecided
	default:
		return Busy
	}
}

// Decided reports this node's learned decision, if any.
func (n *Node) Decided() ([]byte, bool) {
	return n.learner.Decided()
}

// OnDecided registers cb to run exactly once, the moment this node
// learns a decision (immediately, if it already has one).
func (n *Node) OnDecided(cb func([]byte)) {
	n.learner.OnDecided(cb)
}

// SimulateCrash makes the node silently drop every inbound message and
// refuse new proposals, without tearing down its transport
// registration.
func (n *Node) SimulateCrash() {
	n.crashed.Store(true)
}

// Recover clears the crashed flag. Acceptor and proposer state survive
// the simulated crash untouched — this models a flag flip, not a
// process restart, so there is no state loss to account for here.
func (n *Node) Recover() {
	n.crashed.Store(false)
}

// Reset clears all role state, including the learned decision. Tests
// use this to reuse a Node across scenarios.
func (n *Node) Reset() {
	n.acceptor.Reset()
	n.proposer.Reset()
	n.learner.Reset()
	n.crashed.Store(false)
}

func (n *Node) dispatch(msg paxos.Message) {
	if n.crashed.Load() {
		return
	}

	switch m := msg.(type) {
	case paxos.Prepare:
		if reply, ok := n.acceptor.HandlePrepare(m); ok {
			n.transport.Send(m.Sender, reply)
		}
	case paxos.Promise:
		n.proposer.HandlePromise(m)
	case paxos.AcceptRequest:
		if reply, ok := n.acceptor.HandleAccept(m); ok {
			n.transport.Send(m.Sender, reply)
		}
	case paxos.Accepted:
		n.proposer.HandleAccepted(m)
	case paxos.Learn:
		n.learner.HandleLearn(m)
		if n.store != nil {
			n.store.Record(m.ProposalNumber, m.Value)
		}
	default:
		n.logger.Warnw("node received unknown message type", "node", n.identity.Self)
	}
}
