package paxos

import (
	"testing"

	"pgregory.net/rapid"
)

// envelope is one message in flight in the simulated cluster below.
type envelope struct {
	to  NodeID
	msg Message
}

// routerSender is a Sender that appends outbound messages to a shared
// queue instead of delivering them, so a test can pop and apply them
// in any order it likes — including adversarial reorderings.
type routerSender struct {
	self  NodeID
	peers []NodeID
	queue *[]envelope
}

func (r *routerSender) Send(to NodeID, msg Message) bool {
	*r.queue = append(*r.queue, envelope{to: to, msg: msg})
	return true
}

func (r *routerSender) Broadcast(msg Message) int {
	n := 0
	for _, p := range r.peers {
		if p == r.self {
			continue
		}
		*r.queue = append(*r.queue, envelope{to: p, msg: msg})
		n++
	}
	return n
}

// cluster wires up acceptors, learners and proposers for a fixed set
// of nodes without any transport or goroutines, so a test can drive
// delivery order by hand.
type cluster struct {
	peers     []NodeID
	queue     []envelope
	acceptors map[NodeID]*Acceptor
	learners  map[NodeID]*Learner
	proposers map[NodeID]*Proposer
}

func newCluster(peers []NodeID) *cluster {
	c := &cluster{
		peers:     peers,
		acceptors: make(map[NodeID]*Acceptor),
		learners:  make(map[NodeID]*Learner),
		proposers: make(map[NodeID]*Proposer),
	}
	for _, id := range peers {
		c.acceptors[id] = NewAcceptor(id, nil)
		c.learners[id] = NewLearner(id, nil)
	}
	for _, id := range peers {
		sender := &routerSender{self: id, peers: peers, queue: &c.queue}
		c.proposers[id] = NewProposer(id, peers, sender, c.learners[id], nil)
	}
	return c
}

// step pops the envelope at idx (mod current queue length) and applies
// it, possibly enqueuing further envelopes.
func (c *cluster) step(idx int) {
	if len(c.queue) == 0 {
		return
	}
	idx = idx % len(c.queue)
	env := c.queue[idx]
	c.queue = append(c.queue[:idx], c.queue[idx+1:]...)

	switch m := env.msg.(type) {
	case Prepare:
		if reply, ok := c.acceptors[env.to].HandlePrepare(m); ok {
			c.queue = append(c.queue, envelope{to: m.Sender, msg: reply})
		}
	case Promise:
		c.proposers[env.to].HandlePromise(m)
	case AcceptRequest:
		if reply, ok := c.acceptors[env.to].HandleAccept(m); ok {
			c.queue = append(c.queue, envelope{to: m.Sender, msg: reply})
		}
	case Accepted:
		c.proposers[env.to].HandleAccepted(m)
	case Learn:
		c.learners[env.to].HandleLearn(m)
	}
}

func (c *cluster) decidedValues() [][]byte {
	var out [][]byte
	for _, id := range c.peers {
		if v, ok := c.learners[id].Decided(); ok {
			out = append(out, v)
		}
	}
	return out
}

// TestAgreement_HoldsUnderCompetingProposersAndArbitraryReordering
// drives two competing proposers' full message traffic through a
// five-node cluster in every delivery order rapid can find, and checks
// that no two nodes ever learn different values — the Agreement
// property from spec §8.
func TestAgreement_HoldsUnderCompetingProposersAndArbitraryReordering(t *testing.T) {
	peers := []NodeID{"n0", "n1", "n2", "n3", "n4"}

	rapid.Check(t, func(t *rapid.T) {
		c := newCluster(peers)

		if err := c.proposers["n0"].Propose([]byte("alpha")); err != nil {
			t.Fatalf("unexpected error starting proposer n0: %v", err)
		}
		if err := c.proposers["n1"].Propose([]byte("beta")); err != nil {
			t.Fatalf("unexpected error starting proposer n1: %v", err)
		}

		const maxSteps = 2000
		for i := 0; i < maxSteps && len(c.queue) > 0; i++ {
			idx := rapid.IntRange(0, 1<<30).Draw(t, "idx")
			c.step(idx)
		}

		values := c.decidedValues()
		for i := 1; i < len(values); i++ {
			if string(values[i]) != string(values[0]) {
				t.Fatalf("agreement violated: learners decided different values %q vs %q", values[0], values[i])
			}
		}
	})
}
