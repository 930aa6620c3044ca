package transport

import (
	"math/rand"
	"sync"

	"github.com/halvorsen-oss/quorum-paxos/internal/logging"
	"github.com/halvorsen-oss/quorum-paxos/internal/paxos"
)

// Network is an in-process hub connecting MemoryTransport peers. It
// supports the fault injection spec §8's lossy-network and
// minority-partition scenarios need: a per-edge drop probability and
// explicit partition/heal of a set of nodes.
type Network struct {
	mu       sync.Mutex
	logger   logging.Logger
	peers    map[paxos.NodeID]*MemoryTransport
	dropRate float64
	cut      map[paxos.NodeID]bool // nodes currently partitioned away from everyone else
}

// NewNetwork builds an empty Network. A nil logger is replaced with a
// no-op sink.
func NewNetwork(logger logging.Logger) *Network {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Network{
		logger: logger,
		peers:  make(map[paxos.NodeID]*MemoryTransport),
		cut:    make(map[paxos.NodeID]bool),
	}
}

// Join creates and registers a MemoryTransport for id, returning the
// handle the owning node uses to send and to register its receive
// handler.
func (n *Network) Join(id paxos.NodeID) *MemoryTransport {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := &MemoryTransport{self: id, net: n}
	n.peers[id] = t
	return t
}

// SetDropRate sets the probability, in [0,1], that any single message
// sent through the network is silently dropped in transit.
func (n *Network) SetDropRate(rate float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dropRate = rate
}

// Partition marks ids as cut off from every peer not in ids: messages
// crossing the boundary in either direction are dropped until Heal is
// called. Call with the minority side's ids to simulate spec §8
// scenario 6.
func (n *Network) Partition(ids ...paxos.NodeID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range ids {
		n.cut[id] = true
	}
}

// Heal clears every partition, restoring full connectivity.
func (n *Network) Heal() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cut = make(map[paxos.NodeID]bool)
}

func (n *Network) blocked(from, to paxos.NodeID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cut[from] != n.cut[to] {
		return true
	}
	if n.dropRate > 0 && rand.Float64() < n.dropRate {
		return true
	}
	return false
}

func (n *Network) deliver(from, to paxos.NodeID, msg paxos.Message) bool {
	n.mu.Lock()
	dest, ok := n.peers[to]
	n.mu.Unlock()
	if !ok {
		return false
	}
	if n.blocked(from, to) {
		n.logger.Debugw("transport dropped message", "from", from, "to", to)
		return true
	}

	dest.mu.Lock()
	handler := dest.handler
	dest.mu.Unlock()
	if handler == nil {
		return true
	}

	// Deliver on a fresh goroutine: a handler invoked synchronously on
	// the sender's own call stack could call back into Send/Broadcast
	// and reenter the sender while it still holds locks.
	go handler(msg)
	return true
}

// MemoryTransport is one peer's handle onto a Network.
type MemoryTransport struct {
	self paxos.NodeID
	net  *Network

	mu      sync.Mutex
	handler func(paxos.Message)
}

func (t *MemoryTransport) Send(to paxos.NodeID, msg paxos.Message) bool {
	return t.net.deliver(t.self, to, msg)
}

func (t *MemoryTransport) Broadcast(msg paxos.Message) int {
	t.net.mu.Lock()
	targets := make([]paxos.NodeID, 0, len(t.net.peers))
	for id := range t.net.peers {
		if id != t.self {
			targets = append(targets, id)
		}
	}
	t.net.mu.Unlock()

	sent := 0
	for _, id := range targets {
		if t.net.deliver(t.self, id, msg) {
			sent++
		}
	}
	return sent
}

func (t *MemoryTransport) OnReceive(fn func(paxos.Message)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = fn
}
