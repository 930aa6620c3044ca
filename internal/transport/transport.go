// Package transport delivers paxos.Message values between nodes.
//
// Transport.Send/Broadcast satisfy paxos.Sender without an adapter —
// Go's structural typing lets the wider Transport interface stand in
// for the narrower Sender the proposer expects.
package transport

import (
	"errors"

	"github.com/halvorsen-oss/quorum-paxos/internal/paxos"
)

// ErrUnknownPeer names a destination NodeID that was never Join-ed to
// the Network. No function returns it: Send reports such a destination
// by returning false.
var ErrUnknownPeer = errors.New("transport: unknown peer")

// Transport is the per-node handle onto the network. Send and
// Broadcast are non-blocking from the caller's point of view: delivery
// happens asynchronously so a handler invoked during delivery can
// never call back into the sender on the sender's own goroutine (the
// non-reentrancy contract required by spec's concurrency model).
type Transport interface {
	// Send delivers msg to exactly one peer, reporting whether the
	// destination is known. A dropped or partitioned message still
	// reports true: "accepted for delivery", not "guaranteed delivered".
	Send(to paxos.NodeID, msg paxos.Message) bool

	// Broadcast delivers msg to every other known peer and returns how
	// many sends were attempted.
	Broadcast(msg paxos.Message) int

	// OnReceive registers the handler invoked for every message this
	// transport's owner receives. Only one handler may be registered;
	// a later call replaces the former.
	OnReceive(fn func(paxos.Message))
}
