// Package store records decisions a node has learned, as an
// observability and test-assertion aid. It is deliberately not acceptor
// durability: spec.md rules out persisting acceptor state across
// restarts, and this package never reloads anything into an Acceptor.
// It exists so a demo or test can ask "what has this node decided and
// when" without reaching into Learner's private state.
package store

import "github.com/halvorsen-oss/quorum-paxos/internal/paxos"

// Record is one recorded decision.
type Record struct {
	ProposalNumber paxos.ProposalNumber
	Value          []byte
}

// Store records and retrieves decisions for a single node.
type Store interface {
	// Record appends a decision. Implementations copy value so the
	// caller's slice can be reused or mutated afterward.
	Record(number paxos.ProposalNumber, value []byte)

	// Latest returns the most recently recorded decision, if any.
	Latest() (Record, bool)

	// All returns every recorded decision in recording order.
	All() []Record
}
