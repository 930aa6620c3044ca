package paxos

import "fmt"

// NodeID identifies a single participant. It is opaque to the protocol
// beyond its use as the proposal-number tiebreaker and as a Transport
// destination.
type NodeID string

// ProposalNumber totally orders every proposal any node can ever
// generate: rounds first, then NodeID under Go's native string
// ordering as the fixed, network-wide tiebreak. The zero value
// (Round 0) never occurs naturally — Fresh starts counters at 1 — so it
// doubles as the "no promise / nothing accepted yet" sentinel, which is
// exactly the "None compares less than any Some" rule the data model
// calls for.
type ProposalNumber struct {
	Round  uint64
	NodeID NodeID
}

// Fresh builds the proposal number for the given (already incremented)
// counter value. Callers must increment their local counter before
// calling this — the counter itself is never decremented.
func Fresh(counter uint64, id NodeID) ProposalNumber {
	return ProposalNumber{Round: counter, NodeID: id}
}

// IsZero reports whether this is the sentinel "no proposal" value.
// Round 0 never occurs in a real proposal number, so it alone is
// sufficient to detect "nothing promised/accepted yet".
func (n ProposalNumber) IsZero() bool {
	return n.Round == 0
}

// Compare returns -1, 0, or 1 as n is less than, equal to, or greater
// than other, ordering lexicographically on (Round, NodeID).
func (n ProposalNumber) Compare(other ProposalNumber) int {
	switch {
	case n.Round < other.Round:
		return -1
	case n.Round > other.Round:
		return 1
	case n.NodeID < other.NodeID:
		return -1
	case n.NodeID > other.NodeID:
		return 1
	default:
		return 0
	}
}

func (n ProposalNumber) GreaterThan(other ProposalNumber) bool { return n.Compare(other) > 0 }
func (n ProposalNumber) LessThan(other ProposalNumber) bool    { return n.Compare(other) < 0 }
func (n ProposalNumber) Equal(other ProposalNumber) bool       { return n.Compare(other) == 0 }

func (n ProposalNumber) String() string {
	return fmt.Sprintf("%d.%s", n.Round, n.NodeID)
}
