package paxos

// Message is the discriminated union of the five protocol messages.
// Every variant carries its sender so a handler can reply without extra
// routing state. There is deliberately no Reject/Nack variant: an
// acceptor that declines a Prepare or AcceptRequest stays silent (see
// Acceptor), so the wire never needs to carry a negative reply.
type Message interface {
	GetSender() NodeID
}

// Prepare is Phase 1A: "I want to propose with number N."
type Prepare struct {
	ProposalNumber ProposalNumber
	Sender         NodeID
}

func (m Prepare) GetSender() NodeID { return m.Sender }

// Promise is Phase 1B: "I won't accept below N; here's what I already
// accepted, if anything." AcceptedProposal.IsZero() means nothing was
// ever accepted by this acceptor.
type Promise struct {
	ProposalNumber   ProposalNumber
	AcceptedProposal ProposalNumber
	AcceptedValue    []byte
	Sender           NodeID
}

func (m Promise) GetSender() NodeID { return m.Sender }

// AcceptRequest is Phase 2A: "Accept value V at proposal number N."
type AcceptRequest struct {
	ProposalNumber ProposalNumber
	Value          []byte
	Sender         NodeID
}

func (m AcceptRequest) GetSender() NodeID { return m.Sender }

// Accepted is Phase 2B: "I have accepted (N, V)."
type Accepted struct {
	ProposalNumber ProposalNumber
	Value          []byte
	Sender         NodeID
}

func (m Accepted) GetSender() NodeID { return m.Sender }

// Learn announces a decision; it is not the decision event itself,
// which is the quorum of Accepted replies the proposer already holds.
type Learn struct {
	ProposalNumber ProposalNumber
	Value          []byte
	Sender         NodeID
}

func (m Learn) GetSender() NodeID { return m.Sender }
