package paxos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptor_PromisesHigherProposal(t *testing.T) {
	a := NewAcceptor("a1", nil)

	reply, ok := a.HandlePrepare(Prepare{ProposalNumber: Fresh(1, "p1"), Sender: "p1"})
	require.True(t, ok)
	assert.True(t, reply.ProposalNumber.Equal(Fresh(1, "p1")))
	assert.True(t, reply.AcceptedProposal.IsZero())
}

func TestAcceptor_RejectsLowerPrepareSilently(t *testing.T) {
	a := NewAcceptor("a1", nil)
	_, ok := a.HandlePrepare(Prepare{ProposalNumber: Fresh(5, "p1"), Sender: "p1"})
	require.True(t, ok)

	_, ok = a.HandlePrepare(Prepare{ProposalNumber: Fresh(3, "p2"), Sender: "p2"})
	assert.False(t, ok, "a lower-numbered prepare must be silently ignored, not replied to")
}

func TestAcceptor_AcceptRequestBelowPromisedIsRejected(t *testing.T) {
	a := NewAcceptor("a1", nil)
	_, ok := a.HandlePrepare(Prepare{ProposalNumber: Fresh(5, "p1"), Sender: "p1"})
	require.True(t, ok)

	_, ok = a.HandleAccept(AcceptRequest{ProposalNumber: Fresh(3, "p2"), Value: []byte("x"), Sender: "p2"})
	assert.False(t, ok)
}

func TestAcceptor_AcceptRequestAtOrAbovePromisedIsAccepted(t *testing.T) {
	a := NewAcceptor("a1", nil)
	_, ok := a.HandlePrepare(Prepare{ProposalNumber: Fresh(5, "p1"), Sender: "p1"})
	require.True(t, ok)

	reply, ok := a.HandleAccept(AcceptRequest{ProposalNumber: Fresh(5, "p1"), Value: []byte("x"), Sender: "p1"})
	require.True(t, ok)
	assert.Equal(t, []byte("x"), reply.Value)

	_, accepted, value := a.State()
	assert.True(t, accepted.Equal(Fresh(5, "p1")))
	assert.Equal(t, []byte("x"), value)
}

func TestAcceptor_SubsequentPrepareSeesPriorAcceptedValue(t *testing.T) {
	a := NewAcceptor("a1", nil)
	_, ok := a.HandlePrepare(Prepare{ProposalNumber: Fresh(1, "p1"), Sender: "p1"})
	require.True(t, ok)
	_, ok = a.HandleAccept(AcceptRequest{ProposalNumber: Fresh(1, "p1"), Value: []byte("first"), Sender: "p1"})
	require.True(t, ok)

	reply, ok := a.HandlePrepare(Prepare{ProposalNumber: Fresh(2, "p2"), Sender: "p2"})
	require.True(t, ok)
	assert.True(t, reply.AcceptedProposal.Equal(Fresh(1, "p1")))
	assert.Equal(t, []byte("first"), reply.AcceptedValue)
}

func TestAcceptor_StateCopiesAreIndependent(t *testing.T) {
	a := NewAcceptor("a1", nil)
	_, _ = a.HandlePrepare(Prepare{ProposalNumber: Fresh(1, "p1"), Sender: "p1"})
	_, _ = a.HandleAccept(AcceptRequest{ProposalNumber: Fresh(1, "p1"), Value: []byte("val"), Sender: "p1"})

	_, _, value := a.State()
	value[0] = 'X'

	_, _, value2 := a.State()
	assert.Equal(t, []byte("val"), value2, "mutating a returned State() slice must not affect internal state")
}

func TestAcceptor_RepeatPrepareIsIdempotentAndNotReplied(t *testing.T) {
	a := NewAcceptor("a1", nil)
	number := Fresh(1, "p1")

	_, ok := a.HandlePrepare(Prepare{ProposalNumber: number, Sender: "p1"})
	require.True(t, ok)

	_, ok = a.HandlePrepare(Prepare{ProposalNumber: number, Sender: "p1"})
	assert.False(t, ok, "a repeat Prepare at the same proposal number must be silently ignored")

	promised, _, _ := a.State()
	assert.True(t, promised.Equal(number))
}

func TestAcceptor_RepeatAcceptRequestIsIdempotent(t *testing.T) {
	a := NewAcceptor("a1", nil)
	number := Fresh(1, "p1")

	first, ok := a.HandleAccept(AcceptRequest{ProposalNumber: number, Value: []byte("v"), Sender: "p1"})
	require.True(t, ok)

	second, ok := a.HandleAccept(AcceptRequest{ProposalNumber: number, Value: []byte("v"), Sender: "p1"})
	require.True(t, ok, "AcceptRequest uses >=, so a repeat at the same number is still accepted")
	assert.Equal(t, first.Value, second.Value)

	_, accepted, value := a.State()
	assert.True(t, accepted.Equal(number))
	assert.Equal(t, []byte("v"), value)
}

func TestAcceptor_Reset(t *testing.T) {
	a := NewAcceptor("a1", nil)
	_, _ = a.HandlePrepare(Prepare{ProposalNumber: Fresh(1, "p1"), Sender: "p1"})
	a.Reset()

	promised, accepted, value := a.State()
	assert.True(t, promised.IsZero())
	assert.True(t, accepted.IsZero())
	assert.Nil(t, value)
}
