package paxos

import "errors"

var (
	// ErrBusy is returned by Propose when this node is already running
	// a proposal that has not yet reached a decision.
	ErrBusy = errors.New("paxos: proposer busy with an in-flight proposal")

	// ErrAlreadyDecided is returned by Propose once this node's Learner
	// already holds a decided value; callers should read it via Decided
	// instead of proposing again.
	ErrAlreadyDecided = errors.New("paxos: value already decided")

	// ErrCrashed names the simulated-crash state of a Node. No function
	// returns it: Node.Propose reports a crashed node with the Crashed
	// outcome instead.
	ErrCrashed = errors.New("paxos: node is crashed")
)
