// Command demo runs single-decree Paxos across a small in-memory
// cluster under four conditions: a clean run, a lossy network, a
// minority partition that heals, and a proposer crash followed by a
// backup proposer. It mirrors spec.md §8's scenarios 1, 5, 6 and 3.
package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/halvorsen-oss/quorum-paxos/internal/node"
	"github.com/halvorsen-oss/quorum-paxos/internal/paxos"
	"github.com/halvorsen-oss/quorum-paxos/internal/store"
	"github.com/halvorsen-oss/quorum-paxos/internal/transport"
)

func main() {
	zl, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	runID := uuid.NewString()
	logger.Infow("starting demo", "run", runID)

	runScenario(logger, "clean run", 5, 0, nil)
	runScenario(logger, "lossy network", 5, 0.3, nil)
	runScenario(logger, "minority partition and heal", 5, 0, []paxos.NodeID{"node-3", "node-4"})
	runCrashAndBackupProposerScenario(logger)
}

// runCrashAndBackupProposerScenario mirrors spec.md §8 scenario 3: the
// initiating proposer broadcasts Prepare, then crashes before any
// Accept phase completes. A different live node picks up the same
// value with a fresh, higher round. There is no internal retry timer —
// this loop is the "driver" role §9 says sits above the core.
func runCrashAndBackupProposerScenario(logger *zap.SugaredLogger) {
	const name = "proposer crash then backup proposer"
	logger.Infow("scenario starting", "scenario", name)

	peers := make([]paxos.NodeID, 5)
	for i := range peers {
		peers[i] = paxos.NodeID(fmt.Sprintf("node-%d", i))
	}

	net := transport.NewNetwork(logger)
	nodes := make(map[paxos.NodeID]*node.Node, len(peers))
	for _, id := range peers {
		t := net.Join(id)
		nodes[id] = node.NewNode(
			node.Identity{Self: id, Peers: peers},
			t,
			node.WithLogger(logger),
			node.WithStore(store.NewMemoryStore()),
		)
	}

	leader := nodes[peers[0]]
	logger.Infow("propose result", "node", leader.ID(), "outcome", leader.Propose([]byte("M9")))
	leader.SimulateCrash()
	logger.Infow("leader crashed before accept phase completed", "node", leader.ID())

	backup := nodes[peers[1]]
	for {
		outcome := backup.Propose([]byte("M9"))
		logger.Infow("backup propose result", "node", backup.ID(), "outcome", outcome)
		if outcome == node.Initiated || outcome == node.AlreadyDecided {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	for _, id := range peers {
		value, ok := nodes[id].Decided()
		logger.Infow("final state", "node", id, "decided", ok, "value", string(value))
	}
}

func runScenario(logger *zap.SugaredLogger, name string, clusterSize int, dropRate float64, partition []paxos.NodeID) {
	logger.Infow("scenario starting", "scenario", name)

	peers := make([]paxos.NodeID, clusterSize)
	for i := range peers {
		peers[i] = paxos.NodeID(fmt.Sprintf("node-%d", i))
	}

	net := transport.NewNetwork(logger)
	net.SetDropRate(dropRate)

	nodes := make(map[paxos.NodeID]*node.Node, clusterSize)
	for _, id := range peers {
		t := net.Join(id)
		n := node.NewNode(
			node.Identity{Self: id, Peers: peers},
			t,
			node.WithLogger(logger),
			node.WithStore(store.NewMemoryStore()),
		)
		nodes[id] = n
	}

	if len(partition) > 0 {
		net.Partition(partition...)
		logger.Infow("partitioned minority", "nodes", partition)
	}

	proposer := nodes[peers[0]]
	outcome := proposer.Propose([]byte("commit-" + name))
	logger.Infow("propose result", "node", proposer.ID(), "outcome", outcome)

	time.Sleep(200 * time.Millisecond)

	if len(partition) > 0 {
		net.Heal()
		logger.Infow("partition healed")
		time.Sleep(200 * time.Millisecond)
	}

	for _, id := range peers {
		value, ok := nodes[id].Decided()
		logger.Infow("final state", "node", id, "decided", ok, "value", string(value))
	}
}
