package paxos

// Majority returns the smallest count of votes that is guaranteed to
// intersect with every other majority out of peerCount total
// participants. peerCount is the full cluster size, including the
// local node.
func Majority(peerCount int) int {
	return peerCount/2 + 1
}
