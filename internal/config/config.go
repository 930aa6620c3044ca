// Package config parses the plain-text cluster membership file format
// spec.md §6 prescribes. It is deliberately outside internal/paxos and
// internal/node: the core takes an already-resolved peer set. cmd/demo
// builds its peer set in code and does not read a config file.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/halvorsen-oss/quorum-paxos/internal/paxos"
)

// Member is one cluster participant as declared in a config file.
type Member struct {
	ID   paxos.NodeID
	Host string
	Port int
}

// Parse reads "memberId,host,port" lines, one member per line, blank
// lines and lines starting with '#' ignored.
func Parse(r io.Reader) ([]Member, error) {
	var members []Member
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("config: line %d: expected memberId,host,port, got %q", lineNo, line)
		}

		id := strings.TrimSpace(fields[0])
		host := strings.TrimSpace(fields[1])
		port, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("config: line %d: invalid port: %w", lineNo, err)
		}
		if id == "" || host == "" {
			return nil, fmt.Errorf("config: line %d: memberId and host must be non-empty", lineNo)
		}

		members = append(members, Member{ID: paxos.NodeID(id), Host: host, Port: port})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("config: no members declared")
	}
	return members, nil
}

// PeerIDs extracts just the NodeID column, in file order.
func PeerIDs(members []Member) []paxos.NodeID {
	ids := make([]paxos.NodeID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}
