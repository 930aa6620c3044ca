package store

import (
	"sync"

	"github.com/halvorsen-oss/quorum-paxos/internal/paxos"
)

// MemoryStore is an in-process Store. All reads and writes copy their
// byte slices in and out so callers can never mutate recorded state
// through an aliased slice.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(number paxos.ProposalNumber, value []byte) {
	cp := make([]byte, len(value))
	copy(cp, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{ProposalNumber: number, Value: cp})
}

func (s *MemoryStore) Latest() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return Record{}, false
	}
	last := s.records[len(s.records)-1]
	cp := make([]byte, len(last.Value))
	copy(cp, last.Value)
	last.Value = cp
	return last, true
}

func (s *MemoryStore) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		cp := make([]byte, len(r.Value))
		copy(cp, r.Value)
		out[i] = Record{ProposalNumber: r.ProposalNumber, Value: cp}
	}
	return out
}
