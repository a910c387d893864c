package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Policy is one written return or warranty policy.
type Policy struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Store is the ordered, read-only policy collection. Order is significant:
// it breaks retrieval score ties.
type Store struct {
	policies []Policy
	byID     map[string]int
}

var (
	ErrEmptyID     = errors.New("policy id is empty")
	ErrDuplicateID = errors.New("duplicate policy id")
)

// NewStore copies policies so later mutation by the caller cannot leak in.
func NewStore(policies []Policy) (*Store, error) {
	s := &Store{
		policies: make([]Policy, len(policies)),
		byID:     make(map[string]int, len(policies)),
	}
	for i, p := range policies {
		if p.ID == "" {
			return nil, fmt.Errorf("policy at index %d: %w", i, ErrEmptyID)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		s.byID[p.ID] = i
		s.policies[i] = p
	}
	return s, nil
}

// LoadFile reads a JSON array of {id, title, content}.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policies: %w", err)
	}
	var policies []Policy
	if err := json.Unmarshal(data, &policies); err != nil {
		return nil, fmt.Errorf("parse policies %s: %w", path, err)
	}
	return NewStore(policies)
}

// All returns a copy of the policies in store order.
func (s *Store) All() []Policy {
	out := make([]Policy, len(s.policies))
	copy(out, s.policies)
	return out
}

func (s *Store) Len() int {
	return len(s.policies)
}

func (s *Store) Get(id string) (Policy, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Policy{}, false
	}
	return s.policies[i], true
}
