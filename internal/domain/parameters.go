package domain

import "sync"

// ParameterStore holds the bank parameters loaded at startup. IBAN generation reads
// them from here instead of querying storage on every call.
type ParameterStore struct {
	mu      sync.RWMutex
	current *Parameter
}

// NewParameterStore creates a store. Pass nil when no parameter row exists yet.
func NewParameterStore(p *Parameter) *ParameterStore {
	s := &ParameterStore{}
	if p != nil {
		s.Set(*p)
	}
	return s
}

// Current returns a copy of the active parameters or ErrParameterMissing.
func (s *ParameterStore) Current() (Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Parameter{}, ErrParameterMissing
	}
	return *s.current, nil
}

// Set replaces the active parameters.
func (s *ParameterStore) Set(p Parameter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &p
}

// refresh replaces the active parameters if p is the active row, or if none is active.
func (s *ParameterStore) refresh(p Parameter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID == p.ID {
		s.current = &p
	}
}
