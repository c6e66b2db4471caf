package viewstate

import (
	"fmt"
	"log"
	"sync"

	"FibScope/internal/model"
)

// Store remembers the last active timeframe of a symbol's chart so that
// rebuilds and restarts open where the user left off. An empty path keeps
// the state in memory only.
type Store struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewStore creates a Store, loading state from disk. A stored selection for
// another symbol, or an invalid timeframe, is discarded.
func NewStore(filePath, symbol string) (*Store, error) {
	state := &State{}
	if filePath != "" {
		loaded, err := LoadState(filePath)
		if err != nil {
			return nil, fmt.Errorf("load view state: %w", err)
		}
		state = loaded
	}
	if state.Symbol != symbol || (state.Active != "" && !state.Active.Valid()) {
		state = &State{Symbol: symbol}
	}
	return &Store{state: state, filePath: filePath}, nil
}

// Active returns the remembered timeframe, if any.
func (s *Store) Active() (model.Timeframe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Active, s.state.Active != ""
}

// Remember records tf as the active timeframe of build buildID. Unchanged
// selections are not rewritten.
func (s *Store) Remember(tf model.Timeframe, buildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Active == tf && s.state.BuildID == buildID {
		return
	}
	s.state.Active = tf
	s.state.BuildID = buildID
	if err := s.save(); err != nil {
		log.Printf("[ERROR] failed to save view state: %v", err)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

func (s *Store) save() error {
	if s.filePath == "" {
		return nil
	}
	return SaveState(s.filePath, s.state)
}
