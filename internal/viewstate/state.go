package viewstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"FibScope/internal/model"
)

// State is the persisted selection of the chart view.
type State struct {
	Symbol    string          `json:"symbol"`
	Active    model.Timeframe `json:"active"`
	BuildID   string          `json:"build_id,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LoadState reads the view state from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the view state to a JSON file.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
