package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/abhisek/finwise/internal/progress"
)

type jsonState struct {
	Users map[string]*progress.Record `json:"users"`
}

// JSONProgress keeps every user's record in one JSON file, rewritten
// atomically on each update.
type JSONProgress struct {
	filePath string
	mu       sync.RWMutex
	state    jsonState
}

// NewJSONProgress loads filePath, starting empty when it does not exist.
func NewJSONProgress(filePath string) (*JSONProgress, error) {
	s := &JSONProgress{
		filePath: filePath,
		state:    jsonState{Users: make(map[string]*progress.Record)},
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("load %s: %w", filePath, err)
	}
	return s, nil
}

func (s *JSONProgress) Get(_ context.Context, userID string) (*progress.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.state.Users[userID]
	if !ok {
		return nil, progress.ErrRecordNotFound
	}
	return r.Clone(), nil
}

func (s *JSONProgress) Update(_ context.Context, userID string, p progress.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state.Users[userID]
	if !ok {
		r = progress.NewRecord()
	}
	next := r.Clone()
	if err := p.Apply(next, time.Now().UTC()); err != nil {
		return err
	}
	prev := s.state.Users[userID]
	s.state.Users[userID] = next
	if err := s.persistLocked(); err != nil {
		if prev == nil {
			delete(s.state.Users, userID)
		} else {
			s.state.Users[userID] = prev
		}
		return err
	}
	return nil
}

func (s *JSONProgress) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var state jsonState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if state.Users == nil {
		state.Users = make(map[string]*progress.Record)
	}
	s.state = state
	return nil
}

func (s *JSONProgress) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
