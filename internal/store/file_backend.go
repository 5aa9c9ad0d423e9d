package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"decana/internal/util/jsonutil"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []ProjectState
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.Project.ID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeState(row)
		}
	})
}

// saveFile is called with no locks held.
func (s *Store) saveFile() error {
	s.mu.RLock()
	rows := make([]ProjectState, 0, len(s.byID))
	for _, state := range s.byID {
		rows = append(rows, normalizeState(state))
	}
	s.mu.RUnlock()

	b, err := jsonutil.MarshalIndentNoEscape(rows)
	if err != nil {
		return fmt.Errorf("store: encode workspace: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(projectID string) (ProjectState, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
	if id == "" {
		return ProjectState{}, false
	}
	s.mu.RLock()
	state, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return ProjectState{}, false
	}
	return normalizeState(state), true
}

func (s *Store) putFile(state ProjectState) error {
	s.ensureLoadedFile()
	normalized := normalizeState(state)
	if normalized.Project.ID == "" {
		return fmt.Errorf("store: project id is empty")
	}
	s.mu.Lock()
	s.byID[normalized.Project.ID] = normalized
	s.mu.Unlock()
	s.invalidateResults(normalized.Project.ID)
	return s.saveFile()
}

func (s *Store) updateFile(projectID string, mutate func(*ProjectState)) (ProjectState, bool, error) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
	if id == "" {
		return ProjectState{}, false, nil
	}
	s.mu.Lock()
	state, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ProjectState{}, false, nil
	}
	mutate(&state)
	state.Project.ID = id
	state = normalizeState(state)
	s.byID[id] = state
	s.mu.Unlock()

	s.invalidateResults(id)
	// The in-memory state keeps the mutation either way; a persist failure
	// is reported so callers do not treat the write as durable.
	return state, true, s.saveFile()
}

func (s *Store) listFile() []ProjectState {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProjectState, 0, len(s.byID))
	for _, state := range s.byID {
		out = append(out, normalizeState(state))
	}
	return out
}

func (s *Store) deleteFile(projectID string) error {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
	if id == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	s.invalidateResults(id)
	return s.saveFile()
}
