package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"decana/internal/types"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS decision_projects (
  project_id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT 'Project',
  description TEXT NOT NULL DEFAULT '',
  criteria JSONB,
  form_schema JSONB,
  alternatives JSONB NOT NULL DEFAULT '[]'
);
`)
	})
	return s.schemaErr
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (ProjectState, bool) {
	var state ProjectState
	var criteria, formSchema, alternatives []byte
	err := row.Scan(
		&state.Project.ID,
		&state.Project.Name,
		&state.Project.Description,
		&criteria,
		&formSchema,
		&alternatives,
	)
	if err != nil {
		return ProjectState{}, false
	}
	if len(criteria) > 0 {
		var cs types.CriteriaSet
		if json.Unmarshal(criteria, &cs) == nil {
			state.Project.Criteria = &cs
		}
	}
	if len(formSchema) > 0 {
		var fs types.FormSchema
		if json.Unmarshal(formSchema, &fs) == nil {
			state.Project.FormSchema = &fs
		}
	}
	if len(alternatives) > 0 {
		_ = json.Unmarshal(alternatives, &state.Alternatives)
	}
	return normalizeState(state), true
}

func (s *Store) getDB(projectID string) (ProjectState, bool) {
	if err := s.ensureSchema(); err != nil {
		return ProjectState{}, false
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return ProjectState{}, false
	}
	row := s.db.QueryRow(`SELECT project_id, name, description, criteria, form_schema, alternatives
FROM decision_projects WHERE project_id = $1`, id)
	return scanState(row)
}

func (s *Store) putDB(state ProjectState) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	n := normalizeState(state)
	if n.Project.ID == "" {
		return fmt.Errorf("store: project id is empty")
	}
	criteria, formSchema, alternatives, err := encodeState(n)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO decision_projects (project_id, name, description, criteria, form_schema, alternatives)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (project_id)
DO UPDATE SET name=EXCLUDED.name,
  description=EXCLUDED.description,
  criteria=EXCLUDED.criteria,
  form_schema=EXCLUDED.form_schema,
  alternatives=EXCLUDED.alternatives`,
		n.Project.ID, n.Project.Name, n.Project.Description, criteria, formSchema, alternatives)
	if err != nil {
		return err
	}
	s.invalidateResults(n.Project.ID)
	return nil
}

func (s *Store) updateDB(projectID string, mutate func(*ProjectState)) (ProjectState, bool, error) {
	state, ok := s.getDB(projectID)
	if !ok {
		return ProjectState{}, false, nil
	}
	mutate(&state)
	state.Project.ID = strings.TrimSpace(projectID)
	state = normalizeState(state)
	if err := s.putDB(state); err != nil {
		return ProjectState{}, true, err
	}
	return state, true, nil
}

func (s *Store) listDB() []ProjectState {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT project_id, name, description, criteria, form_schema, alternatives
FROM decision_projects ORDER BY project_id`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []ProjectState
	for rows.Next() {
		if state, ok := scanState(rows); ok {
			out = append(out, state)
		}
	}
	return out
}

func (s *Store) deleteDB(projectID string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM decision_projects WHERE project_id = $1`, id)
	s.invalidateResults(id)
	return err
}

func encodeState(state ProjectState) (criteria, formSchema, alternatives []byte, err error) {
	if state.Project.Criteria != nil {
		criteria, err = json.Marshal(state.Project.Criteria)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	if state.Project.FormSchema != nil {
		formSchema, err = json.Marshal(state.Project.FormSchema)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	if state.Alternatives == nil {
		alternatives = []byte(`[]`)
	} else {
		alternatives, err = json.Marshal(state.Alternatives)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return criteria, formSchema, alternatives, nil
}
