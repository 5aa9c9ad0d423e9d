// Package store is the local workspace: a stand-in for the external
// persistence API that lets the CLI run offline and tests run hermetically.
// It keeps whole projects (criteria, form schema, alternatives) keyed by
// project id, backed by a JSON file or by Postgres.
package store

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"decana/internal/types"
)

// Store holds decision projects. Exactly one backend is active: the JSON
// file at path, or the Postgres database when db is set.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]ProjectState

	schemaOnce sync.Once
	schemaErr  error

	resultCache *lru.Cache[string, []types.AlternativeRecord]
}

// New creates a file-backed store. The file is created on first save.
func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]ProjectState),
	}
}

// NewPostgres creates a Postgres-backed store with a read cache for result
// listings.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []types.AlternativeRecord](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:          db,
		resultCache: cache,
	}, nil
}

// NewFromEnv picks Postgres when DECANA_WORKSPACE_PG_DSN is set and the
// connection works, falling back to the file backend.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("DECANA_WORKSPACE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

// Close releases the database handle for Postgres-backed stores.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns one project state.
func (s *Store) Get(projectID string) (ProjectState, bool) {
	if s == nil {
		return ProjectState{}, false
	}
	if s.db != nil {
		return s.getDB(projectID)
	}
	return s.getFile(projectID)
}

// Put inserts or replaces a project state.
func (s *Store) Put(state ProjectState) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.putDB(state)
	}
	return s.putFile(state)
}

// Update applies a mutation to a project state under the store's lock and
// persists the result. Callers route all read-modify-write sequences
// through here so concurrent edits cannot drop each other's writes.
// ok reports whether the project exists; err reports a persist failure.
func (s *Store) Update(projectID string, mutate func(*ProjectState)) (ProjectState, bool, error) {
	if s == nil {
		return ProjectState{}, false, nil
	}
	if s.db != nil {
		return s.updateDB(projectID, mutate)
	}
	return s.updateFile(projectID, mutate)
}

// List returns all project states.
func (s *Store) List() []ProjectState {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

// Delete removes a project and everything it owns.
func (s *Store) Delete(projectID string) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.deleteDB(projectID)
	}
	return s.deleteFile(projectID)
}

// Results returns a project's alternatives, through the read cache when the
// Postgres backend is active.
func (s *Store) Results(projectID string) ([]types.AlternativeRecord, bool) {
	if s == nil {
		return nil, false
	}
	if s.resultCache != nil {
		if alts, ok := s.resultCache.Get(projectID); ok {
			return alts, true
		}
	}
	state, ok := s.Get(projectID)
	if !ok {
		return nil, false
	}
	if s.resultCache != nil {
		s.resultCache.Add(projectID, state.Alternatives)
	}
	return state.Alternatives, true
}

func (s *Store) invalidateResults(projectID string) {
	if s.resultCache != nil {
		s.resultCache.Remove(projectID)
	}
}
