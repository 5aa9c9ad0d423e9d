package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"decana/internal/types"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workspace.json")
	return New(path), path
}

func sampleState(id string) ProjectState {
	return ProjectState{
		Project: types.Project{ID: id, Name: "House hunt"},
		Alternatives: []types.AlternativeRecord{
			{ID: "a1", Data: map[string]any{"price": 1.0}, TotalScore: 3.5},
		},
	}
}

func TestStore_PutGet(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.Put(sampleState("p1")); err != nil {
		t.Fatal(err)
	}
	state, ok := s.Get("p1")
	if !ok {
		t.Fatal("project missing")
	}
	if state.Project.Name != "House hunt" || len(state.Alternatives) != 1 {
		t.Fatalf("state = %+v", state)
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("unknown id found")
	}
	if err := s.Put(ProjectState{}); err == nil {
		t.Error("empty id accepted")
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	s, path := tempStore(t)
	if err := s.Put(sampleState("p1")); err != nil {
		t.Fatal(err)
	}

	reopened := New(path)
	state, ok := reopened.Get("p1")
	if !ok {
		t.Fatal("project lost on reopen")
	}
	if state.Alternatives[0].TotalScore != 3.5 {
		t.Fatalf("alternative = %+v", state.Alternatives[0])
	}

	// The file itself is a readable JSON array.
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 || b[0] != '[' {
		t.Fatalf("unexpected file shape: %.40s", b)
	}
}

func TestStore_Update(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.Put(sampleState("p1")); err != nil {
		t.Fatal(err)
	}
	state, ok, err := s.Update("p1", func(st *ProjectState) {
		st.Project.Name = "Renamed"
		st.Alternatives = append(st.Alternatives, types.AlternativeRecord{ID: "a2"})
	})
	if !ok {
		t.Fatal("update reported missing project")
	}
	if err != nil {
		t.Fatal(err)
	}
	if state.Project.Name != "Renamed" || len(state.Alternatives) != 2 {
		t.Fatalf("state = %+v", state)
	}
	if _, ok, _ := s.Update("nope", func(*ProjectState) {}); ok {
		t.Error("update on unknown id succeeded")
	}
}

func TestStore_UpdateReportsPersistFailure(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "workspace.json"))
	if err := s.Put(sampleState("p1")); err != nil {
		t.Fatal(err)
	}
	// Replace the workspace file's parent with an unwritable directory so
	// the next save fails.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	state, ok, err := s.Update("p1", func(st *ProjectState) {
		st.Project.Name = "Renamed"
	})
	if !ok {
		t.Fatal("update reported missing project")
	}
	if err == nil {
		t.Fatal("persist failure not reported")
	}
	// The in-memory state still carries the mutation.
	if state.Project.Name != "Renamed" {
		t.Fatalf("state = %+v", state)
	}
}

func TestStore_UpdateConcurrent(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.Put(ProjectState{Project: types.Project{ID: "p1", Name: "x"}}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("p1", func(st *ProjectState) {
				st.Alternatives = append(st.Alternatives, types.AlternativeRecord{ID: "a"})
			})
		}()
	}
	wg.Wait()

	state, _ := s.Get("p1")
	if len(state.Alternatives) != 20 {
		t.Fatalf("alternatives = %d, want 20: concurrent updates lost writes", len(state.Alternatives))
	}
}

func TestStore_ListDelete(t *testing.T) {
	s, _ := tempStore(t)
	_ = s.Put(sampleState("p1"))
	_ = s.Put(sampleState("p2"))
	if got := len(s.List()); got != 2 {
		t.Fatalf("list = %d", got)
	}
	if err := s.Delete("p1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("p1"); ok {
		t.Error("deleted project still present")
	}
	if got := len(s.List()); got != 1 {
		t.Fatalf("list after delete = %d", got)
	}
}

func TestStore_Results(t *testing.T) {
	s, _ := tempStore(t)
	_ = s.Put(sampleState("p1"))
	alts, ok := s.Results("p1")
	if !ok || len(alts) != 1 {
		t.Fatalf("results = %v, %v", alts, ok)
	}
	if _, ok := s.Results("nope"); ok {
		t.Error("results for unknown project")
	}
}

func TestStore_NormalizesName(t *testing.T) {
	s, _ := tempStore(t)
	_ = s.Put(ProjectState{Project: types.Project{ID: " p1 ", Name: "   "}})
	state, ok := s.Get("p1")
	if !ok {
		t.Fatal("trimmed id not found")
	}
	if state.Project.Name != "Project" {
		t.Fatalf("name = %q", state.Project.Name)
	}
}

func TestStore_NilReceiver(t *testing.T) {
	var s *Store
	if err := s.Put(sampleState("p1")); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("p1"); ok {
		t.Fatal("nil store returned data")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
