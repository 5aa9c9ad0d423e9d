package ident

import (
	"sync"
	"testing"
)

func TestUUID_Unique(t *testing.T) {
	g := UUID{}
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id %q at %d", id, i)
		}
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	g := &Sequence{Prefix: "c"}
	if got := g.NewID(); got != "c-1" {
		t.Fatalf("first id = %q", got)
	}
	if got := g.NewID(); got != "c-2" {
		t.Fatalf("second id = %q", got)
	}
}

func TestSequence_Concurrent(t *testing.T) {
	g := &Sequence{Prefix: "c"}
	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- g.NewID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
