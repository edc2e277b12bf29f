package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/freefly-ai/inkflow/internal/storage"
)

// memStore is an in-memory storage.Store for service tests.
type memStore struct {
	mu      sync.Mutex
	records map[storage.Kind][]storage.Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[storage.Kind][]storage.Record)}
}

func (s *memStore) List(_ context.Context, kind storage.Kind) ([]storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.Record(nil), s.records[kind]...), nil
}

func (s *memStore) Get(_ context.Context, kind storage.Kind, id string) (*storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records[kind] {
		if rec.ID == id {
			rec := rec
			return &rec, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) Put(_ context.Context, kind storage.Kind, rec storage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.records[kind] {
		if existing.ID == rec.ID {
			s.records[kind][i] = rec
			return nil
		}
	}
	s.records[kind] = append(s.records[kind], rec)
	return nil
}

func (s *memStore) Delete(_ context.Context, kind storage.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[kind][:0]
	for _, rec := range s.records[kind] {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	s.records[kind] = kept
	return nil
}

// seqIDs generates deterministic sequential ids for tests.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// fakeProvider is a canned TextProvider.
type fakeProvider struct {
	completeText  string
	completeErr   error
	structured    string
	structuredErr error
	streamChunks  []string
	streamErr     error

	completeCalls   int
	structuredCalls int
	lastSystem      string
	lastPrompt      string
	lastTemperature float32
}

func (p *fakeProvider) Complete(_ context.Context, system, prompt string, temperature float32) (string, error) {
	p.completeCalls++
	p.lastSystem = system
	p.lastPrompt = prompt
	p.lastTemperature = temperature
	return p.completeText, p.completeErr
}

func (p *fakeProvider) CompleteStream(_ context.Context, system, prompt string, temperature float32, sink func(string)) (string, error) {
	p.completeCalls++
	p.lastSystem = system
	p.lastPrompt = prompt
	p.lastTemperature = temperature
	if p.streamErr != nil {
		return "", p.streamErr
	}
	var full string
	for _, chunk := range p.streamChunks {
		full += chunk
		if sink != nil {
			sink(chunk)
		}
	}
	return full, nil
}

func (p *fakeProvider) CompleteStructured(_ context.Context, prompt string, temperature float32) (string, error) {
	p.structuredCalls++
	p.lastPrompt = prompt
	p.lastTemperature = temperature
	return p.structured, p.structuredErr
}

// newTestLibrary wires a LibraryService over a fresh memStore with
// deterministic ids and a fixed clock.
func newTestLibrary() (*LibraryService, *memStore) {
	store := newMemStore()
	lib := NewLibraryService(store)
	lib.ids = &seqIDs{}
	lib.now = func() int64 { return 1700000000000 }
	return lib, store
}
