package storage

import (
	"context"
	"errors"
	"log"
)

// FallbackStore composes a remote store with a local cache. Reads prefer
// remote and silently fall back to local on remote failure; every write
// lands in local whether or not the remote call succeeded, so local is
// always a superset cache of the most recent known-good data. Remote
// unavailability never blocks or fails the caller.
type FallbackStore struct {
	remote Store
	local  Store
}

// NewFallbackStore creates a FallbackStore over the given backends.
func NewFallbackStore(remote, local Store) *FallbackStore {
	return &FallbackStore{remote: remote, local: local}
}

// List lists from remote, mirroring the result into the local cache.
// On remote failure it serves the local cache and logs a warning.
func (s *FallbackStore) List(ctx context.Context, kind Kind) ([]Record, error) {
	records, err := s.remote.List(ctx, kind)
	if err != nil {
		log.Printf("storage: remote list %s failed, serving local cache: %v", kind, err)
		return s.local.List(ctx, kind)
	}

	for _, rec := range records {
		if mirrorErr := s.local.Put(ctx, kind, rec); mirrorErr != nil {
			log.Printf("storage: failed to mirror %s/%s to local cache: %v", kind, rec.ID, mirrorErr)
		}
	}
	return records, nil
}

// Get reads from remote, mirroring a hit into the local cache. A remote
// 404 is authoritative and propagates; transport and server errors fall
// back to the local cache.
func (s *FallbackStore) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	rec, err := s.remote.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		log.Printf("storage: remote get %s/%s failed, serving local cache: %v", kind, id, err)
		return s.local.Get(ctx, kind, id)
	}

	if mirrorErr := s.local.Put(ctx, kind, *rec); mirrorErr != nil {
		log.Printf("storage: failed to mirror %s/%s to local cache: %v", kind, id, mirrorErr)
	}
	return rec, nil
}

// Put writes remote best-effort and local unconditionally. Only a local
// failure is surfaced; a remote failure is logged and swallowed.
func (s *FallbackStore) Put(ctx context.Context, kind Kind, rec Record) error {
	if err := s.remote.Put(ctx, kind, rec); err != nil {
		log.Printf("storage: remote put %s/%s failed, write kept locally: %v", kind, rec.ID, err)
	}
	return s.local.Put(ctx, kind, rec)
}

// Delete deletes remote best-effort and local unconditionally.
func (s *FallbackStore) Delete(ctx context.Context, kind Kind, id string) error {
	if err := s.remote.Delete(ctx, kind, id); err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("storage: remote delete %s/%s failed, deleted locally: %v", kind, id, err)
	}
	return s.local.Delete(ctx, kind, id)
}
