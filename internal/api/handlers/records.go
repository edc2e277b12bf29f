// Package handlers implements the sync service's HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/freefly-ai/inkflow/internal/api"
	"github.com/freefly-ai/inkflow/internal/storage"
)

// RecordHandler serves the uniform record CRUD for one kind. One
// instance per kind is mounted under /api/{kind}.
type RecordHandler struct {
	store storage.Store
	kind  storage.Kind
}

func NewRecordHandler(store storage.Store, kind storage.Kind) *RecordHandler {
	return &RecordHandler{store: store, kind: kind}
}

// List returns every record of the kind. No pagination: collections are
// one author's library.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context(), h.kind)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	if records == nil {
		records = []storage.Record{}
	}
	api.Success(w, http.StatusOK, records)
}

func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.store.Get(r.Context(), h.kind, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "record not found")
			return
		}
		api.Error(w, http.StatusInternalServerError, "failed to get record")
		return
	}
	api.Success(w, http.StatusOK, rec)
}

func (h *RecordHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var rec storage.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The path id is authoritative.
	rec.ID = id
	if rec.ID == "" {
		api.Error(w, http.StatusBadRequest, "record id is required")
		return
	}
	if len(rec.Data) == 0 {
		api.Error(w, http.StatusBadRequest, "record data is required")
		return
	}
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = time.Now().UnixMilli()
	}

	if err := h.store.Put(r.Context(), h.kind, rec); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to store record")
		return
	}
	api.Success(w, http.StatusOK, rec)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), h.kind, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "record not found")
			return
		}
		api.Error(w, http.StatusInternalServerError, "failed to delete record")
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"id": id})
}
