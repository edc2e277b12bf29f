package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultRemoteTimeout = 30 * time.Second

// RemoteStore talks to the inkflowd persistence service. It implements
// the same Store contract as LocalStore; callers normally reach it
// through a FallbackStore rather than directly.
type RemoteStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteStore creates a RemoteStore for the given endpoint,
// e.g. "http://localhost:8080".
func NewRemoteStore(baseURL string) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultRemoteTimeout,
		},
	}
}

// remoteResponse is the service's standard JSON envelope.
type remoteResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// RemoteError is a non-success response from the persistence service.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store error (%d): %s", e.StatusCode, e.Message)
}

// List returns all records of a kind.
func (s *RemoteStore) List(ctx context.Context, kind Kind) ([]Record, error) {
	data, err := s.do(ctx, http.MethodGet, s.kindPath(kind, ""), nil)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}
	return records, nil
}

// Get returns one record, or ErrNotFound on a 404.
func (s *RemoteStore) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	data, err := s.do(ctx, http.MethodGet, s.kindPath(kind, id), nil)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record response: %w", err)
	}
	return &rec, nil
}

// Put inserts or overwrites a record.
func (s *RemoteStore) Put(ctx context.Context, kind Kind, rec Record) error {
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = time.Now().UnixMilli()
	}
	_, err := s.do(ctx, http.MethodPut, s.kindPath(kind, rec.ID), rec)
	return err
}

// Delete removes a record.
func (s *RemoteStore) Delete(ctx context.Context, kind Kind, id string) error {
	_, err := s.do(ctx, http.MethodDelete, s.kindPath(kind, id), nil)
	return err
}

func (s *RemoteStore) kindPath(kind Kind, id string) string {
	path := "/api/" + string(kind)
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	return path
}

func (s *RemoteStore) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var envelope remoteResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &RemoteError{StatusCode: resp.StatusCode, Message: string(respBody)}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	return envelope.Data, nil
}
