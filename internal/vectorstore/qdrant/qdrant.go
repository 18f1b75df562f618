package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"topictag/internal/vectorstore"
)

// Storage is a minimal REST client to Qdrant that sets payload fields on
// existing points.
type Storage struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

type Config struct {
	URL    string
	APIKey string
	// Collection overrides the index name passed to UpdateMetadata.
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) Name() string { return "qdrant" }

// Open checks that the server is reachable and accepts the API key.
func (s *Storage) Open(ctx context.Context) error {
	if s.url == "" {
		return errors.New("qdrant url is empty")
	}
	return s.do(ctx, http.MethodGet, "/collections", nil)
}

// UpdateMetadata sets the metadata fields on the point, leaving other payload keys intact.
func (s *Storage) UpdateMetadata(ctx context.Context, index, vectorID string, metadata map[string]string) error {
	collection := s.collection
	if collection == "" {
		collection = index
	}
	if collection == "" || vectorID == "" {
		return errors.New("collection and vector id are required")
	}
	body := map[string]any{
		"payload": metadata,
		"points":  []any{pointID(vectorID)},
	}
	err := s.do(ctx, http.MethodPost, "/collections/"+url.PathEscape(collection)+"/points/payload?wait=true", body)
	if errors.Is(err, errNotFound) {
		return fmt.Errorf("%w: %s/%s", vectorstore.ErrNotFound, collection, vectorID)
	}
	return err
}

func (s *Storage) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// pointID keeps numeric ids numeric; Qdrant accepts unsigned integers or UUID strings.
func pointID(id string) any {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return n
	}
	return id
}

var errNotFound = errors.New("qdrant: not found")

func (s *Storage) do(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.url+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
