package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"topictag/internal/vectorstore"
)

// Storage updates record metadata through the Pinecone data plane API.
type Storage struct {
	host      string
	apiKey    string
	namespace string
	client    *http.Client
}

type Config struct {
	// Host is the index host. A literal "{index}" is replaced by the index
	// name passed to UpdateMetadata.
	Host      string
	APIKey    string
	Namespace string
	Timeout   time.Duration
}

func NewStorage(cfg Config) (*Storage, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("pinecone api key is empty")
	}
	if cfg.Host == "" {
		return nil, errors.New("pinecone host is empty")
	}
	host := strings.TrimRight(cfg.Host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Storage{
		host:      host,
		apiKey:    cfg.APIKey,
		namespace: cfg.Namespace,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (s *Storage) Name() string { return "pinecone" }

// Open checks the host and key. Hosts with an {index} placeholder are
// resolved per call and are not checked here.
func (s *Storage) Open(ctx context.Context) error {
	if strings.Contains(s.host, "{index}") {
		return nil
	}
	return s.post(ctx, s.host, "/describe_index_stats", map[string]any{})
}

func (s *Storage) UpdateMetadata(ctx context.Context, index, vectorID string, metadata map[string]string) error {
	if vectorID == "" {
		return errors.New("vector id is required")
	}
	host := strings.ReplaceAll(s.host, "{index}", index)
	body := map[string]any{
		"id":          vectorID,
		"setMetadata": metadata,
	}
	if s.namespace != "" {
		body["namespace"] = s.namespace
	}
	err := s.post(ctx, host, "/vectors/update", body)
	if errors.Is(err, errNotFound) {
		return fmt.Errorf("%w: %s/%s", vectorstore.ErrNotFound, index, vectorID)
	}
	return err
}

func (s *Storage) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

var errNotFound = errors.New("pinecone: not found")

func (s *Storage) post(ctx context.Context, host, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
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
		return fmt.Errorf("pinecone error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
