package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"topictag/internal/vectorstore"
)

func TestStorage_UpdateMetadata(t *testing.T) {
	var gotPath, gotKey string
	var gotBody struct {
		Payload map[string]string `json:"payload"`
		Points  []any             `json:"points"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/collections" {
			w.Write([]byte(`{"result":{"collections":[]}}`))
			return
		}
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"result":{"status":"completed"}}`))
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, APIKey: "secret"})
	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.UpdateMetadata(ctx, "docs", "42", map[string]string{"topics": "solar, wind"}); err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}
	if gotPath != "/collections/docs/points/payload" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api-key = %q", gotKey)
	}
	if gotBody.Payload["topics"] != "solar, wind" {
		t.Errorf("payload = %v", gotBody.Payload)
	}
	if len(gotBody.Points) != 1 || gotBody.Points[0] != float64(42) {
		t.Errorf("points = %v, want [42]", gotBody.Points)
	}
}

func TestStorage_CollectionOverride(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "chunks"})
	if err := s.UpdateMetadata(context.Background(), "docs", "b7c1f2de-0000-4000-8000-000000000001", map[string]string{"topics": "x"}); err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}
	if gotPath != "/collections/chunks/points/payload" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestStorage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		notFound bool
	}{
		{name: "missing point", status: http.StatusNotFound, notFound: true},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "bad request", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"status":{"error":"boom"}}`))
			}))
			defer srv.Close()

			err := NewStorage(Config{URL: srv.URL}).UpdateMetadata(context.Background(), "docs", "1", map[string]string{"topics": "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, vectorstore.ErrNotFound); got != tt.notFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v (err: %v)", got, tt.notFound, err)
			}
		})
	}
}
