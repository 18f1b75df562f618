package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"topictag/internal/config"
	"topictag/internal/topics"
)

func TestReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	tests := []struct {
		name     string
		text     string
		file     string
		args     []string
		fallback string
		want     string
	}{
		{name: "flag wins", text: "from flag", file: path, args: []string{"arg"}, want: "from flag"},
		{name: "file", file: path, args: []string{"arg"}, want: "from file"},
		{name: "args", args: []string{"cats", "dogs"}, want: "cats dogs"},
		{name: "config fallback", fallback: "from config", want: "from config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(tt.text, tt.file, tt.args, tt.fallback)
			if err != nil {
				t.Fatalf("readText failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("readText() = %q, want %q", got, tt.want)
			}
		})
	}
	if _, err := readText("", filepath.Join(t.TempDir(), "missing.txt"), nil, ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewStore(t *testing.T) {
	t.Setenv("TEST_PINECONE_KEY", "k")
	tests := []struct {
		name     string
		cfg      config.VectorStoreConfig
		wantName string
		wantErr  bool
	}{
		{name: "default", cfg: config.VectorStoreConfig{}, wantName: "memory"},
		{name: "qdrant", cfg: config.VectorStoreConfig{Type: "qdrant", Qdrant: &config.QdrantConfig{URL: "http://localhost:6333"}}, wantName: "qdrant"},
		{name: "pinecone", cfg: config.VectorStoreConfig{Type: "pinecone", Pinecone: &config.PineconeConfig{Host: "idx.pinecone.io", APIKeyEnv: "TEST_PINECONE_KEY"}}, wantName: "pinecone"},
		{name: "pinecone without key", cfg: config.VectorStoreConfig{Type: "pinecone", Pinecone: &config.PineconeConfig{Host: "idx.pinecone.io", APIKeyEnv: "TEST_UNSET_KEY"}}, wantErr: true},
		{name: "sqlite", cfg: config.VectorStoreConfig{Type: "sqlite", SQLite: &config.SQLiteConfig{DSN: ":memory:"}}, wantName: "sqlite"},
		{name: "qdrant missing", cfg: config.VectorStoreConfig{Type: "qdrant"}, wantErr: true},
		{name: "unknown", cfg: config.VectorStoreConfig{Type: "milvus"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := newStore(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && store.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", store.Name(), tt.wantName)
			}
		})
	}
}

func TestRun_DryRunWritesReport(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	var out bytes.Buffer
	err := run([]string{"-config", cfgPath, "-dry-run", "-topics", "1", "-text", "cats dogs cats dogs pizza pizza pizza burgers fries"}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := `{"topics":[{"topic":0,"words":["pizza","cats","dogs","burgers","fries"]}]}`
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("report = %s, want %s", got, want)
	}
}

func TestRun_ReturnsErrors(t *testing.T) {
	dir := t.TempDir()
	sqlitePath := filepath.Join(dir, "index.db")
	cfgPath := filepath.Join(dir, "topictag.yaml")
	cfg := "vector_store:\n  type: sqlite\n  sqlite:\n    dsn: " + sqlitePath + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "stop words only", args: []string{"-config", cfgPath, "-dry-run", "-text", "the a an of"}, is: topics.ErrInput},
		{name: "missing target", args: []string{"-config", cfgPath, "-text", "solar wind"}, is: config.ErrInvalid},
		{name: "record not in index", args: []string{"-config", cfgPath, "-index", "docs", "-id", "v1", "-text", "solar wind"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("run error = %v, want %v", err, tt.is)
			}
			if out.Len() != 0 {
				t.Errorf("report written on failure: %s", out.String())
			}
		})
	}
}
