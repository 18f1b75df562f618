package main

import (
	"fmt"
	"os"
	"time"

	"topictag/internal/config"
	"topictag/internal/vectorstore"
	"topictag/internal/vectorstore/memory"
	"topictag/internal/vectorstore/pinecone"
	"topictag/internal/vectorstore/qdrant"
	"topictag/internal/vectorstore/sqlite"
)

// newStore assembles the configured metadata sink. The caller owns its lifecycle.
func newStore(cfg config.VectorStoreConfig) (vectorstore.Storage, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     envOrEmpty(cfg.Qdrant.APIKeyEnv),
			Collection: cfg.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	case "pinecone":
		if cfg.Pinecone == nil {
			return nil, fmt.Errorf("pinecone config missing")
		}
		return pinecone.NewStorage(pinecone.Config{
			Host:      cfg.Pinecone.Host,
			APIKey:    envOrEmpty(cfg.Pinecone.APIKeyEnv),
			Namespace: cfg.Pinecone.Namespace,
			Timeout:   time.Duration(cfg.Pinecone.TimeoutSecs) * time.Second,
		})
	case "sqlite":
		if cfg.SQLite == nil {
			return nil, fmt.Errorf("sqlite config missing")
		}
		return sqlite.NewStorage(sqlite.Config{DSN: cfg.SQLite.DSN, BusyTimeoutMS: cfg.SQLite.BusyTimeoutMS}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

func envOrEmpty(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
