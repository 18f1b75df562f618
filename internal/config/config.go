package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a configuration or job that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// ExtractorConfig tunes the topic extractor.
type ExtractorConfig struct {
	Engine      string `yaml:"engine"`
	MaxFeatures int    `yaml:"max_features"`
	TopWords    int    `yaml:"top_words"`
	Seed        uint64 `yaml:"seed"`
	MaxIter     int    `yaml:"max_iter,omitempty"`
}

// VectorStoreConfig selects and configures the metadata sink.
type VectorStoreConfig struct {
	Type     string          `yaml:"type"`
	Qdrant   *QdrantConfig   `yaml:"qdrant,omitempty"`
	Pinecone *PineconeConfig `yaml:"pinecone,omitempty"`
	SQLite   *SQLiteConfig   `yaml:"sqlite,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
// The job index name is used as the collection unless Collection is set.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PineconeConfig contains connection details for a Pinecone index host.
type PineconeConfig struct {
	Host        string `yaml:"host"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Namespace   string `yaml:"namespace"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// SQLiteConfig points at a local SQLite vector index.
type SQLiteConfig struct {
	DSN           string `yaml:"dsn"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
}

// JobConfig holds the default job; command line flags override it.
type JobConfig struct {
	Text      string `yaml:"text,omitempty"`
	NTopics   int    `yaml:"n_topics"`
	IndexName string `yaml:"index_name"`
	VectorID  string `yaml:"vector_id,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Extractor   ExtractorConfig   `yaml:"extractor"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Job         JobConfig         `yaml:"job"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./topictag.yaml first, then ~/.config/topictag/config.yaml.
// If neither exists, it writes defaults to ~/.config/topictag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "topictag.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the sink selection and its required settings.
func (c *AppConfig) Validate() error {
	switch c.VectorStore.Type {
	case "memory", "":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return fmt.Errorf("%w: qdrant url missing", ErrInvalid)
		}
	case "pinecone":
		if c.VectorStore.Pinecone == nil || c.VectorStore.Pinecone.Host == "" {
			return fmt.Errorf("%w: pinecone host missing", ErrInvalid)
		}
	case "sqlite":
		if c.VectorStore.SQLite == nil || c.VectorStore.SQLite.DSN == "" {
			return fmt.Errorf("%w: sqlite dsn missing", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown vector store %q", ErrInvalid, c.VectorStore.Type)
	}
	if c.Extractor.MaxFeatures < 0 || c.Extractor.TopWords < 0 {
		return fmt.Errorf("%w: extractor limits must not be negative", ErrInvalid)
	}
	return nil
}

// Validate checks a job at the boundary, before it reaches the extractor.
// requireTarget is false for dry runs that never touch the index.
func (j JobConfig) Validate(requireTarget bool) error {
	if strings.TrimSpace(j.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalid)
	}
	if j.NTopics < 1 {
		return fmt.Errorf("%w: n_topics must be a positive integer, got %d", ErrInvalid, j.NTopics)
	}
	if !requireTarget {
		return nil
	}
	if j.IndexName == "" {
		return fmt.Errorf("%w: index_name is required", ErrInvalid)
	}
	if j.VectorID == "" {
		return fmt.Errorf("%w: vector_id is required", ErrInvalid)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "topictag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Extractor:   ExtractorConfig{Engine: "batch", MaxFeatures: 1000, TopWords: 5, Seed: 42},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Job:         JobConfig{NTopics: 3},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Extractor.Engine == "" {
		cfg.Extractor.Engine = "batch"
	}
	if cfg.Extractor.MaxFeatures == 0 {
		cfg.Extractor.MaxFeatures = 1000
	}
	if cfg.Extractor.TopWords == 0 {
		cfg.Extractor.TopWords = 5
	}
	if cfg.Extractor.Seed == 0 {
		cfg.Extractor.Seed = 42
	}
	if cfg.Job.NTopics == 0 {
		cfg.Job.NTopics = 3
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.URL == "" {
			q.URL = "http://localhost:6333"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
	if p := cfg.VectorStore.Pinecone; p != nil {
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = "PINECONE_API_KEY"
		}
		if p.TimeoutSecs == 0 {
			p.TimeoutSecs = 30
		}
	}
	if s := cfg.VectorStore.SQLite; s != nil && s.BusyTimeoutMS == 0 {
		s.BusyTimeoutMS = 5000
	}
}
