package domain

import "context"

// TopicDescriptor is one extracted topic: its index in model order and the
// highest weighted vocabulary terms, strongest first.
type TopicDescriptor struct {
	Topic int      `json:"topic"`
	Words []string `json:"words"`
}

// Job describes one tagging request against a stored vector record.
type Job struct {
	Text      string
	NTopics   int
	IndexName string
	VectorID  string
}

// TopicExtractor converts a single block of text into topic descriptors.
type TopicExtractor interface {
	Extract(text string, nTopics int) ([]TopicDescriptor, error)
}

// MetadataStore writes metadata against an existing record of a vector index.
type MetadataStore interface {
	Name() string
	Open(ctx context.Context) error
	UpdateMetadata(ctx context.Context, index, vectorID string, metadata map[string]string) error
	Close() error
}

// TaggingService defines the operations exposed by the application core.
type TaggingService interface {
	Extract(text string, nTopics int) ([]TopicDescriptor, error)
	Tag(ctx context.Context, job Job) ([]TopicDescriptor, error)
}
