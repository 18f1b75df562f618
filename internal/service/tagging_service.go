package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"topictag/internal/domain"
	"topictag/internal/vectorstore"
)

var _ domain.TaggingService = (*TaggingServiceImpl)(nil)

type TaggingServiceImpl struct {
	extractor domain.TopicExtractor
	store     domain.MetadataStore
	logger    *slog.Logger
}

// NewTaggingService wires an extractor to a metadata store. store may be nil
// for extraction-only use; logger defaults to slog.Default().
func NewTaggingService(extractor domain.TopicExtractor, store domain.MetadataStore, logger *slog.Logger) *TaggingServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaggingServiceImpl{extractor: extractor, store: store, logger: logger}
}

// Extract runs topic extraction without touching the index.
func (s *TaggingServiceImpl) Extract(text string, nTopics int) ([]domain.TopicDescriptor, error) {
	start := time.Now()
	topics, err := s.extractor.Extract(text, nTopics)
	if err != nil {
		s.logger.Debug("topic extraction failed", "n_topics", nTopics, "error", err)
		return nil, err
	}
	s.logger.Debug("topics extracted",
		"n_topics", nTopics,
		"text_bytes", len(text),
		"elapsed", time.Since(start),
	)
	return topics, nil
}

// Tag extracts topics from job.Text and writes them onto job.VectorID.
// Nothing is written unless extraction succeeds completely.
func (s *TaggingServiceImpl) Tag(ctx context.Context, job domain.Job) ([]domain.TopicDescriptor, error) {
	if s.store == nil {
		return nil, errors.New("no vector store configured")
	}
	topics, err := s.Extract(job.Text, job.NTopics)
	if err != nil {
		return nil, err
	}
	metadata := vectorstore.TopicsMetadata(topics)
	if err := s.store.UpdateMetadata(ctx, job.IndexName, job.VectorID, metadata); err != nil {
		return nil, fmt.Errorf("%s: update metadata of %s/%s: %w", s.store.Name(), job.IndexName, job.VectorID, err)
	}
	s.logger.Info("metadata updated",
		"store", s.store.Name(),
		"index", job.IndexName,
		"vector_id", job.VectorID,
		"topics", metadata[vectorstore.TopicsKey],
	)
	return topics, nil
}
