// Package vectorstore writes topic metadata onto records of a vector index.
package vectorstore

import (
	"errors"
	"strings"

	"topictag/internal/domain"
)

// TopicsKey is the metadata field that carries the joined topic words.
const TopicsKey = "topics"

// WordSeparator joins topic words into the flat metadata value.
const WordSeparator = ", "

// ErrNotFound is returned when the target record does not exist in the index.
var ErrNotFound = errors.New("vector record not found")

// Storage writes metadata against records of an external vector index.
// Lifecycle: Open, any number of UpdateMetadata calls, Close.
type Storage = domain.MetadataStore

// TopicsMetadata flattens descriptors into the metadata written to the
// index: every word of every topic, in topic order, joined by WordSeparator.
func TopicsMetadata(topics []domain.TopicDescriptor) map[string]string {
	var words []string
	for _, t := range topics {
		words = append(words, t.Words...)
	}
	return map[string]string{TopicsKey: strings.Join(words, WordSeparator)}
}
