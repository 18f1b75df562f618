package service

import (
	"encoding/json"
	"io"

	"topictag/internal/domain"
)

// Report is the result printed for other processes: {"topics": [...]}.
type Report struct {
	Topics []domain.TopicDescriptor `json:"topics"`
}

// WriteReport encodes topics as a single JSON line.
func WriteReport(w io.Writer, topics []domain.TopicDescriptor) error {
	if topics == nil {
		topics = []domain.TopicDescriptor{}
	}
	return json.NewEncoder(w).Encode(Report{Topics: topics})
}
