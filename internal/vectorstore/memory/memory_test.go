package memory

import (
	"context"
	"testing"
)

func TestStorage_UpdateMerges(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.UpdateMetadata(ctx, "docs", "v1", map[string]string{"text": "hello"}); err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}
	if err := s.UpdateMetadata(ctx, "docs", "v1", map[string]string{"topics": "solar, wind"}); err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}
	got, ok := s.Metadata("docs", "v1")
	if !ok {
		t.Fatal("record not found")
	}
	if got["text"] != "hello" || got["topics"] != "solar, wind" {
		t.Errorf("Metadata = %v", got)
	}
	if _, ok := s.Metadata("other", "v1"); ok {
		t.Errorf("record leaked across indexes")
	}
}

func TestStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.UpdateMetadata(ctx, "docs", "v1", nil); err == nil {
		t.Error("expected error before Open")
	}
	_ = s.Open(ctx)
	if err := s.UpdateMetadata(ctx, "", "v1", nil); err == nil {
		t.Error("expected error for empty index")
	}
	_ = s.Close()
	if err := s.UpdateMetadata(ctx, "docs", "v1", nil); err == nil {
		t.Error("expected error after Close")
	}
}
