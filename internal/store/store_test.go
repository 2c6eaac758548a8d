package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pkoval/claimlens/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 1024*1024)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_DocumentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := model.Document{
		ID:         "doc_1",
		Title:      "Annual Report",
		SourceType: model.SourcePDF,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Bytes:      2048,
	}
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	got, err := s.GetDocument(ctx, "doc_1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got.Title != doc.Title || got.SourceType != doc.SourceType || got.Bytes != doc.Bytes {
		t.Errorf("Document mismatch: %+v vs %+v", got, doc)
	}

	if _, err := s.GetDocument(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"old", "mid", "new"} {
		doc := model.Document{
			ID:         id,
			Title:      id,
			SourceType: model.SourcePasted,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.SaveDocument(ctx, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
	}

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 3 || docs[0].ID != "new" || docs[2].ID != "old" {
		t.Errorf("Unexpected order: %+v", docs)
	}
}

func TestStore_ChunksRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := model.Document{ID: "doc_c", Title: "t", SourceType: model.SourceFile, CreatedAt: time.Now()}
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	chunks := []model.Chunk{
		{Idx: 0, Start: 0, End: 10, Text: "first part"},
		{Idx: 1, Start: 8, End: 20, Text: "second part"},
	}
	if err := s.SaveChunks(ctx, "doc_c", chunks); err != nil {
		t.Fatalf("SaveChunks failed: %v", err)
	}

	got, err := s.GetChunks(ctx, "doc_c")
	if err != nil {
		t.Fatalf("GetChunks failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(got))
	}
	if got[1].Start != 8 || got[1].End != 20 || got[1].Text != "second part" {
		t.Errorf("Chunk mismatch: %+v", got[1])
	}

	// Re-saving replaces, not appends
	if err := s.SaveChunks(ctx, "doc_c", chunks[:1]); err != nil {
		t.Fatalf("SaveChunks failed: %v", err)
	}
	got, _ = s.GetChunks(ctx, "doc_c")
	if len(got) != 1 {
		t.Errorf("Expected replace-all semantics, got %d chunks", len(got))
	}
}

func TestStore_VectorsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := model.Document{ID: "doc_v", Title: "t", SourceType: model.SourceURL, CreatedAt: time.Now()}
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	has, err := s.HasVectors(ctx, "doc_v")
	if err != nil || has {
		t.Fatalf("Expected no vectors yet, has=%v err=%v", has, err)
	}

	records := []model.VectorRecord{
		{ID: "v0", DocID: "doc_v", Idx: 0, Text: "alpha", Start: 0, End: 5, Vector: []float32{0.1, -0.2, 0.3}},
		{ID: "v1", DocID: "doc_v", Idx: 1, Text: "beta", Start: 5, End: 9, Vector: []float32{0.4, 0.5, -0.6}},
	}
	if err := s.SaveVectors(ctx, "doc_v", records); err != nil {
		t.Fatalf("SaveVectors failed: %v", err)
	}

	got, err := s.GetVectors(ctx, "doc_v")
	if err != nil {
		t.Fatalf("GetVectors failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	for i, r := range got {
		if r.Text != records[i].Text || r.Start != records[i].Start || r.End != records[i].End {
			t.Errorf("Record %d mismatch: %+v", i, r)
		}
		for j := range r.Vector {
			if diff := math.Abs(float64(r.Vector[j] - records[i].Vector[j])); diff > 1e-6 {
				t.Errorf("Vector %d[%d] drifted by %g", i, j, diff)
			}
		}
	}

	has, _ = s.HasVectors(ctx, "doc_v")
	if !has {
		t.Error("Expected HasVectors true after save")
	}
}

func TestStore_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := model.Document{ID: "doc_d", Title: "t", SourceType: model.SourcePasted, CreatedAt: time.Now()}
	s.SaveDocument(ctx, doc)
	s.SaveChunks(ctx, "doc_d", []model.Chunk{{Idx: 0, Start: 0, End: 4, Text: "text"}})
	s.SaveVectors(ctx, "doc_d", []model.VectorRecord{{ID: "v", DocID: "doc_d", Vector: []float32{1}}})

	if err := s.DeleteDocument(ctx, "doc_d"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if chunks, _ := s.GetChunks(ctx, "doc_d"); len(chunks) != 0 {
		t.Error("Chunks survived document delete")
	}
	if vecs, _ := s.GetVectors(ctx, "doc_d"); len(vecs) != 0 {
		t.Error("Vectors survived document delete")
	}

	if err := s.DeleteDocument(ctx, "doc_d"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}

func TestStore_ClearAllAndUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveDocument(ctx, model.Document{ID: "a", Title: "a", SourceType: model.SourcePasted, CreatedAt: time.Now()})
	s.SaveDocument(ctx, model.Document{ID: "b", Title: "b", SourceType: model.SourcePasted, CreatedAt: time.Now()})

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	docs, _ := s.ListDocuments(ctx)
	if len(docs) != 0 {
		t.Errorf("Expected empty store, got %d documents", len(docs))
	}

	usage, err := s.Usage(ctx)
	if err != nil {
		t.Fatalf("Usage failed: %v", err)
	}
	if usage.UsedBytes <= 0 {
		t.Error("Expected non-zero database size")
	}
	if usage.QuotaBytes != 1024*1024 {
		t.Errorf("Expected configured quota, got %d", usage.QuotaBytes)
	}
}
