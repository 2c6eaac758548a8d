package model

import "time"

// SourceType records how a document entered the store
type SourceType string

const (
	SourcePasted SourceType = "pasted"
	SourceFile   SourceType = "file"
	SourcePDF    SourceType = "pdf"
	SourceURL    SourceType = "url"
)

// Document is the metadata record for one ingested source.
type Document struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SourceType SourceType `json:"source_type"`
	CreatedAt  time.Time  `json:"created_at"`
	Bytes      int64      `json:"bytes"` // Rough size of the original text
}

// Chunk is a fixed-size overlapping character window of a document.
// Offsets index into the normalized source text; End is exclusive.
type Chunk struct {
	Idx   int    `json:"idx"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// VectorRecord is one stored embedding, keyed by (DocID, Idx).
// Text is a denormalized copy of the chunk so retrieval never needs a join.
type VectorRecord struct {
	ID     string    `json:"id"`
	DocID  string    `json:"doc_id"`
	Idx    int       `json:"idx"`
	Text   string    `json:"text"`
	Start  int       `json:"start"`
	End    int       `json:"end"`
	Vector []float32 `json:"vector"`
}

// StorageUsage is a best-effort estimate of local storage consumption.
// Zero values mean unknown; callers must treat this as cosmetic telemetry.
type StorageUsage struct {
	UsedBytes  int64 `json:"used_bytes"`
	QuotaBytes int64 `json:"quota_bytes"`
}
