// Package retrieve finds and labels evidence for a claim inside one
// embedded document.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pkoval/claimlens/internal/index"
	"github.com/pkoval/claimlens/internal/model"
	"github.com/pkoval/claimlens/internal/score"
)

// ErrNoEmbeddings signals that the document exists but was never
// embedded. Callers surface this as an actionable message, not a crash.
var ErrNoEmbeddings = errors.New("document has no embeddings")

// VectorSource supplies the stored vectors for a document.
type VectorSource interface {
	GetVectors(ctx context.Context, docID string) ([]model.VectorRecord, error)
}

// Embedder is the minimal embedding surface retrieval needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Verdict is the retrieval outcome for a single claim.
type Verdict struct {
	Status model.Status
	Items  []model.EvidenceItem
}

// Retriever embeds a claim, ranks document chunks by similarity and
// labels the top matches.
type Retriever struct {
	source   VectorSource
	embedder Embedder
	scorer   *score.Scorer
	topK     int
}

// NewRetriever wires a retriever from its collaborators.
func NewRetriever(source VectorSource, embedder Embedder, scorer *score.Scorer, cfg model.RetrievalConfig) *Retriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		source:   source,
		embedder: embedder,
		scorer:   scorer,
		topK:     topK,
	}
}

// Retrieve finds the topK most similar chunks for claimText in docID and
// reduces their labels to one status: a single contradiction forces
// unknown, otherwise any supporting chunk yields supported.
func (r *Retriever) Retrieve(ctx context.Context, claimText, docID string) (Verdict, error) {
	if strings.TrimSpace(claimText) == "" {
		return Verdict{Status: model.StatusUnknown}, nil
	}

	rows, err := r.source.GetVectors(ctx, docID)
	if err != nil {
		return Verdict{}, fmt.Errorf("loading vectors: %w", err)
	}
	if len(rows) == 0 {
		return Verdict{}, ErrNoEmbeddings
	}

	query, err := r.embedder.Embed(ctx, claimText)
	if err != nil {
		return Verdict{}, fmt.Errorf("embedding claim: %w", err)
	}

	ranked := index.Rank(query, rows, r.topK)

	items := make([]model.EvidenceItem, 0, len(ranked))
	anySupported := false
	anyContradiction := false

	for _, rk := range ranked {
		res := r.scorer.Score(claimText, rk.Record.Text)
		switch res.Label {
		case model.LabelSupported:
			anySupported = true
		case model.LabelContradiction:
			anyContradiction = true
		}
		items = append(items, model.EvidenceItem{
			Idx:     rk.Record.Idx,
			Text:    rk.Record.Text,
			Score:   rk.Sim,
			Overlap: res.Overlap,
			Label:   res.Label,
		})
	}

	status := model.StatusUnknown
	if anySupported && !anyContradiction {
		status = model.StatusSupported
	}
	return Verdict{Status: status, Items: items}, nil
}
