// Package pipeline orchestrates ingestion, embedding and review.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkoval/claimlens/internal/chunk"
	"github.com/pkoval/claimlens/internal/draft"
	"github.com/pkoval/claimlens/internal/embed"
	"github.com/pkoval/claimlens/internal/extract"
	"github.com/pkoval/claimlens/internal/llm"
	"github.com/pkoval/claimlens/internal/model"
	"github.com/pkoval/claimlens/internal/report"
	"github.com/pkoval/claimlens/internal/retrieve"
	"github.com/pkoval/claimlens/internal/score"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	SaveDocument(ctx context.Context, doc model.Document) error
	GetDocument(ctx context.Context, id string) (model.Document, error)
	SaveChunks(ctx context.Context, docID string, chunks []model.Chunk) error
	GetChunks(ctx context.Context, docID string) ([]model.Chunk, error)
	SaveVectors(ctx context.Context, docID string, records []model.VectorRecord) error
	GetVectors(ctx context.Context, docID string) ([]model.VectorRecord, error)
	Usage(ctx context.Context) (model.StorageUsage, error)
}

// Pipeline wires the stages together. Construct once per process.
type Pipeline struct {
	cfg       *model.Config
	store     Store
	embedder  embed.Embedder
	retriever *retrieve.Retriever
	miner     *extract.Miner
	chunker   *chunk.Chunker
	drafter   *draft.Drafter
	builder   *report.Builder
	fetcher   *Fetcher
	logw      io.Writer
}

// New creates a pipeline. provider may be nil (template drafts only);
// logw may be nil to discard progress notices.
func New(cfg *model.Config, st Store, embedder embed.Embedder, provider llm.Provider, logw io.Writer) *Pipeline {
	if logw == nil {
		logw = io.Discard
	}

	scorer := score.NewScorer(cfg.Scoring)
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		embedder:  embedder,
		retriever: retrieve.NewRetriever(st, embedder, scorer, cfg.Retrieval),
		miner:     extract.NewMiner(cfg.Extract),
		chunker:   chunk.NewChunker(cfg.Chunking.WindowSize, cfg.Chunking.Overlap),
		drafter:   draft.NewDrafter(provider, logw),
		builder:   report.NewBuilder(cfg.Output),
		fetcher:   NewFetcher(cfg.HTTP),
		logw:      logw,
	}
}

// IngestText normalizes, chunks and stores one document.
// Returns the document record and its chunk count.
func (p *Pipeline) IngestText(ctx context.Context, title, text string, source model.SourceType) (model.Document, int, error) {
	normalized := chunk.Normalize(text)
	if normalized == "" {
		return model.Document{}, 0, fmt.Errorf("document is empty")
	}

	if err := p.checkQuota(ctx, int64(len(normalized))); err != nil {
		return model.Document{}, 0, err
	}

	if title == "" {
		title = snippetTitle(normalized)
	}

	doc := model.Document{
		ID:         newDocID(),
		Title:      title,
		SourceType: source,
		CreatedAt:  time.Now().UTC(),
		Bytes:      int64(len(normalized)),
	}
	if err := p.store.SaveDocument(ctx, doc); err != nil {
		return model.Document{}, 0, err
	}

	chunks := p.chunker.Split(normalized)
	if err := p.store.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return model.Document{}, 0, err
	}
	return doc, len(chunks), nil
}

// IngestFile ingests a plain-text file, using its base name as title.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (model.Document, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, 0, fmt.Errorf("read file: %w", err)
	}
	return p.IngestText(ctx, filepath.Base(path), string(data), model.SourceFile)
}

// IngestPDF extracts text from a PDF and ingests it.
func (p *Pipeline) IngestPDF(ctx context.Context, path string, onProgress func(page, total int)) (model.Document, int, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, 0, err
	}

	text, pages, err := chunk.ExtractPDFText(path, onProgress)
	if err != nil {
		return model.Document{}, 0, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Document{}, 0, fmt.Errorf("no extractable text in %d-page PDF", pages)
	}
	return p.IngestText(ctx, filepath.Base(path), text, model.SourcePDF)
}

// IngestURL fetches a page (honoring robots.txt and per-host rate
// limits) and ingests its visible text.
func (p *Pipeline) IngestURL(ctx context.Context, rawURL string) (model.Document, int, error) {
	res, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return model.Document{}, 0, err
	}
	return p.IngestText(ctx, res.Title, res.Text, model.SourceURL)
}

// EmbedDocument embeds every chunk of a document and stores the vectors,
// replacing any previous set. Returns the vector count.
func (p *Pipeline) EmbedDocument(ctx context.Context, docID string, onProgress func(done, total int)) (int, error) {
	if _, err := p.store.GetDocument(ctx, docID); err != nil {
		return 0, err
	}

	chunks, err := p.store.GetChunks(ctx, docID)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s has no chunks", docID)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := embed.EmbedBatch(ctx, p.embedder, texts, p.cfg.Embedder.BatchStep, onProgress)
	if err != nil {
		return 0, err
	}

	records := make([]model.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = model.VectorRecord{
			ID:     uuid.NewString(),
			DocID:  docID,
			Idx:    c.Idx,
			Text:   c.Text,
			Start:  c.Start,
			End:    c.End,
			Vector: vectors[i],
		}
	}
	if err := p.store.SaveVectors(ctx, docID, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ExtractClaims mines claims from an answer without running retrieval.
func (p *Pipeline) ExtractClaims(answer string) []model.Claim {
	return p.miner.Extract(answer)
}

// Check runs the full review: mine claims, retrieve and label evidence
// per claim, generate the grounded draft and assemble the report.
func (p *Pipeline) Check(ctx context.Context, docID, answer string) (model.Report, error) {
	if _, err := p.store.GetDocument(ctx, docID); err != nil {
		return model.Report{}, err
	}

	normalized := extract.NormalizeAnswer(answer)
	claims := p.miner.Extract(normalized)

	statuses := make(map[string]model.Status, len(claims))
	evidence := make(map[string][]model.EvidenceItem, len(claims))

	for _, c := range claims {
		verdict, err := p.retriever.Retrieve(ctx, c.Text, docID)
		if err != nil {
			if errors.Is(err, retrieve.ErrNoEmbeddings) {
				return model.Report{}, fmt.Errorf("document %s has no embeddings; run `claimlens embed %s` first", docID, docID)
			}
			return model.Report{}, fmt.Errorf("claim %s: %w", c.ID, err)
		}
		statuses[c.ID] = verdict.Status
		evidence[c.ID] = verdict.Items
	}

	draftText, mode := p.drafter.Generate(ctx, draft.Inputs{
		Answer:   normalized,
		Claims:   claims,
		Statuses: statuses,
		Evidence: evidence,
	})

	return p.builder.Build(normalized, draftText, string(mode), claims, statuses, evidence), nil
}

// RenderMarkdown renders a report for terminal or file output.
func (p *Pipeline) RenderMarkdown(r model.Report) string {
	return p.builder.RenderMarkdown(r)
}

// RenderJSON renders a report as indented JSON.
func (p *Pipeline) RenderJSON(r model.Report) (string, error) {
	return p.builder.RenderJSON(r)
}

// checkQuota refuses ingestion that would push storage past the quota.
func (p *Pipeline) checkQuota(ctx context.Context, incoming int64) error {
	quota := p.cfg.Store.QuotaBytes
	if quota <= 0 {
		return nil
	}

	usage, err := p.store.Usage(ctx)
	if err != nil {
		// Usage is best-effort; never block ingestion on it
		return nil
	}
	if usage.UsedBytes+incoming > quota {
		return fmt.Errorf("storage quota exceeded: %d of %d bytes used; delete documents with `claimlens docs delete`",
			usage.UsedBytes, quota)
	}
	return nil
}

// snippetTitle derives a title from the first few words of the text.
func snippetTitle(text string) string {
	fields := strings.Fields(text)
	if len(fields) > 8 {
		fields = fields[:8]
	}
	title := strings.Join(fields, " ")
	if len(title) > 60 {
		title = title[:60]
	}
	return title
}

func newDocID() string {
	return "doc_" + strings.Split(uuid.NewString(), "-")[0]
}
