package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-backend/internal/ai"
	"github.com/studydeck/studydeck-backend/internal/clients/docling"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// stubRouter satisfies ai.Completer with a canned response, recording
// every request it sees.
type stubRouter struct {
	resp     *ai.RouterResponse
	err      error
	requests []ai.RouterRequest
}

func (s *stubRouter) Route(ctx context.Context, req ai.RouterRequest) (*ai.RouterResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type fakeDocumentRepo struct {
	docs map[uuid.UUID]*types.Document
}

func newFakeDocumentRepo(docs ...*types.Document) *fakeDocumentRepo {
	r := &fakeDocumentRepo{docs: map[uuid.UUID]*types.Document{}}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *fakeDocumentRepo) Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error) {
	for _, d := range docs {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		r.docs[d.ID] = d
	}
	return docs, nil
}

func (r *fakeDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error) {
	var out []*types.Document
	for _, id := range ids {
		if d, ok := r.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Document, error) {
	var out []*types.Document
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	d, ok := r.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	applyDocumentFields(d, fields)
	return nil
}

func applyDocumentFields(d *types.Document, fields map[string]any) {
	if v, ok := fields["status"]; ok {
		d.Status = v.(string)
	}
	if v, ok := fields["error"]; ok {
		d.Error = v.(string)
	}
	if v, ok := fields["extracted_text"]; ok {
		d.ExtractedText = v.(string)
	}
}

type fakeGenerationRepo struct {
	gens map[uuid.UUID]*types.Generation
}

func newFakeGenerationRepo(gens ...*types.Generation) *fakeGenerationRepo {
	r := &fakeGenerationRepo{gens: map[uuid.UUID]*types.Generation{}}
	for _, g := range gens {
		r.gens[g.ID] = g
	}
	return r
}

func (r *fakeGenerationRepo) Create(ctx context.Context, tx *gorm.DB, gens []*types.Generation) ([]*types.Generation, error) {
	for _, g := range gens {
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		g.CreatedAt = time.Now()
		r.gens[g.ID] = g
	}
	return gens, nil
}

func (r *fakeGenerationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Generation, error) {
	var out []*types.Generation
	for _, id := range ids {
		if g, ok := r.gens[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGenerationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Generation, error) {
	var out []*types.Generation
	for _, g := range r.gens {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGenerationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	g, ok := r.gens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["status"]; ok {
		g.Status = v.(types.GenerationStatus)
	}
	if v, ok := fields["error"]; ok {
		g.Error = v.(string)
	}
	return nil
}

type fakeFlashcardItemRepo struct {
	items []*types.FlashcardItem
}

func (r *fakeFlashcardItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.FlashcardItem) ([]*types.FlashcardItem, error) {
	r.items = append(r.items, items...)
	return items, nil
}

func (r *fakeFlashcardItemRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.FlashcardItem, error) {
	var out []*types.FlashcardItem
	for _, it := range r.items {
		if it.GenerationID == generationID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeFlashcardItemRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	var kept []*types.FlashcardItem
	for _, it := range r.items {
		if it.GenerationID != generationID {
			kept = append(kept, it)
		}
	}
	r.items = kept
	return nil
}

type fakeQuizItemRepo struct {
	items []*types.QuizItem
}

func (r *fakeQuizItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.QuizItem) ([]*types.QuizItem, error) {
	r.items = append(r.items, items...)
	return items, nil
}

func (r *fakeQuizItemRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.QuizItem, error) {
	return r.items, nil
}

func (r *fakeQuizItemRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	r.items = nil
	return nil
}

type fakeNotesContentRepo struct {
	rows []*types.NotesContent
}

func (r *fakeNotesContentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.NotesContent) ([]*types.NotesContent, error) {
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeNotesContentRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.NotesContent, error) {
	return r.rows, nil
}

func (r *fakeNotesContentRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	r.rows = nil
	return nil
}

type fakeSummaryContentRepo struct {
	rows []*types.SummaryContent
}

func (r *fakeSummaryContentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.SummaryContent) ([]*types.SummaryContent, error) {
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeSummaryContentRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.SummaryContent, error) {
	return r.rows, nil
}

func (r *fakeSummaryContentRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	r.rows = nil
	return nil
}

type fakeDocumentChunkRepo struct {
	chunks  []*types.DocumentChunk
	creates int
	deletes int
}

func (r *fakeDocumentChunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.DocumentChunk) ([]*types.DocumentChunk, error) {
	r.creates++
	r.chunks = append(r.chunks, chunks...)
	return chunks, nil
}

func (r *fakeDocumentChunkRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.DocumentChunk, error) {
	var out []*types.DocumentChunk
	for _, c := range r.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeDocumentChunkRepo) DeleteByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) error {
	r.deletes++
	var kept []*types.DocumentChunk
	for _, c := range r.chunks {
		if c.DocumentID != documentID {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

// fakeLockService grants every lock unless held is true.
type fakeLockService struct {
	held     bool
	acquired []string
	released int
}

func (s *fakeLockService) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if s.held {
		return nil, false, nil
	}
	s.acquired = append(s.acquired, key)
	return func() { s.released++ }, true, nil
}

func (s *fakeLockService) Close() error { return nil }

// fakeDoclingClient returns canned extract/chunk results.
type fakeDoclingClient struct {
	extractText string
	extractErr  error
	chunks      []docling.Chunk
	chunkErr    error
}

func (c *fakeDoclingClient) Extract(ctx context.Context, filename string, data []byte) (*docling.ExtractResult, error) {
	if c.extractErr != nil {
		return nil, c.extractErr
	}
	return &docling.ExtractResult{Text: c.extractText}, nil
}

func (c *fakeDoclingClient) Chunk(ctx context.Context, filename string, data []byte) (*docling.ChunkResult, error) {
	if c.chunkErr != nil {
		return nil, c.chunkErr
	}
	return &docling.ChunkResult{
		Chunks:      c.chunks,
		TotalChunks: len(c.chunks),
	}, nil
}

// fakeEmbedderClient embeds everything to a fixed vector, optionally
// failing on one input.
type fakeEmbedderClient struct {
	failOn string
	calls  int
}

func (c *fakeEmbedderClient) Embed(ctx context.Context, input string) ([]float32, error) {
	c.calls++
	if c.failOn != "" && input == c.failOn {
		return nil, context.DeadlineExceeded
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (c *fakeEmbedderClient) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		vec, err := c.Embed(ctx, in)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func readyDocument(userID uuid.UUID, name, text string) *types.Document {
	return &types.Document{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		StorageKey:    "materials/" + name,
		Status:        types.DocumentStatusReady,
		ExtractedText: text,
	}
}
