package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/studydeck/studydeck-backend/internal/clients/docling"
	"github.com/studydeck/studydeck-backend/internal/clients/embedder"
	errs "github.com/studydeck/studydeck-backend/internal/pkg/errors"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/repos"
	"github.com/studydeck/studydeck-backend/internal/types"
)

const defaultEmbedConcurrency = 4

// EmbeddingService rebuilds the chunk index for a document: chunking
// via docling, one embedding per chunk, persisted as a single batch
// only after every embedding succeeded. A mid-run failure leaves the
// document with zero chunks rather than a partial index.
type EmbeddingService struct {
	log         *logger.Logger
	documents   repos.DocumentRepo
	chunks      repos.DocumentChunkRepo
	docling     docling.Client
	embedder    embedder.Client
	concurrency int
}

func NewEmbeddingService(
	log *logger.Logger,
	documents repos.DocumentRepo,
	chunks repos.DocumentChunkRepo,
	doclingClient docling.Client,
	embedderClient embedder.Client,
	concurrency int,
) (*EmbeddingService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if doclingClient == nil {
		return nil, fmt.Errorf("docling client required")
	}
	if embedderClient == nil {
		return nil, fmt.Errorf("embedder client required")
	}
	if concurrency <= 0 {
		concurrency = defaultEmbedConcurrency
	}
	return &EmbeddingService{
		log:         log.With("service", "EmbeddingService"),
		documents:   documents,
		chunks:      chunks,
		docling:     doclingClient,
		embedder:    embedderClient,
		concurrency: concurrency,
	}, nil
}

// Reprocess drops the document's existing chunks and rebuilds them.
// Returns the number of chunks written.
func (s *EmbeddingService) Reprocess(ctx context.Context, userID, documentID uuid.UUID) (int, error) {
	docs, err := s.documents.GetByIDs(ctx, nil, []uuid.UUID{documentID})
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}
	if len(docs) == 0 {
		return 0, fmt.Errorf("%w: document %s", errs.ErrNotFound, documentID)
	}
	doc := docs[0]
	if doc.UserID != userID {
		return 0, fmt.Errorf("%w: document %s", errs.ErrUnauthorized, documentID)
	}
	if doc.Status != types.DocumentStatusReady {
		return 0, fmt.Errorf("%w: document %q is not ready", errs.ErrInvalidArgument, doc.Name)
	}

	if err := s.chunks.DeleteByDocumentID(ctx, nil, doc.ID); err != nil {
		return 0, fmt.Errorf("delete existing chunks: %w", err)
	}

	data, err := fetchFile(ctx, doc.FileURL)
	if err != nil {
		return 0, err
	}
	result, err := s.docling.Chunk(ctx, doc.Name, data)
	if err != nil {
		return 0, fmt.Errorf("chunk document: %w", err)
	}
	if len(result.Chunks) == 0 {
		s.log.Warn("Document produced no chunks", "document_id", doc.ID.String())
		return 0, nil
	}

	rows, err := s.embedChunks(ctx, doc, result.Chunks)
	if err != nil {
		return 0, err
	}

	if _, err := s.chunks.Create(ctx, nil, rows); err != nil {
		return 0, fmt.Errorf("persist chunks: %w", err)
	}

	s.log.Info("Document chunks rebuilt",
		"document_id", doc.ID.String(),
		"chunk_count", len(rows),
		"total_chars", result.TotalChars,
	)
	return len(rows), nil
}

// embedChunks embeds every chunk with bounded parallelism and buffers
// the finished rows in chunk order. Any failure aborts the whole batch.
func (s *EmbeddingService) embedChunks(ctx context.Context, doc *types.Document, chunks []docling.Chunk) ([]*types.DocumentChunk, error) {
	rows := make([]*types.DocumentChunk, len(chunks))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range chunks {
		g.Go(func() error {
			chunk := chunks[i]
			vector, err := s.embedder.Embed(groupCtx, chunk.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", chunk.ChunkIndex, err)
			}
			rawVector, err := json.Marshal(vector)
			if err != nil {
				return fmt.Errorf("encode embedding for chunk %d: %w", chunk.ChunkIndex, err)
			}
			sectionTitle := ""
			if chunk.SectionTitle != nil {
				sectionTitle = *chunk.SectionTitle
			}
			rows[i] = &types.DocumentChunk{
				DocumentID:   doc.ID,
				UserID:       doc.UserID,
				Content:      chunk.Content,
				ChunkIndex:   chunk.ChunkIndex,
				Embedding:    datatypes.JSON(rawVector),
				SectionTitle: sectionTitle,
				PageNumber:   chunk.PageNumber,
				CharStart:    chunk.CharStart,
				CharEnd:      chunk.CharEnd,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
