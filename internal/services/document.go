package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/studydeck/studydeck-backend/internal/clients/docling"
	errs "github.com/studydeck/studydeck-backend/internal/pkg/errors"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/repos"
	"github.com/studydeck/studydeck-backend/internal/types"
)

// DocumentService runs text extraction for uploaded documents. A
// document must reach status ready before it can feed a generation.
type DocumentService struct {
	log       *logger.Logger
	documents repos.DocumentRepo
	docling   docling.Client
}

func NewDocumentService(log *logger.Logger, documents repos.DocumentRepo, doclingClient docling.Client) (*DocumentService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if doclingClient == nil {
		return nil, fmt.Errorf("docling client required")
	}
	return &DocumentService{
		log:       log.With("service", "DocumentService"),
		documents: documents,
		docling:   doclingClient,
	}, nil
}

func (s *DocumentService) getOwned(ctx context.Context, userID, documentID uuid.UUID) (*types.Document, error) {
	docs, err := s.documents.GetByIDs(ctx, nil, []uuid.UUID{documentID})
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: document %s", errs.ErrNotFound, documentID)
	}
	doc := docs[0]
	if doc.UserID != userID {
		return nil, fmt.Errorf("%w: document %s", errs.ErrUnauthorized, documentID)
	}
	return doc, nil
}

// Process extracts text from the stored file and moves the document to
// ready, or to failed with the error recorded on the row.
func (s *DocumentService) Process(ctx context.Context, userID, documentID uuid.UUID) (*types.Document, error) {
	doc, err := s.getOwned(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == types.DocumentStatusProcessing {
		return nil, fmt.Errorf("%w: document is already processing", errs.ErrInvalidArgument)
	}

	if err := s.documents.UpdateFields(ctx, nil, doc.ID, map[string]any{
		"status": types.DocumentStatusProcessing,
		"error":  "",
	}); err != nil {
		return nil, fmt.Errorf("mark document processing: %w", err)
	}

	extracted, procErr := s.extract(ctx, doc)
	if procErr != nil {
		s.log.Error("Document processing failed",
			"document_id", doc.ID.String(),
			"error", procErr.Error(),
		)
		if err := s.documents.UpdateFields(ctx, nil, doc.ID, map[string]any{
			"status": types.DocumentStatusFailed,
			"error":  procErr.Error(),
		}); err != nil {
			s.log.Error("Failed to record document failure",
				"document_id", doc.ID.String(),
				"error", err.Error(),
			)
		}
		doc.Status = types.DocumentStatusFailed
		doc.Error = procErr.Error()
		return doc, nil
	}

	if err := s.documents.UpdateFields(ctx, nil, doc.ID, map[string]any{
		"status":         types.DocumentStatusReady,
		"extracted_text": extracted,
		"error":          "",
	}); err != nil {
		return nil, fmt.Errorf("mark document ready: %w", err)
	}

	s.log.Info("Document processed",
		"document_id", doc.ID.String(),
		"chars", len(extracted),
	)
	doc.Status = types.DocumentStatusReady
	doc.ExtractedText = extracted
	doc.Error = ""
	return doc, nil
}

func (s *DocumentService) extract(ctx context.Context, doc *types.Document) (string, error) {
	data, err := fetchFile(ctx, doc.FileURL)
	if err != nil {
		return "", err
	}
	result, err := s.docling.Extract(ctx, doc.Name, data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", fmt.Errorf("no text extracted from document")
	}
	return result.Text, nil
}

// RetryProcessing reruns extraction for a document that previously
// failed.
func (s *DocumentService) RetryProcessing(ctx context.Context, userID, documentID uuid.UUID) (*types.Document, error) {
	doc, err := s.getOwned(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != types.DocumentStatusFailed {
		return nil, fmt.Errorf("%w: can only retry failed documents", errs.ErrInvalidArgument)
	}
	return s.Process(ctx, userID, documentID)
}
