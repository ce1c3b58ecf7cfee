package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/studydeck/studydeck-backend/internal/clients/redis"
	errs "github.com/studydeck/studydeck-backend/internal/pkg/errors"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/repos"
	"github.com/studydeck/studydeck-backend/internal/types"
)

const dispatchLockTTL = 10 * time.Minute

// StartGenerationInput is the request to create a new generation.
type StartGenerationInput struct {
	Name        string
	Type        types.GenerationType
	DocumentIDs []uuid.UUID
}

// DispatchResult reports the outcome of one generation run. A failed
// run is reported here, not as an error; errors mean the run never
// started (bad preconditions, lock held, missing rows).
type DispatchResult struct {
	GenerationID uuid.UUID `json:"generation_id"`
	Success      bool      `json:"success"`
	ItemCount    int       `json:"item_count,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// GenerationService owns the generation lifecycle and its status state
// machine: rows are created in generating, a dispatch moves them to
// ready or failed, and only failed rows may be retried.
type GenerationService struct {
	log         *logger.Logger
	generations repos.GenerationRepo
	documents   repos.DocumentRepo
	generator   *ContentGenerator
	locks       redis.LockService
}

func NewGenerationService(
	log *logger.Logger,
	generations repos.GenerationRepo,
	documents repos.DocumentRepo,
	generator *ContentGenerator,
	locks redis.LockService,
) (*GenerationService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if generator == nil {
		return nil, fmt.Errorf("content generator required")
	}
	if locks == nil {
		return nil, fmt.Errorf("lock service required")
	}
	return &GenerationService{
		log:         log.With("service", "GenerationService"),
		generations: generations,
		documents:   documents,
		generator:   generator,
		locks:       locks,
	}, nil
}

func validGenerationType(t types.GenerationType) bool {
	switch t {
	case types.GenerationTypeFlashcards, types.GenerationTypeQuiz,
		types.GenerationTypeNotes, types.GenerationTypeSummary,
		types.GenerationTypeStudyGuide, types.GenerationTypeConceptMap:
		return true
	}
	return false
}

// Start validates the source documents and creates the generation row
// in status generating. Nothing is persisted when validation fails.
func (s *GenerationService) Start(ctx context.Context, userID uuid.UUID, input StartGenerationInput) (*types.Generation, error) {
	if !validGenerationType(input.Type) {
		return nil, fmt.Errorf("%w: unknown generation type %q", errs.ErrInvalidArgument, input.Type)
	}
	if len(input.DocumentIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one source document required", errs.ErrInvalidArgument)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name required", errs.ErrInvalidArgument)
	}

	docs, err := s.documents.GetByIDs(ctx, nil, input.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	for _, id := range input.DocumentIDs {
		doc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: document %s", errs.ErrNotFound, id)
		}
		if doc.UserID != userID {
			return nil, fmt.Errorf("%w: document %s", errs.ErrUnauthorized, id)
		}
		if doc.Status != types.DocumentStatusReady {
			return nil, fmt.Errorf("%w: document %q is not ready for generation", errs.ErrInvalidArgument, doc.Name)
		}
	}

	rawIDs, err := json.Marshal(input.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("encode document ids: %w", err)
	}

	gen := &types.Generation{
		UserID:            userID,
		SourceDocumentIDs: datatypes.JSON(rawIDs),
		Name:              input.Name,
		Type:              input.Type,
		Status:            types.GenerationStatusGenerating,
	}
	created, err := s.generations.Create(ctx, nil, []*types.Generation{gen})
	if err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}
	s.log.Info("Generation started",
		"generation_id", created[0].ID.String(),
		"type", string(input.Type),
		"document_count", len(input.DocumentIDs),
	)
	return created[0], nil
}

func (s *GenerationService) getOwned(ctx context.Context, userID, generationID uuid.UUID) (*types.Generation, error) {
	gens, err := s.generations.GetByIDs(ctx, nil, []uuid.UUID{generationID})
	if err != nil {
		return nil, fmt.Errorf("load generation: %w", err)
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("%w: generation %s", errs.ErrNotFound, generationID)
	}
	gen := gens[0]
	if gen.UserID != userID {
		return nil, fmt.Errorf("%w: generation %s", errs.ErrUnauthorized, generationID)
	}
	return gen, nil
}

// Get returns one generation owned by the caller.
func (s *GenerationService) Get(ctx context.Context, userID, generationID uuid.UUID) (*types.Generation, error) {
	return s.getOwned(ctx, userID, generationID)
}

// List returns the caller's generations.
func (s *GenerationService) List(ctx context.Context, userID uuid.UUID) ([]*types.Generation, error) {
	return s.generations.GetByUserID(ctx, nil, userID)
}

// Dispatch runs the generation pipeline for a row in status generating.
// The per-generation lock guarantees at most one concurrent run; a held
// lock surfaces as a conflict. The status is patched exactly once: to
// ready on success, to failed with the error message otherwise.
func (s *GenerationService) Dispatch(ctx context.Context, userID, generationID uuid.UUID) (*DispatchResult, error) {
	gen, err := s.getOwned(ctx, userID, generationID)
	if err != nil {
		return nil, err
	}
	if gen.Status != types.GenerationStatusGenerating {
		return nil, fmt.Errorf("%w: generation is %s, expected generating", errs.ErrInvalidArgument, gen.Status)
	}

	release, ok, err := s.locks.Acquire(ctx, "generation:"+generationID.String(), dispatchLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire dispatch lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: generation %s is already being dispatched", errs.ErrConflict, generationID)
	}
	defer release()

	return s.run(ctx, gen), nil
}

// Retry resets a failed generation to generating, clears its error, and
// runs the pipeline again with the stored document ids.
func (s *GenerationService) Retry(ctx context.Context, userID, generationID uuid.UUID) (*DispatchResult, error) {
	gen, err := s.getOwned(ctx, userID, generationID)
	if err != nil {
		return nil, err
	}
	if gen.Status != types.GenerationStatusFailed {
		return nil, fmt.Errorf("%w: can only retry failed generations", errs.ErrInvalidArgument)
	}

	release, ok, err := s.locks.Acquire(ctx, "generation:"+generationID.String(), dispatchLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire dispatch lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: generation %s is already being dispatched", errs.ErrConflict, generationID)
	}
	defer release()

	if err := s.generations.UpdateFields(ctx, nil, gen.ID, map[string]any{
		"status": types.GenerationStatusGenerating,
		"error":  "",
	}); err != nil {
		return nil, fmt.Errorf("reset generation status: %w", err)
	}
	gen.Status = types.GenerationStatusGenerating
	gen.Error = ""

	return s.run(ctx, gen), nil
}

// run executes the generator and patches status exactly once.
func (s *GenerationService) run(ctx context.Context, gen *types.Generation) *DispatchResult {
	count, genErr := s.generator.Generate(ctx, gen)
	if genErr != nil {
		s.log.Error("Generation failed",
			"generation_id", gen.ID.String(),
			"type", string(gen.Type),
			"error", genErr.Error(),
		)
		if err := s.generations.UpdateFields(ctx, nil, gen.ID, map[string]any{
			"status": types.GenerationStatusFailed,
			"error":  genErr.Error(),
		}); err != nil {
			s.log.Error("Failed to record generation failure",
				"generation_id", gen.ID.String(),
				"error", err.Error(),
			)
		}
		return &DispatchResult{
			GenerationID: gen.ID,
			Success:      false,
			Error:        genErr.Error(),
		}
	}

	if err := s.generations.UpdateFields(ctx, nil, gen.ID, map[string]any{
		"status": types.GenerationStatusReady,
		"error":  "",
	}); err != nil {
		s.log.Error("Failed to mark generation ready",
			"generation_id", gen.ID.String(),
			"error", err.Error(),
		)
		return &DispatchResult{
			GenerationID: gen.ID,
			Success:      false,
			Error:        err.Error(),
		}
	}

	s.log.Info("Generation ready",
		"generation_id", gen.ID.String(),
		"type", string(gen.Type),
		"item_count", count,
	)
	return &DispatchResult{
		GenerationID: gen.ID,
		Success:      true,
		ItemCount:    count,
	}
}
