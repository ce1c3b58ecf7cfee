package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/studydeck/studydeck-backend/internal/ai"
	"github.com/studydeck/studydeck-backend/internal/clients/openrouter"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/repos"
	"github.com/studydeck/studydeck-backend/internal/types"
)

const generationMaxTokens = 4096

// SM-2 scheduling seeds for new flashcards.
const (
	initialEaseFactor = 2.5
	initialInterval   = 0
)

// taskSpec binds a generation type to its routing task, prompts, and
// sampling temperature.
type taskSpec struct {
	task         ai.Task
	systemPrompt string
	userPrefix   string
	temperature  float64
}

var taskSpecs = map[types.GenerationType]taskSpec{
	types.GenerationTypeFlashcards: {
		task:         ai.TaskFlashcard,
		systemPrompt: ai.FlashcardSystemPrompt,
		userPrefix:   ai.FlashcardUserPrefix,
		temperature:  0.7,
	},
	types.GenerationTypeQuiz: {
		task:         ai.TaskQuiz,
		systemPrompt: ai.QuizSystemPrompt,
		userPrefix:   ai.QuizUserPrefix,
		temperature:  0.7,
	},
	types.GenerationTypeNotes: {
		task:         ai.TaskNotes,
		systemPrompt: ai.NotesSystemPrompt,
		userPrefix:   ai.NotesUserPrefix,
		temperature:  0.5,
	},
	types.GenerationTypeSummary: {
		task:         ai.TaskSummary,
		systemPrompt: ai.SummarySystemPrompt,
		userPrefix:   ai.SummaryUserPrefix,
		temperature:  0.5,
	},
}

// ContentGenerator turns extracted document text into validated study
// content rows for one generation. It never touches generation status;
// the orchestrator owns the state machine.
type ContentGenerator struct {
	log        *logger.Logger
	router     ai.Completer
	documents  repos.DocumentRepo
	flashcards repos.FlashcardItemRepo
	quizzes    repos.QuizItemRepo
	notes      repos.NotesContentRepo
	summaries  repos.SummaryContentRepo
}

func NewContentGenerator(
	log *logger.Logger,
	router ai.Completer,
	documents repos.DocumentRepo,
	flashcards repos.FlashcardItemRepo,
	quizzes repos.QuizItemRepo,
	notes repos.NotesContentRepo,
	summaries repos.SummaryContentRepo,
) (*ContentGenerator, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if router == nil {
		return nil, fmt.Errorf("router required")
	}
	return &ContentGenerator{
		log:        log.With("service", "ContentGenerator"),
		router:     router,
		documents:  documents,
		flashcards: flashcards,
		quizzes:    quizzes,
		notes:      notes,
		summaries:  summaries,
	}, nil
}

// combinedText loads the source documents and concatenates their
// extracted text in request order under per-document headers. Missing
// ids are skipped; a document without extracted text fails by name.
func (g *ContentGenerator) combinedText(ctx context.Context, docIDs []uuid.UUID) (string, error) {
	docs, err := g.documents.GetByIDs(ctx, nil, docIDs)
	if err != nil {
		return "", fmt.Errorf("load documents: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	combined := ""
	found := 0
	for _, id := range docIDs {
		doc, ok := byID[id]
		if !ok {
			continue
		}
		if doc.ExtractedText == "" {
			return "", fmt.Errorf("document %q has no extracted text", doc.Name)
		}
		if found > 0 {
			combined += "\n\n"
		}
		combined += fmt.Sprintf("=== %s ===\n%s", doc.Name, doc.ExtractedText)
		found++
	}
	if found == 0 {
		return "", fmt.Errorf("no documents found")
	}
	return combined, nil
}

func (g *ContentGenerator) complete(ctx context.Context, spec taskSpec, combined string) (string, error) {
	estimate := ai.EstimateComplexity(combined)
	g.log.Debug("Estimated content complexity",
		"task", string(spec.task),
		"score", estimate.Score,
		"level", estimate.Level,
	)

	temperature := spec.temperature
	resp, err := g.router.Route(ctx, ai.RouterRequest{
		Task:        spec.task,
		Complexity:  &estimate.Score,
		MaxTokens:   generationMaxTokens,
		Temperature: &temperature,
		Messages: []openrouter.Message{
			{Role: "system", Content: spec.systemPrompt},
			{Role: "user", Content: spec.userPrefix + combined},
		},
	})
	if err != nil {
		return "", err
	}
	if resp.UsedFallback {
		g.log.Warn("Generation used fallback model",
			"task", string(spec.task),
			"model", resp.Model,
			"original_model", resp.OriginalModel,
		)
	}
	return resp.Content, nil
}

// Generate produces and persists content for the generation, returning
// the number of rows written.
func (g *ContentGenerator) Generate(ctx context.Context, gen *types.Generation) (int, error) {
	spec, ok := taskSpecs[gen.Type]
	if !ok {
		return 0, fmt.Errorf("generation type %q not yet implemented", gen.Type)
	}

	var docIDs []uuid.UUID
	if err := json.Unmarshal(gen.SourceDocumentIDs, &docIDs); err != nil {
		return 0, fmt.Errorf("decode source document ids: %w", err)
	}

	combined, err := g.combinedText(ctx, docIDs)
	if err != nil {
		return 0, err
	}

	content, err := g.complete(ctx, spec, combined)
	if err != nil {
		return 0, err
	}

	switch gen.Type {
	case types.GenerationTypeFlashcards:
		return g.persistFlashcards(ctx, gen, content)
	case types.GenerationTypeQuiz:
		return g.persistQuiz(ctx, gen, content)
	case types.GenerationTypeNotes:
		return g.persistNotes(ctx, gen, content)
	case types.GenerationTypeSummary:
		return g.persistSummary(ctx, gen, content)
	}
	return 0, fmt.Errorf("generation type %q not yet implemented", gen.Type)
}

func (g *ContentGenerator) persistFlashcards(ctx context.Context, gen *types.Generation, content string) (int, error) {
	cards, err := ai.DecodeFlashcards(content)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	items := make([]*types.FlashcardItem, 0, len(cards))
	for i, card := range cards {
		items = append(items, &types.FlashcardItem{
			GenerationID: gen.ID,
			UserID:       gen.UserID,
			Question:     card.Question,
			Answer:       card.Answer,
			Order:        i,
			EaseFactor:   initialEaseFactor,
			Interval:     initialInterval,
			Repetitions:  0,
			NextReview:   now,
		})
	}
	if _, err := g.flashcards.Create(ctx, nil, items); err != nil {
		return 0, fmt.Errorf("persist flashcards: %w", err)
	}
	return len(items), nil
}

func (g *ContentGenerator) persistQuiz(ctx context.Context, gen *types.Generation, content string) (int, error) {
	questions, err := ai.DecodeQuiz(content)
	if err != nil {
		return 0, err
	}
	if len(questions) == 0 {
		return 0, fmt.Errorf("no quiz questions generated")
	}

	items := make([]*types.QuizItem, 0, len(questions))
	for i, q := range questions {
		rawOptions, err := json.Marshal(q.Options)
		if err != nil {
			return 0, fmt.Errorf("encode quiz options: %w", err)
		}
		items = append(items, &types.QuizItem{
			GenerationID: gen.ID,
			UserID:       gen.UserID,
			Question:     q.Question,
			Options:      datatypes.JSON(rawOptions),
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
			Order:        i,
		})
	}
	if _, err := g.quizzes.Create(ctx, nil, items); err != nil {
		return 0, fmt.Errorf("persist quiz items: %w", err)
	}
	return len(items), nil
}

func (g *ContentGenerator) persistNotes(ctx context.Context, gen *types.Generation, content string) (int, error) {
	notes, err := ai.DecodeNotes(content)
	if err != nil {
		return 0, err
	}
	rawKeyPoints, err := json.Marshal(notes.KeyPoints)
	if err != nil {
		return 0, fmt.Errorf("encode key points: %w", err)
	}
	row := &types.NotesContent{
		GenerationID: gen.ID,
		UserID:       gen.UserID,
		Content:      notes.Content,
		KeyPoints:    datatypes.JSON(rawKeyPoints),
	}
	if _, err := g.notes.Create(ctx, nil, []*types.NotesContent{row}); err != nil {
		return 0, fmt.Errorf("persist notes: %w", err)
	}
	return 1, nil
}

func (g *ContentGenerator) persistSummary(ctx context.Context, gen *types.Generation, content string) (int, error) {
	summary, err := ai.DecodeSummary(content)
	if err != nil {
		return 0, err
	}
	rawSections, err := json.Marshal(summary.Sections)
	if err != nil {
		return 0, fmt.Errorf("encode sections: %w", err)
	}
	row := &types.SummaryContent{
		GenerationID: gen.ID,
		UserID:       gen.UserID,
		Content:      summary.Content,
		Sections:     datatypes.JSON(rawSections),
	}
	if _, err := g.summaries.Create(ctx, nil, []*types.SummaryContent{row}); err != nil {
		return 0, fmt.Errorf("persist summary: %w", err)
	}
	return 1, nil
}
