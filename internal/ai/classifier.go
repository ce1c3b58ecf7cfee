package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/studydeck/studydeck-backend/internal/clients/openrouter"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
)

// Complexity labels.
const (
	LevelSimple   = "simple"
	LevelModerate = "moderate"
	LevelComplex  = "complex"
)

// ComplexityResult scores content difficulty for routing decisions.
type ComplexityResult struct {
	Score     float64 `json:"score"`
	Level     string  `json:"level"`
	Reasoning string  `json:"reasoning"`
}

var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(algorithm|theorem|equation|hypothesis|coefficient)\b`),
	regexp.MustCompile(`(?i)\b(neural|quantum|molecular|genomic|cryptographic)\b`),
	regexp.MustCompile(`(?i)\b(differential|integral|derivative|matrix|vector)\b`),
	regexp.MustCompile(`(?i)\b(protocol|architecture|implementation|framework)\b`),
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordSplit     = regexp.MustCompile(`\s+`)
	mathPattern   = regexp.MustCompile(`(?i)[∑∏∫∂√∞≈≠≤≥±×÷]|[a-z]\^[0-9]|[a-z]_[a-z0-9]`)
)

type weightedFactor struct {
	score  float64
	weight float64
}

// EstimateComplexity scores content with a local heuristic: length,
// technical term density, average sentence length, and mathematical
// notation, combined as a weighted average. No model call is made.
func EstimateComplexity(content string) ComplexityResult {
	var factors []weightedFactor

	length := len(content)
	switch {
	case length < 500:
		factors = append(factors, weightedFactor{0.2, 1})
	case length < 2000:
		factors = append(factors, weightedFactor{0.4, 1})
	case length < 5000:
		factors = append(factors, weightedFactor{0.6, 1})
	default:
		factors = append(factors, weightedFactor{0.8, 1})
	}

	technicalCount := 0
	for _, pattern := range technicalPatterns {
		technicalCount += len(pattern.FindAllString(content, -1))
	}
	technicalScore := math.Min(float64(technicalCount)/20, 1)
	factors = append(factors, weightedFactor{technicalScore, 1.5})

	sentenceCount := 0
	wordCount := 0
	for _, sentence := range sentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		sentenceCount++
		wordCount += len(wordSplit.Split(sentence, -1))
	}
	avgSentenceLength := float64(wordCount) / math.Max(float64(sentenceCount), 1)

	var sentenceScore float64
	switch {
	case avgSentenceLength < 10:
		sentenceScore = 0.2
	case avgSentenceLength < 20:
		sentenceScore = 0.4
	case avgSentenceLength < 30:
		sentenceScore = 0.6
	default:
		sentenceScore = 0.8
	}
	factors = append(factors, weightedFactor{sentenceScore, 1})

	mathScore := 0.3
	if mathPattern.MatchString(content) {
		mathScore = 0.8
	}
	factors = append(factors, weightedFactor{mathScore, 0.5})

	totalWeight := 0.0
	weightedSum := 0.0
	for _, f := range factors {
		totalWeight += f.weight
		weightedSum += f.score * f.weight
	}
	score := weightedSum / totalWeight

	return ComplexityResult{
		Score:     math.Round(score*100) / 100,
		Level:     levelForScore(score),
		Reasoning: fmt.Sprintf("Heuristic estimation based on content length (%d chars), technical terminology density, sentence complexity, and mathematical notation.", length),
	}
}

func levelForScore(score float64) string {
	switch {
	case score < 0.35:
		return LevelSimple
	case score < 0.65:
		return LevelModerate
	default:
		return LevelComplex
	}
}

const classifierSystemPrompt = `You are a task complexity classifier. Analyze the given content and classify its complexity.

Consider these factors:
1. Length and density of the content
2. Technical terminology and jargon
3. Conceptual depth and abstraction level
4. Number of interconnected concepts
5. Required background knowledge

Respond with a JSON object containing:
- score: A number from 0 to 1 (0 = trivial, 1 = extremely complex)
- level: One of "simple", "moderate", or "complex"
- reasoning: Brief explanation of your classification

Only respond with valid JSON, no other text.`

const classifierMaxContentLen = 5000

// ClassifyComplexity asks the model router to score content. A model
// failure or an unusable response degrades to a moderate 0.5 score so
// generation never blocks on the classifier.
func ClassifyComplexity(ctx context.Context, log *logger.Logger, router Completer, content string) ComplexityResult {
	truncated := content
	if len(truncated) > classifierMaxContentLen {
		truncated = truncated[:classifierMaxContentLen] + "..."
	}

	fallback := ComplexityResult{
		Score:     0.5,
		Level:     LevelModerate,
		Reasoning: "Failed to parse classifier response, defaulting to moderate complexity.",
	}

	temperature := 0.3
	resp, err := router.Route(ctx, RouterRequest{
		Task: TaskClassify,
		Messages: []openrouter.Message{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: "Classify the complexity of this content:\n\n" + truncated},
		},
		MaxTokens:   200,
		Temperature: &temperature,
	})
	if err != nil {
		log.Warn("Complexity classification failed, defaulting to moderate", "error", err.Error())
		return fallback
	}

	var result ComplexityResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		log.Warn("Unparseable classifier response, defaulting to moderate", "error", err.Error())
		return fallback
	}
	if result.Score < 0 || result.Score > 1 || !validLevel(result.Level) {
		log.Warn("Classifier response out of range, defaulting to moderate",
			"score", result.Score,
			"level", result.Level,
		)
		return fallback
	}
	return result
}

func validLevel(level string) bool {
	return level == LevelSimple || level == LevelModerate || level == LevelComplex
}
