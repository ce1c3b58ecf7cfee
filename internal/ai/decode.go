package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DecodeErrorKind distinguishes unparseable model output from output
// that parsed but violated the task's shape contract.
type DecodeErrorKind string

const (
	MalformedJSON   DecodeErrorKind = "malformed_json"
	SchemaViolation DecodeErrorKind = "schema_violation"
)

// DecodeError reports why a model response could not be decoded.
// Preview carries the first 200 chars of the raw response for
// MalformedJSON; Detail names the violated constraint otherwise.
type DecodeError struct {
	Kind    DecodeErrorKind
	Detail  string
	Preview string
}

func (e *DecodeError) Error() string {
	if e.Kind == MalformedJSON {
		return fmt.Sprintf("failed to parse AI response as JSON: %s...", e.Preview)
	}
	return fmt.Sprintf("invalid response format: %s", e.Detail)
}

const previewLen = 200

func malformed(raw string) *DecodeError {
	preview := raw
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}
	return &DecodeError{Kind: MalformedJSON, Preview: preview}
}

func violation(format string, args ...any) *DecodeError {
	return &DecodeError{Kind: SchemaViolation, Detail: fmt.Sprintf(format, args...)}
}

// StripFences removes a wrapping markdown code fence (```json or ```)
// that models often add despite instructions not to.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[7:]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

type Notes struct {
	Content   string   `json:"content"`
	KeyPoints []string `json:"keyPoints"`
}

type SummarySection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Summary struct {
	Content  string           `json:"content"`
	Sections []SummarySection `json:"sections"`
}

// DecodeFlashcards parses and validates a flashcard response: a
// non-empty array of question/answer pairs, both non-empty.
func DecodeFlashcards(raw string) ([]Flashcard, error) {
	var cards []Flashcard
	if err := json.Unmarshal([]byte(StripFences(raw)), &cards); err != nil {
		return nil, malformed(raw)
	}
	if len(cards) == 0 {
		return nil, violation("expected a non-empty array of flashcards")
	}
	for i, card := range cards {
		if strings.TrimSpace(card.Question) == "" {
			return nil, violation("flashcard %d: question must be a non-empty string", i)
		}
		if strings.TrimSpace(card.Answer) == "" {
			return nil, violation("flashcard %d: answer must be a non-empty string", i)
		}
	}
	return cards, nil
}

type rawQuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *float64 `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// DecodeQuiz parses and validates a quiz response. Each question needs
// 2 to 4 non-empty options and a correctIndex inside the options range.
func DecodeQuiz(raw string) ([]QuizQuestion, error) {
	var rawQuestions []rawQuizQuestion
	if err := json.Unmarshal([]byte(StripFences(raw)), &rawQuestions); err != nil {
		return nil, malformed(raw)
	}

	questions := make([]QuizQuestion, 0, len(rawQuestions))
	for i, q := range rawQuestions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, violation("question %d: question must be a non-empty string", i)
		}
		if len(q.Options) < 2 || len(q.Options) > 4 {
			return nil, violation("question %d: expected 2-4 options, got %d", i, len(q.Options))
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return nil, violation("question %d: option %d must be a non-empty string", i, j)
			}
		}
		if q.CorrectIndex == nil {
			return nil, violation("question %d: correctIndex required", i)
		}
		if *q.CorrectIndex != math.Trunc(*q.CorrectIndex) {
			return nil, violation("question %d: correctIndex must be an integer", i)
		}
		idx := int(*q.CorrectIndex)
		if idx < 0 || idx >= len(q.Options) {
			return nil, violation("question %d: correctIndex %d out of range for %d options", i, idx, len(q.Options))
		}
		questions = append(questions, QuizQuestion{
			Question:     q.Question,
			Options:      q.Options,
			CorrectIndex: idx,
			Explanation:  q.Explanation,
		})
	}
	return questions, nil
}

type rawNotes struct {
	Content   string    `json:"content"`
	KeyPoints *[]string `json:"keyPoints"`
}

// DecodeNotes parses and validates a notes response. The keyPoints
// array may be empty but must be present, and its entries non-empty.
func DecodeNotes(raw string) (*Notes, error) {
	var n rawNotes
	if err := json.Unmarshal([]byte(StripFences(raw)), &n); err != nil {
		return nil, malformed(raw)
	}
	if strings.TrimSpace(n.Content) == "" {
		return nil, violation("content must be a non-empty string")
	}
	if n.KeyPoints == nil {
		return nil, violation("keyPoints array required")
	}
	for i, point := range *n.KeyPoints {
		if strings.TrimSpace(point) == "" {
			return nil, violation("keyPoints %d: must be a non-empty string", i)
		}
	}
	return &Notes{Content: n.Content, KeyPoints: *n.KeyPoints}, nil
}

type rawSummary struct {
	Content  string            `json:"content"`
	Sections *[]SummarySection `json:"sections"`
}

// DecodeSummary parses and validates a summary response. Sections may
// be empty but must be present, each with a non-empty title and content.
func DecodeSummary(raw string) (*Summary, error) {
	var s rawSummary
	if err := json.Unmarshal([]byte(StripFences(raw)), &s); err != nil {
		return nil, malformed(raw)
	}
	if strings.TrimSpace(s.Content) == "" {
		return nil, violation("content must be a non-empty string")
	}
	if s.Sections == nil {
		return nil, violation("sections array required")
	}
	for i, section := range *s.Sections {
		if strings.TrimSpace(section.Title) == "" {
			return nil, violation("section %d: title must be a non-empty string", i)
		}
		if strings.TrimSpace(section.Content) == "" {
			return nil, violation("section %d: content must be a non-empty string", i)
		}
	}
	return &Summary{Content: s.Content, Sections: *s.Sections}, nil
}
