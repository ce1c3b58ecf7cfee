package ai

import (
	"errors"
	"strings"
	"testing"
)

func decodeErr(t *testing.T, err error) *DecodeError {
	t.Helper()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %T: %v", err, err)
	}
	return de
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n[1,2]\n```", "[1,2]"},
		{"  [1,2]  ", "[1,2]"},
		{"```json\n{\"a\":1}```", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := StripFences(tc.in); got != tc.want {
			t.Fatalf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeFlashcards_AcceptsFencedJSON(t *testing.T) {
	raw := "```json\n[{\"question\":\"Q1\",\"answer\":\"A1\"},{\"question\":\"Q2\",\"answer\":\"A2\"}]\n```"
	cards, err := DecodeFlashcards(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cards) != 2 || cards[0].Question != "Q1" || cards[1].Answer != "A2" {
		t.Fatalf("unexpected cards: %+v", cards)
	}
}

func TestDecodeFlashcards_MalformedJSONKeepsPreview(t *testing.T) {
	raw := "I could not generate JSON because " + strings.Repeat("x", 300)
	_, err := DecodeFlashcards(raw)
	de := decodeErr(t, err)
	if de.Kind != MalformedJSON {
		t.Fatalf("expected MalformedJSON, got %q", de.Kind)
	}
	if len(de.Preview) != 200 {
		t.Fatalf("expected 200 char preview, got %d", len(de.Preview))
	}
	if !strings.HasPrefix(de.Preview, "I could not generate") {
		t.Fatalf("preview should start with raw content: %q", de.Preview)
	}
}

func TestDecodeFlashcards_RejectsEmptyAndBlankFields(t *testing.T) {
	_, err := DecodeFlashcards("[]")
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("empty array should be a schema violation, got %q", de.Kind)
	}

	_, err = DecodeFlashcards(`[{"question":"Q","answer":"  "}]`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("blank answer should be a schema violation, got %q", de.Kind)
	}
}

func TestDecodeQuiz_CorrectIndexBounds(t *testing.T) {
	// correctIndex equal to options length is out of range.
	_, err := DecodeQuiz(`[{"question":"Q","options":["a","b","c"],"correctIndex":3}]`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("expected SchemaViolation, got %q", de.Kind)
	}

	// One option is too few.
	_, err = DecodeQuiz(`[{"question":"Q","options":["a"],"correctIndex":0}]`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("expected SchemaViolation, got %q", de.Kind)
	}

	// Four options with a valid index is fine.
	questions, err := DecodeQuiz(`[{"question":"Q","options":["a","b","c","d"],"correctIndex":3,"explanation":"because"}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if questions[0].CorrectIndex != 3 || questions[0].Explanation != "because" {
		t.Fatalf("unexpected question: %+v", questions[0])
	}
}

func TestDecodeQuiz_RejectsFractionalIndex(t *testing.T) {
	_, err := DecodeQuiz(`[{"question":"Q","options":["a","b"],"correctIndex":0.5}]`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("expected SchemaViolation, got %q", de.Kind)
	}
}

func TestDecodeQuiz_AllowsEmptyArray(t *testing.T) {
	questions, err := DecodeQuiz(`[]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected empty slice")
	}
}

func TestDecodeNotes_RequiresKeyPointsKey(t *testing.T) {
	_, err := DecodeNotes(`{"content":"notes body"}`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("missing keyPoints should be a schema violation, got %q", de.Kind)
	}

	notes, err := DecodeNotes(`{"content":"notes body","keyPoints":[]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if notes.Content != "notes body" || len(notes.KeyPoints) != 0 {
		t.Fatalf("unexpected notes: %+v", notes)
	}

	_, err = DecodeNotes(`{"content":"notes body","keyPoints":["ok",""]}`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("blank key point should be a schema violation, got %q", de.Kind)
	}
}

func TestDecodeSummary_ValidatesSections(t *testing.T) {
	summary, err := DecodeSummary(`{"content":"overview","sections":[{"title":"Intro","content":"..."}]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Sections[0].Title != "Intro" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	_, err = DecodeSummary(`{"content":"overview","sections":[{"title":"","content":"..."}]}`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("blank section title should be a schema violation, got %q", de.Kind)
	}

	_, err = DecodeSummary(`{"content":"","sections":[]}`)
	if de := decodeErr(t, err); de.Kind != SchemaViolation {
		t.Fatalf("blank content should be a schema violation, got %q", de.Kind)
	}
}
