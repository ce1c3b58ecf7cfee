package ai

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestEstimateComplexity_ShortPlainTextIsSimple(t *testing.T) {
	result := EstimateComplexity("The cat sat on the mat. It was warm. The sun shone.")
	if result.Level != LevelSimple {
		t.Fatalf("expected simple, got %q (score %v)", result.Level, result.Score)
	}
	if result.Score < 0 || result.Score >= 0.35 {
		t.Fatalf("expected score in [0, 0.35), got %v", result.Score)
	}
	if !strings.Contains(result.Reasoning, "Heuristic estimation") {
		t.Fatalf("unexpected reasoning: %q", result.Reasoning)
	}
}

func TestEstimateComplexity_DenseTechnicalTextIsComplex(t *testing.T) {
	sentence := "The differential equation governing the neural architecture couples every integral term of the matrix with a vector derivative, so the algorithm must satisfy the theorem under each cryptographic protocol constraint while the quantum coefficient x^2 remains bounded by the framework hypothesis across the implementation"
	content := strings.Repeat(sentence+". ", 25)

	result := EstimateComplexity(content)
	if result.Level != LevelComplex {
		t.Fatalf("expected complex, got %q (score %v)", result.Level, result.Score)
	}
	if result.Score < 0.65 {
		t.Fatalf("expected score >= 0.65, got %v", result.Score)
	}
}

func TestEstimateComplexity_ScoreIsRounded(t *testing.T) {
	result := EstimateComplexity("Some middling text about a protocol and a framework, long enough to not be trivial.")
	scaled := result.Score * 100
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		t.Fatalf("expected two-decimal score, got %v", result.Score)
	}
}

// stubCompleter returns a canned response or error and records requests.
type stubCompleter struct {
	resp *RouterResponse
	err  error
	last RouterRequest
}

func (s *stubCompleter) Route(ctx context.Context, req RouterRequest) (*RouterResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestClassifyComplexity_ParsesValidResponse(t *testing.T) {
	stub := &stubCompleter{resp: &RouterResponse{
		Content: `{"score":0.82,"level":"complex","reasoning":"dense material"}`,
	}}

	result := ClassifyComplexity(context.Background(), testLogger(t), stub, "some content")
	if result.Score != 0.82 || result.Level != LevelComplex {
		t.Fatalf("unexpected result: %+v", result)
	}
	if stub.last.Task != TaskClassify {
		t.Fatalf("expected classify task, got %q", stub.last.Task)
	}
	if stub.last.MaxTokens != 200 {
		t.Fatalf("expected maxTokens 200, got %d", stub.last.MaxTokens)
	}
	if stub.last.Temperature == nil || *stub.last.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", stub.last.Temperature)
	}
}

func TestClassifyComplexity_MalformedResponseDefaultsToModerate(t *testing.T) {
	stub := &stubCompleter{resp: &RouterResponse{Content: "definitely not json"}}

	result := ClassifyComplexity(context.Background(), testLogger(t), stub, "some content")
	if result.Score != 0.5 || result.Level != LevelModerate {
		t.Fatalf("expected moderate 0.5 fallback, got %+v", result)
	}
}

func TestClassifyComplexity_RouterErrorDefaultsToModerate(t *testing.T) {
	stub := &stubCompleter{err: errors.New("all models failed")}

	result := ClassifyComplexity(context.Background(), testLogger(t), stub, "some content")
	if result.Score != 0.5 || result.Level != LevelModerate {
		t.Fatalf("expected moderate 0.5 fallback, got %+v", result)
	}
}

func TestClassifyComplexity_OutOfRangeScoreDefaultsToModerate(t *testing.T) {
	stub := &stubCompleter{resp: &RouterResponse{
		Content: `{"score":1.7,"level":"complex","reasoning":"x"}`,
	}}

	result := ClassifyComplexity(context.Background(), testLogger(t), stub, "some content")
	if result.Score != 0.5 || result.Level != LevelModerate {
		t.Fatalf("expected moderate 0.5 fallback, got %+v", result)
	}
}

func TestClassifyComplexity_TruncatesLongContent(t *testing.T) {
	stub := &stubCompleter{resp: &RouterResponse{
		Content: `{"score":0.4,"level":"moderate","reasoning":"x"}`,
	}}
	content := strings.Repeat("a", 6000)

	ClassifyComplexity(context.Background(), testLogger(t), stub, content)
	user := stub.last.Messages[len(stub.last.Messages)-1].Content
	if !strings.HasSuffix(user, "...") {
		t.Fatalf("expected truncated content to end with ellipsis")
	}
	if len(user) > 5100 {
		t.Fatalf("expected content truncated to 5000 chars, got %d", len(user))
	}
}
