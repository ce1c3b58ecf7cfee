package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func embedResponse(inputs []string) map[string]any {
	data := make([]map[string]any, len(inputs))
	for i := range inputs {
		data[i] = map[string]any{
			"embedding": []float64{float64(i), 0.5},
			"index":     i,
		}
	}
	return map[string]any{"data": data}
}

func TestEmbedBatch_PreservesInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		// Return data deliberately reversed; the client must reorder by
		// index.
		data := []map[string]any{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"embedding": []float64{float64(i)},
				"index":     i,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	client, err := New(testLogger(t), Config{APIKey: "sk", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}

	vecs, err := client.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("embed batch: %v", err)
	}
	for i, vec := range vecs {
		if len(vec) != 1 || vec[0] != float32(i) {
			t.Fatalf("vector %d out of order: %v", i, vec)
		}
	}
}

func TestEmbedBatch_MissingIndexIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse([]string{"only one"}))
	}))
	defer srv.Close()

	client, err := New(testLogger(t), Config{APIKey: "sk", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	if _, err := client.EmbedBatch(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected error for missing index")
	}
}

func TestEmbed_RetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(embedResponse([]string{"x"}))
	}))
	defer srv.Close()

	client, err := New(testLogger(t), Config{APIKey: "sk", BaseURL: srv.URL, MaxRetries: 2})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	vec, err := client.Embed(context.Background(), "x")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) == 0 {
		t.Fatalf("expected vector after retry")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestEmbed_DoesNotRetryOn400(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad input"}`))
	}))
	defer srv.Close()

	client, err := New(testLogger(t), Config{APIKey: "sk", BaseURL: srv.URL, MaxRetries: 3})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	if _, err := client.Embed(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected no retries on 400, got %d calls", calls)
	}
}
