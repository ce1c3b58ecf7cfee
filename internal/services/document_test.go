package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	errs "github.com/studydeck/studydeck-backend/internal/pkg/errors"
	"github.com/studydeck/studydeck-backend/internal/types"
)

func newDocumentFixture(t *testing.T, doclingClient *fakeDoclingClient, docs ...*types.Document) (*DocumentService, *fakeDocumentRepo) {
	t.Helper()
	repo := newFakeDocumentRepo(docs...)
	svc, err := NewDocumentService(testLogger(t), repo, doclingClient)
	if err != nil {
		t.Fatalf("init document service: %v", err)
	}
	return svc, repo
}

func TestProcess_ExtractsTextAndMarksReady(t *testing.T) {
	userID := uuid.New()
	srv := fileServer(t, []byte("raw pdf bytes"))
	doc := readyDocument(userID, "a.pdf", "")
	doc.Status = types.DocumentStatusPending
	doc.FileURL = srv.URL

	svc, _ := newDocumentFixture(t, &fakeDoclingClient{extractText: "extracted body"}, doc)

	out, err := svc.Process(context.Background(), userID, doc.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if out.Status != types.DocumentStatusReady {
		t.Fatalf("expected ready, got %q", out.Status)
	}
	if out.ExtractedText != "extracted body" {
		t.Fatalf("unexpected extracted text %q", out.ExtractedText)
	}
}

func TestProcess_ExtractionFailureMarksFailed(t *testing.T) {
	userID := uuid.New()
	srv := fileServer(t, []byte("raw pdf bytes"))
	doc := readyDocument(userID, "a.pdf", "")
	doc.Status = types.DocumentStatusPending
	doc.FileURL = srv.URL

	svc, _ := newDocumentFixture(t, &fakeDoclingClient{extractErr: errors.New("unsupported format")}, doc)

	out, err := svc.Process(context.Background(), userID, doc.ID)
	if err != nil {
		t.Fatalf("process should report failure on the row, not as error: %v", err)
	}
	if out.Status != types.DocumentStatusFailed {
		t.Fatalf("expected failed, got %q", out.Status)
	}
	if !strings.Contains(out.Error, "unsupported format") {
		t.Fatalf("expected error recorded, got %q", out.Error)
	}
}

func TestProcess_EmptyExtractionIsFailure(t *testing.T) {
	userID := uuid.New()
	srv := fileServer(t, []byte("raw pdf bytes"))
	doc := readyDocument(userID, "a.pdf", "")
	doc.Status = types.DocumentStatusPending
	doc.FileURL = srv.URL

	svc, _ := newDocumentFixture(t, &fakeDoclingClient{extractText: "   "}, doc)

	out, err := svc.Process(context.Background(), userID, doc.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if out.Status != types.DocumentStatusFailed {
		t.Fatalf("expected failed for empty extraction, got %q", out.Status)
	}
}

func TestRetryProcessing_OnlyFromFailed(t *testing.T) {
	userID := uuid.New()
	srv := fileServer(t, []byte("raw pdf bytes"))
	readyDoc := readyDocument(userID, "ready.pdf", "text")
	failedDoc := readyDocument(userID, "failed.pdf", "")
	failedDoc.Status = types.DocumentStatusFailed
	failedDoc.Error = "previous failure"
	failedDoc.FileURL = srv.URL

	svc, _ := newDocumentFixture(t, &fakeDoclingClient{extractText: "recovered text"}, readyDoc, failedDoc)

	if _, err := svc.RetryProcessing(context.Background(), userID, readyDoc.ID); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for ready doc, got %v", err)
	}

	out, err := svc.RetryProcessing(context.Background(), userID, failedDoc.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if out.Status != types.DocumentStatusReady || out.ExtractedText != "recovered text" {
		t.Fatalf("unexpected document after retry: %+v", out)
	}
	if out.Error != "" {
		t.Fatalf("expected error cleared, got %q", out.Error)
	}
}
