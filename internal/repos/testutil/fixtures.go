package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.New(),
		Email: email,
		Name:  "Test User",
		Plan:  "free",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "doc.pdf",
		StorageKey:    "materials/doc.pdf",
		MimeType:      "application/pdf",
		Status:        status,
		ExtractedText: "some extracted text",
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedGeneration(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, genType types.GenerationType, status types.GenerationStatus, docIDs ...uuid.UUID) *types.Generation {
	tb.Helper()
	raw, err := json.Marshal(docIDs)
	if err != nil {
		tb.Fatalf("marshal doc ids: %v", err)
	}
	g := &types.Generation{
		ID:                uuid.New(),
		UserID:            userID,
		SourceDocumentIDs: datatypes.JSON(raw),
		Name:              "generation",
		Type:              genType,
		Status:            status,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed generation: %v", err)
	}
	return g
}

func SeedDocumentChunk(tb testing.TB, ctx context.Context, tx *gorm.DB, documentID, userID uuid.UUID, index int) *types.DocumentChunk {
	tb.Helper()
	c := &types.DocumentChunk{
		ID:         uuid.New(),
		DocumentID: documentID,
		UserID:     userID,
		Content:    "chunk",
		ChunkIndex: index,
		Embedding:  datatypes.JSON([]byte("[]")),
		CharStart:  0,
		CharEnd:    5,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed document chunk: %v", err)
	}
	return c
}

func PtrInt(v int) *int { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
