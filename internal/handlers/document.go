package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studydeck/studydeck-backend/internal/middleware"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/services"
)

type DocumentHandler struct {
	log        *logger.Logger
	documents  *services.DocumentService
	embeddings *services.EmbeddingService
}

func NewDocumentHandler(log *logger.Logger, documents *services.DocumentService, embeddings *services.EmbeddingService) *DocumentHandler {
	return &DocumentHandler{
		log:        log.With("handler", "DocumentHandler"),
		documents:  documents,
		embeddings: embeddings,
	}
}

func (h *DocumentHandler) documentID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return uuid.Nil, uuid.Nil, false
	}
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, documentID, true
}

func (h *DocumentHandler) Process(c *gin.Context) {
	userID, documentID, ok := h.documentID(c)
	if !ok {
		return
	}
	doc, err := h.documents.Process(c.Request.Context(), userID, documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) RetryProcess(c *gin.Context) {
	userID, documentID, ok := h.documentID(c)
	if !ok {
		return
	}
	doc, err := h.documents.RetryProcessing(c.Request.Context(), userID, documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) ReprocessEmbeddings(c *gin.Context) {
	userID, documentID, ok := h.documentID(c)
	if !ok {
		return
	}
	count, err := h.embeddings.Reprocess(c.Request.Context(), userID, documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document_id": documentID, "chunk_count": count})
}
