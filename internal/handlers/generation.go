package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studydeck/studydeck-backend/internal/middleware"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/services"
	"github.com/studydeck/studydeck-backend/internal/types"
)

type GenerationHandler struct {
	log         *logger.Logger
	generations *services.GenerationService
}

func NewGenerationHandler(log *logger.Logger, generations *services.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		log:         log.With("handler", "GenerationHandler"),
		generations: generations,
	}
}

type startGenerationRequest struct {
	Name        string   `json:"name" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	DocumentIDs []string `json:"document_ids" binding:"required"`
}

func (h *GenerationHandler) Start(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req startGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docIDs := make([]uuid.UUID, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id: " + raw})
			return
		}
		docIDs = append(docIDs, id)
	}

	gen, err := h.generations.Start(c.Request.Context(), userID, services.StartGenerationInput{
		Name:        req.Name,
		Type:        types.GenerationType(req.Type),
		DocumentIDs: docIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gen)
}

func (h *GenerationHandler) Dispatch(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	generationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid generation id"})
		return
	}

	result, err := h.generations.Dispatch(c.Request.Context(), userID, generationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GenerationHandler) Retry(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	generationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid generation id"})
		return
	}

	result, err := h.generations.Retry(c.Request.Context(), userID, generationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GenerationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	gens, err := h.generations.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"generations": gens})
}

func (h *GenerationHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	generationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid generation id"})
		return
	}
	gen, err := h.generations.Get(c.Request.Context(), userID, generationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gen)
}
