package docling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/studydeck/studydeck-backend/internal/pkg/ctxutil"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/utils"
)

// Chunk is one segment returned by the docling /chunk endpoint, in
// document order.
type Chunk struct {
	Content      string  `json:"content"`
	ChunkIndex   int     `json:"chunk_index"`
	SectionTitle *string `json:"section_title"`
	PageNumber   *int    `json:"page_number"`
	CharStart    int     `json:"char_start"`
	CharEnd      int     `json:"char_end"`
}

type ChunkResult struct {
	Chunks      []Chunk `json:"chunks"`
	TotalChunks int     `json:"total_chunks"`
	TotalChars  int     `json:"total_chars"`
}

type ExtractResult struct {
	Text string `json:"text"`
}

// Client talks to the docling document service for text extraction and
// chunking.
type Client interface {
	Extract(ctx context.Context, filename string, data []byte) (*ExtractResult, error)
	Chunk(ctx context.Context, filename string, data []byte) (*ChunkResult, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &client{
		log:        log.With("client", "DoclingClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, Config{
		BaseURL: utils.GetEnv("DOCLING_URL", "http://localhost:8000", log),
		Timeout: time.Duration(utils.GetEnvAsInt("DOCLING_TIMEOUT_SECONDS", 120, log)) * time.Second,
	})
}

func (c *client) Extract(ctx context.Context, filename string, data []byte) (*ExtractResult, error) {
	var out ExtractResult
	if err := c.postFile(ctx, "/extract", filename, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) Chunk(ctx context.Context, filename string, data []byte) (*ChunkResult, error) {
	var out ChunkResult
	if err := c.postFile(ctx, "/chunk", filename, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) postFile(ctx context.Context, path, filename string, data []byte, out any) error {
	if len(data) == 0 {
		return fmt.Errorf("file payload required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), "POST", c.cfg.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("docling %s http %d: %s", path, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("docling %s decode: %w", path, err)
	}
	return nil
}
