package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studydeck/studydeck-backend/internal/pkg/ctxutil"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/utils"
)

const chatCompletionsPath = "/api/v1/chat/completions"

// Message is one chat turn; Role is system, user, or assistant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// HTTPError carries the upstream status code so callers can distinguish
// rate limits and server errors from request bugs.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openrouter http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// Client performs chat-completion calls against the OpenRouter API.
// It is deliberately single-shot: the model router owns failure recovery
// through its fallback chain, so the client never retries on its own.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type Config struct {
	APIKey   string
	BaseURL  string
	SiteURL  string
	SiteName string
	Timeout  time.Duration
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
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OpenRouter API key")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://openrouter.ai"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &client{
		log:        log.With("client", "OpenRouterClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(utils.GetEnv("OPENROUTER_API_KEY", "", log))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENROUTER_API_KEY")
	}
	timeoutSec := utils.GetEnvAsInt("OPENROUTER_TIMEOUT_SECONDS", 60, log)
	return New(log, Config{
		APIKey:   apiKey,
		BaseURL:  utils.GetEnv("OPENROUTER_BASE_URL", "https://openrouter.ai", log),
		SiteURL:  utils.GetEnv("PUBLIC_APP_URL", "", log),
		SiteName: utils.GetEnv("OPENROUTER_SITE_NAME", "StudyDeck", log),
		Timeout:  time.Duration(timeoutSec) * time.Second,
	})
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage  `json:"usage"`
	Model string `json:"model"`
}

func (c *client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("model required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages required")
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctxutil.Default(ctx), "POST", c.cfg.BaseURL+chatCompletionsPath, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.SiteURL != "" {
		httpReq.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	}
	if c.cfg.SiteName != "" {
		httpReq.Header.Set("X-Title", c.cfg.SiteName)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatCompletionsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("openrouter decode error: %w; raw=%s", err, string(raw))
	}

	content := ""
	if len(out.Choices) > 0 {
		content = out.Choices[0].Message.Content
	}
	return &ChatResponse{
		Content: content,
		Model:   out.Model,
		Usage:   out.Usage,
	}, nil
}
