package ai

import (
	"context"
	"fmt"

	"github.com/studydeck/studydeck-backend/internal/clients/openrouter"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
)

// RouterRequest is one completion request with routing hints.
type RouterRequest struct {
	Task          Task
	Messages      []openrouter.Message
	Complexity    *float64
	MaxTokens     int
	Temperature   *float64
	ModelOverride string
}

type RouterResponse struct {
	Content       string
	Model         string
	Usage         openrouter.Usage
	UsedFallback  bool
	OriginalModel string
}

// RouterError is any failure to obtain a completion: an upstream HTTP
// error, a transport failure, or fallback exhaustion. StatusCode is 0
// when no HTTP status applies.
type RouterError struct {
	Message    string
	StatusCode int
	ModelID    string
}

func (e *RouterError) Error() string {
	return e.Message
}

// Completer is the routing surface services depend on.
type Completer interface {
	Route(ctx context.Context, req RouterRequest) (*RouterResponse, error)
}

// Router selects a model per task and walks the fallback chain when the
// primary model fails. A model override pins the request to one model
// and disables fallback entirely.
type Router struct {
	log    *logger.Logger
	cfg    RouterConfig
	client openrouter.Client
}

func NewRouter(log *logger.Logger, cfg RouterConfig, client openrouter.Client) (*Router, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if client == nil {
		return nil, fmt.Errorf("openrouter client required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Router{
		log:    log.With("service", "ModelRouter"),
		cfg:    cfg,
		client: client,
	}, nil
}

func (r *Router) Config() RouterConfig {
	return r.cfg
}

func (r *Router) callModel(ctx context.Context, model ModelConfig, req RouterRequest) (*RouterResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = model.MaxTokens
	}
	temperature := 0.7
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	resp, err := r.client.ChatCompletion(ctx, openrouter.ChatRequest{
		Model:       model.Model,
		Messages:    req.Messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		statusCode := 0
		if httpErr, ok := err.(*openrouter.HTTPError); ok {
			statusCode = httpErr.StatusCode
		}
		return nil, &RouterError{
			Message:    fmt.Sprintf("model %s failed: %v", model.ID, err),
			StatusCode: statusCode,
			ModelID:    model.ID,
		}
	}

	return &RouterResponse{
		Content: resp.Content,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}

// Route sends the request to the selected model and, when the primary
// fails without an override, retries down the fallback chain skipping
// the model that already failed.
func (r *Router) Route(ctx context.Context, req RouterRequest) (*RouterResponse, error) {
	var model ModelConfig
	if req.ModelOverride != "" {
		override, ok := r.cfg.Models[req.ModelOverride]
		if !ok {
			return nil, &RouterError{Message: fmt.Sprintf("unknown model override: %s", req.ModelOverride)}
		}
		model = override
	} else {
		model = r.cfg.ModelForTask(req.Task, req.Complexity)
	}

	originalModelID := model.ID

	resp, primaryErr := r.callModel(ctx, model, req)
	if primaryErr == nil {
		return resp, nil
	}
	if req.ModelOverride != "" {
		return nil, primaryErr
	}

	for _, fallbackID := range r.cfg.FallbackChain {
		if fallbackID == originalModelID {
			continue
		}
		fallbackModel, ok := r.cfg.Models[fallbackID]
		if !ok {
			continue
		}

		resp, err := r.callModel(ctx, fallbackModel, req)
		if err != nil {
			r.log.Warn("Fallback model failed",
				"task", string(req.Task),
				"model_id", fallbackID,
				"error", err.Error(),
			)
			continue
		}

		resp.UsedFallback = true
		resp.OriginalModel = originalModelID
		return resp, nil
	}

	return nil, &RouterError{
		Message: fmt.Sprintf("all models failed. original error: %v", primaryErr),
		ModelID: originalModelID,
	}
}

// Complete is a convenience wrapper for a single system+user exchange.
func (r *Router) Complete(ctx context.Context, task Task, systemPrompt, userPrompt string, req RouterRequest) (string, error) {
	req.Task = task
	req.Messages = []openrouter.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	resp, err := r.Route(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
