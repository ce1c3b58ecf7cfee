package ai

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task selects which routing rules apply to a request.
type Task string

const (
	TaskFlashcard Task = "flashcard"
	TaskQuiz      Task = "quiz"
	TaskSummary   Task = "summary"
	TaskNotes     Task = "notes"
	TaskExplain   Task = "explain"
	TaskClassify  Task = "classify"
	TaskChat      Task = "chat"
)

// ModelConfig describes one model reachable through OpenRouter.
type ModelConfig struct {
	ID              string  `yaml:"id"`
	Provider        string  `yaml:"provider"`
	Model           string  `yaml:"model"`
	CostPer1KTokens float64 `yaml:"cost_per_1k_tokens"`
	MaxTokens       int     `yaml:"max_tokens"`
}

// RoutingRule maps a task, optionally gated by a complexity condition,
// to a model id. Rules are evaluated in order; the first match wins.
type RoutingRule struct {
	Task      Task   `yaml:"task"`
	Condition string `yaml:"condition,omitempty"`
	Model     string `yaml:"model"`
}

type RouterConfig struct {
	Classifier    ModelConfig            `yaml:"classifier"`
	Models        map[string]ModelConfig `yaml:"models"`
	DefaultModel  string                 `yaml:"default_model"`
	FallbackChain []string               `yaml:"fallback_chain"`
	Rules         []RoutingRule          `yaml:"rules"`
}

// DefaultRouterConfig is the built-in routing table, used when no config
// file is supplied.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		Classifier: ModelConfig{
			ID:              "classifier",
			Provider:        "openrouter",
			Model:           "deepseek/deepseek-chat",
			CostPer1KTokens: 0.0001,
			MaxTokens:       100,
		},
		Models: map[string]ModelConfig{
			"deepseek-v3": {
				ID:              "deepseek-v3",
				Provider:        "openrouter",
				Model:           "deepseek/deepseek-chat-v3",
				CostPer1KTokens: 0.0002,
				MaxTokens:       8192,
			},
			"deepseek-r1": {
				ID:              "deepseek-r1",
				Provider:        "openrouter",
				Model:           "deepseek/deepseek-r1",
				CostPer1KTokens: 0.001,
				MaxTokens:       8192,
			},
			"claude-haiku": {
				ID:              "claude-haiku",
				Provider:        "openrouter",
				Model:           "anthropic/claude-3-haiku",
				CostPer1KTokens: 0.00025,
				MaxTokens:       4096,
			},
			"claude-sonnet": {
				ID:              "claude-sonnet",
				Provider:        "openrouter",
				Model:           "anthropic/claude-3.5-sonnet",
				CostPer1KTokens: 0.003,
				MaxTokens:       8192,
			},
		},
		DefaultModel:  "deepseek-v3",
		FallbackChain: []string{"deepseek-v3", "claude-haiku", "claude-sonnet"},
		Rules: []RoutingRule{
			{Task: TaskClassify, Model: "deepseek-v3"},
			{Task: TaskFlashcard, Model: "deepseek-v3"},
			{Task: TaskQuiz, Model: "deepseek-v3"},
			{Task: TaskSummary, Model: "deepseek-v3"},
			{Task: TaskNotes, Model: "deepseek-v3"},
			{Task: TaskChat, Model: "deepseek-v3"},
			{Task: TaskExplain, Condition: "complexity > 0.7", Model: "claude-sonnet"},
			{Task: TaskExplain, Model: "deepseek-v3"},
		},
	}
}

// LoadRouterConfig reads a RouterConfig from a YAML file.
func LoadRouterConfig(path string) (RouterConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RouterConfig{}, fmt.Errorf("read router config: %w", err)
	}
	var cfg RouterConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return RouterConfig{}, fmt.Errorf("parse router config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RouterConfig{}, err
	}
	return cfg, nil
}

var conditionPattern = regexp.MustCompile(`^complexity\s*(>=|<=|==|=|>|<)\s*([0-9]*\.?[0-9]+)$`)

type condition struct {
	op        string
	threshold float64
}

func parseCondition(expr string) (*condition, error) {
	m := conditionPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return nil, fmt.Errorf("unparseable routing condition %q", expr)
	}
	threshold, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable routing condition %q: %w", expr, err)
	}
	return &condition{op: m[1], threshold: threshold}, nil
}

// matches reports whether the condition holds for the given complexity.
// A conditioned rule never matches when no complexity score is available.
func (c *condition) matches(complexity *float64) bool {
	if complexity == nil {
		return false
	}
	v := *complexity
	switch c.op {
	case ">":
		return v > c.threshold
	case ">=":
		return v >= c.threshold
	case "<":
		return v < c.threshold
	case "<=":
		return v <= c.threshold
	case "=", "==":
		return v == c.threshold
	}
	return false
}

// Validate checks that every model reference in the config resolves and
// every rule condition parses. Run at startup so a bad config fails fast
// instead of surfacing mid-generation.
func (c *RouterConfig) Validate() error {
	if strings.TrimSpace(c.Classifier.Model) == "" {
		return fmt.Errorf("router config: classifier model required")
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("router config: no models configured")
	}
	if _, ok := c.Models[c.DefaultModel]; !ok {
		return fmt.Errorf("router config: default model %q not configured", c.DefaultModel)
	}
	for _, id := range c.FallbackChain {
		if _, ok := c.Models[id]; !ok {
			return fmt.Errorf("router config: fallback model %q not configured", id)
		}
	}
	for i, rule := range c.Rules {
		if _, ok := c.Models[rule.Model]; !ok {
			return fmt.Errorf("router config: rule %d references unknown model %q", i, rule.Model)
		}
		if rule.Condition != "" {
			if _, err := parseCondition(rule.Condition); err != nil {
				return fmt.Errorf("router config: rule %d: %w", i, err)
			}
		}
	}
	return nil
}

// ModelForTask picks the model for a task by scanning the rules in
// order. Conditioned rules are skipped when complexity is nil. Falls
// back to the default model when nothing matches.
func (c *RouterConfig) ModelForTask(task Task, complexity *float64) ModelConfig {
	for _, rule := range c.Rules {
		if rule.Task != task {
			continue
		}
		if rule.Condition != "" {
			cond, err := parseCondition(rule.Condition)
			if err != nil || !cond.matches(complexity) {
				continue
			}
		}
		if model, ok := c.Models[rule.Model]; ok {
			return model
		}
	}
	return c.Models[c.DefaultModel]
}
