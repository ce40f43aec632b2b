package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/euclidia/agent/contract"
	geminix "github.com/tanpawarit/euclidia/pkg/gemini"
	openaicompatx "github.com/tanpawarit/euclidia/pkg/openaicompat"
)

const minCredentialLength = 10

var placeholderCredentials = map[string]bool{
	"your_api_key":      true,
	"your_api_key_here": true,
	"your-api-key":      true,
	"placeholder":       true,
	"changeme":          true,
	"xxx":               true,
	"test":              true,
}

type Config struct {
	GoogleAPIKey   string `envconfig:"GOOGLE_API_KEY"`
	DeepSeekAPIKey string `envconfig:"DEEPSEEK_API_KEY"`

	GeminiBaseURL   string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	RouterModel     string `envconfig:"ROUTER_MODEL" default:"gemini-2.5-flash"`
	ExplainModel    string `envconfig:"EXPLAIN_MODEL" default:"gemini-2.5-flash"`
	DeepSeekBaseURL string `envconfig:"DEEPSEEK_BASE_URL" default:"https://api.deepseek.com"`
	ProveModel      string `envconfig:"PROVE_MODEL" default:"deepseek-reasoner"`

	Temperature        float32       `envconfig:"LLM_TEMPERATURE" default:"0.7"`
	MaxCompletionToken int           `envconfig:"LLM_MAX_COMPLETION_TOKEN" default:"0"`
	Timeout            time.Duration `envconfig:"LLM_TIMEOUT" default:"120s"`
	CleanupMaxChars    int           `envconfig:"CLEANUP_MAX_CHARS" default:"8000"`
}

// Validate checks both provider credentials. A failure is fatal at startup.
func (c Config) Validate() error {
	if err := validateCredential("GOOGLE_API_KEY", c.GoogleAPIKey); err != nil {
		return err
	}
	if err := validateCredential("DEEPSEEK_API_KEY", c.DeepSeekAPIKey); err != nil {
		return err
	}
	if strings.TrimSpace(c.RouterModel) == "" || strings.TrimSpace(c.ExplainModel) == "" || strings.TrimSpace(c.ProveModel) == "" {
		return fmt.Errorf("%w: router, explain and prove models are required", contractx.ErrConfiguration)
	}
	return nil
}

func validateCredential(name, value string) error {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: %s is missing", contractx.ErrConfiguration, name)
	case len(trimmed) < minCredentialLength:
		return fmt.Errorf("%w: %s appears to be invalid (too short)", contractx.ErrConfiguration, name)
	case placeholderCredentials[strings.ToLower(trimmed)]:
		return fmt.Errorf("%w: %s appears to be a placeholder value", contractx.ErrConfiguration, name)
	}
	return nil
}

// RouterConfig targets Gemini's OpenAI-compatible endpoint, which supports
// tool binding.
func (c Config) RouterConfig() openaicompatx.Config {
	return openaicompatx.Config{
		Provider:           "gemini-router",
		BaseURL:            strings.TrimSpace(c.GeminiBaseURL),
		APIKey:             strings.TrimSpace(c.GoogleAPIKey),
		Model:              strings.TrimSpace(c.RouterModel),
		MaxCompletionToken: c.maxTokens(),
		Temperature:        c.temperature(),
		Timeout:            c.Timeout,
	}
}

func (c Config) ProveConfig() openaicompatx.Config {
	return openaicompatx.Config{
		Provider:           "deepseek",
		BaseURL:            strings.TrimSpace(c.DeepSeekBaseURL),
		APIKey:             strings.TrimSpace(c.DeepSeekAPIKey),
		Model:              strings.TrimSpace(c.ProveModel),
		MaxCompletionToken: c.maxTokens(),
		Temperature:        c.temperature(),
		Timeout:            c.Timeout,
	}
}

func (c Config) ExplainConfig() geminix.Config {
	return geminix.Config{
		APIKey:          strings.TrimSpace(c.GoogleAPIKey),
		Model:           strings.TrimSpace(c.ExplainModel),
		Temperature:     c.temperature(),
		MaxOutputTokens: c.maxTokens(),
		Timeout:         c.Timeout,
	}
}

func (c Config) maxTokens() *int {
	if c.MaxCompletionToken <= 0 {
		return nil
	}
	v := c.MaxCompletionToken
	return &v
}

func (c Config) temperature() *float32 {
	v := c.Temperature
	return &v
}
