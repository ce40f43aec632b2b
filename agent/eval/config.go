package eval

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/euclidia/agent/contract"
	openaicompatx "github.com/tanpawarit/euclidia/pkg/openaicompat"
)

type Config struct {
	APIKey    string        `envconfig:"MISTRAL_API_KEY"`
	BaseURL   string        `envconfig:"EVAL_BASE_URL" default:"https://api.mistral.ai/v1"`
	Model     string        `envconfig:"EVAL_MODEL" default:"mistral-medium-latest"`
	Questions int           `envconfig:"EVAL_QUESTIONS" default:"10"`
	Threshold float64       `envconfig:"EVAL_THRESHOLD" default:"7"`
	Delay     time.Duration `envconfig:"EVAL_DELAY" default:"1s"`
	OutputDir string        `envconfig:"EVAL_OUTPUT_DIR" default:"."`
	Timeout   time.Duration `envconfig:"EVAL_TIMEOUT" default:"60s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: MISTRAL_API_KEY is not defined", contractx.ErrConfiguration)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: EVAL_MODEL is required", contractx.ErrConfiguration)
	}
	if c.Questions <= 0 {
		return fmt.Errorf("%w: EVAL_QUESTIONS must be positive", contractx.ErrConfiguration)
	}
	return nil
}

func (c Config) ClientConfig() openaicompatx.Config {
	return openaicompatx.Config{
		Provider: "mistral",
		BaseURL:  c.BaseURL,
		APIKey:   c.APIKey,
		Model:    c.Model,
		Timeout:  c.Timeout,
	}
}
