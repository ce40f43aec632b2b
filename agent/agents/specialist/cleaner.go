package specialist

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

const DefaultCleanupMaxChars = 8000

const (
	skipEmpty     = "empty input"
	skipTooLong   = "input over size threshold"
	skipTruncated = "cleaned text looks truncated"
)

type cleanerImpl struct {
	runner   compose.Runnable[map[string]any, *schema.Message]
	maxChars int
}

var _ contractx.Cleaner = (*cleanerImpl)(nil)

func newCleaner(ctx context.Context, chatModel einomodel.BaseChatModel, template string, maxChars int) (*cleanerImpl, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: cleanup chat model is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("%w: cleanup", contractx.ErrPromptMissing)
	}
	if maxChars <= 0 {
		maxChars = DefaultCleanupMaxChars
	}

	runner, err := compilePromptGraph(ctx, chatModel, template, "specialist.cleanup")
	if err != nil {
		return nil, fmt.Errorf("%w: compile cleanup graph: %v", contractx.ErrModelInvoke, err)
	}
	return &cleanerImpl{runner: runner, maxChars: maxChars}, nil
}

// Clean normalizes math delimiters. It is best-effort: whenever the pass is
// skipped or fails, Text is the input unchanged.
func (c *cleanerImpl) Clean(ctx context.Context, text string) (res contractx.CleanResult) {
	res.Text = text

	if strings.TrimSpace(text) == "" {
		res.Skipped = skipEmpty
		return res
	}
	inputLen := utf8.RuneCountInString(text)
	if inputLen >= c.maxChars {
		res.Skipped = skipTooLong
		log.Ctx(ctx).Debug().Int("chars", inputLen).Int("max_chars", c.maxChars).Msg("cleanup skipped")
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res = contractx.CleanResult{Text: text, Err: fmt.Errorf("%w: cleanup panic: %v", contractx.ErrModelInvoke, r)}
		}
	}()

	msg, err := c.runner.Invoke(ctx, map[string]any{
		"text": text,
	})
	if err != nil {
		res.Err = fmt.Errorf("%w: cleanup: %v", contractx.ErrModelInvoke, err)
		return res
	}

	cleaned := ""
	if msg != nil {
		cleaned = strings.TrimSpace(msg.Content)
	}
	if cleaned == "" {
		res.Err = fmt.Errorf("%w: cleanup returned empty text", contractx.ErrSchemaViolation)
		return res
	}
	if utf8.RuneCountInString(cleaned)*2 < inputLen {
		res.Skipped = skipTruncated
		log.Ctx(ctx).Warn().
			Int("input_chars", inputLen).
			Int("cleaned_chars", utf8.RuneCountInString(cleaned)).
			Msg("cleanup output discarded")
		return res
	}

	res.Text = cleaned
	res.Applied = true
	return res
}
