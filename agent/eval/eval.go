package eval

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	promptx "github.com/tanpawarit/euclidia/agent/prompt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrEvalBelowThreshold = errors.New("evaluation average is below the threshold")
	ErrNoQuestions        = errors.New("no test questions were generated")
)

const answerError = "[ERROR]"

type Router interface {
	Route(ctx context.Context, history []*schema.Message) (contractx.Reply, error)
}

type Result struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Comment  string  `json:"comment"`
}

type Summary struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Model     string    `json:"judge_model"`
	Results   []Result  `json:"results"`
	Average   float64   `json:"average"`
	Threshold float64   `json:"threshold"`
	CSVPath   string    `json:"csv_path"`
}

type Runner struct {
	cfg          Config
	router       Router
	client       *openaisdk.Client
	systemPrompt string
	prompts      promptx.PromptSet

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRunner(cfg Config, router Router, client *openaisdk.Client, systemPrompt string) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if router == nil {
		return nil, errors.New("router is required")
	}
	if client == nil {
		return nil, errors.New("judge client is required")
	}

	return &Runner{
		cfg:          cfg,
		router:       router,
		client:       client,
		systemPrompt: systemPrompt,
		prompts:      promptx.LoadPromptSet(),
		now:          time.Now,
		sleep:        sleepCtx,
	}, nil
}

// Run generates questions, routes each through a fresh conversation, has
// the judge score every answer and writes the results. It returns
// ErrEvalBelowThreshold, with the summary, when the average is too low.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
		Model:     r.cfg.Model,
		Threshold: r.cfg.Threshold,
	}
	logger := log.With().Str("eval_run_id", summary.RunID).Logger()
	ctx = logger.WithContext(ctx)

	questions, err := r.generateQuestions(ctx)
	if err != nil {
		return summary, err
	}
	logger.Info().Int("questions", len(questions)).Msg("test questions generated")

	var total float64
	for i, q := range questions {
		res := r.evaluate(ctx, q)
		total += res.Score
		summary.Results = append(summary.Results, res)

		logger.Info().
			Int("index", i+1).
			Float64("score", res.Score).
			Str("comment", res.Comment).
			Msg("question evaluated")

		if i < len(questions)-1 && r.cfg.Delay > 0 {
			if err := r.sleep(ctx, r.cfg.Delay); err != nil {
				return summary, err
			}
		}
	}
	summary.Average = total / float64(len(questions))

	path, err := r.writeCSV(summary)
	if err != nil {
		return summary, err
	}
	summary.CSVPath = path
	if err := r.writeSummary(summary); err != nil {
		return summary, err
	}

	logger.Info().
		Float64("average", summary.Average).
		Str("csv", path).
		Msg("evaluation complete")

	if summary.Average < r.cfg.Threshold {
		return summary, fmt.Errorf("%w: average %.2f/10, threshold %.2f/10", ErrEvalBelowThreshold, summary.Average, r.cfg.Threshold)
	}
	return summary, nil
}

func (r *Runner) evaluate(ctx context.Context, question string) Result {
	history := []*schema.Message{
		schema.SystemMessage(r.systemPrompt),
		schema.UserMessage(question),
	}

	reply, err := r.router.Route(ctx, history)
	if err != nil {
		return Result{Question: question, Answer: answerError, Score: 0, Comment: err.Error()}
	}

	answer := reply.Content()
	score, comment, err := r.judge(ctx, question, answer)
	if err != nil {
		return Result{Question: question, Answer: answer, Score: 0, Comment: err.Error()}
	}
	return Result{Question: question, Answer: answer, Score: score, Comment: comment}
}

func (r *Runner) generateQuestions(ctx context.Context) ([]string, error) {
	prompt, err := render(ctx, r.prompts.EvalGenerate, map[string]any{
		"count": r.cfg.Questions,
	})
	if err != nil {
		return nil, err
	}

	text, err := r.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions := parseQuestions(text, r.cfg.Questions)
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

func (r *Runner) judge(ctx context.Context, question, answer string) (float64, string, error) {
	prompt, err := render(ctx, r.prompts.EvalJudge, map[string]any{
		"question": question,
		"answer":   answer,
	})
	if err != nil {
		return 0, "", err
	}

	text, err := r.complete(ctx, prompt)
	if err != nil {
		return 0, "", fmt.Errorf("judge: %w", err)
	}
	score, comment := parseJudgement(text)
	return score, comment, nil
}

func (r *Runner) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(r.cfg.Model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion has no choices", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func render(ctx context.Context, template string, vars map[string]any) (string, error) {
	msgs, err := einoprompt.FromMessages(schema.FString, schema.UserMessage(template)).Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("%w: render eval prompt: %v", contractx.ErrPromptMissing, err)
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("%w: eval prompt rendered no message", contractx.ErrPromptMissing)
	}
	return msgs[0].Content, nil
}

func (r *Runner) baseName() string {
	return "euclidia_test_results_" + r.now().Format("2006-01-02")
}

func (r *Runner) writeCSV(s Summary) (string, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(r.cfg.OutputDir, r.baseName()+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{{"Question", "Answer", "Score", "Comment"}}
	for _, res := range s.Results {
		rows = append(rows, []string{res.Question, res.Answer, formatScore(res.Score), res.Comment})
	}
	rows = append(rows, []string{"Average", "", formatScore(s.Average), "Average score over all questions"})

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, f.Close()
}

func (r *Runner) writeSummary(s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	path := filepath.Join(r.cfg.OutputDir, r.baseName()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
