package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	orchestrator "github.com/tanpawarit/euclidia/agent/agents/orchestrator"
	"github.com/tanpawarit/euclidia/agent/agents/specialist"
	"github.com/tanpawarit/euclidia/agent/eval"
	llmx "github.com/tanpawarit/euclidia/agent/llm"
	promptx "github.com/tanpawarit/euclidia/agent/prompt"
	"github.com/tanpawarit/euclidia/agent/session"
	configx "github.com/tanpawarit/euclidia/pkg/config"
	"github.com/tanpawarit/euclidia/pkg/console"
	logx "github.com/tanpawarit/euclidia/pkg/logger"
	openaicompatx "github.com/tanpawarit/euclidia/pkg/openaicompat"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile string
	var runEval bool

	flagSet := pflag.NewFlagSet("euclidia", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env", "", "path to a .env file (default: ./.env when present)")
	flagSet.BoolVar(&runEval, "eval", false, "generate test questions, answer and score them, then exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	configx.SetEnvFile(envFile)
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llmx.Config]("")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model configuration")
	}
	agentCfg := configx.MustNew[orchestrator.Config]("AGENT")

	models, err := specialist.NewRegistry(ctx, *llmCfg)
	if err != nil {
		return fmt.Errorf("build models: %w", err)
	}

	out := console.New(os.Stdout)
	opts := []orchestrator.Option{}
	if !runEval {
		opts = append(opts, orchestrator.WithStatus(out.Status))
	}
	orch, err := orchestrator.New(models, *agentCfg, opts...)
	if err != nil {
		return fmt.Errorf("build orchestrator: %w", err)
	}

	prompts := promptx.LoadPromptSet()
	if runEval {
		return evaluate(ctx, orch, prompts.RouterSystem)
	}
	return chat(ctx, out, session.New(orch, prompts.RouterSystem))
}

func evaluate(ctx context.Context, router eval.Router, systemPrompt string) error {
	cfg := configx.MustNew[eval.Config]("")
	runner, err := eval.NewRunner(*cfg, router, openaicompatx.NewClient(cfg.ClientConfig()), systemPrompt)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	if summary.CSVPath != "" {
		fmt.Printf("average score %.2f/10 over %d questions, results in %s\n",
			summary.Average, len(summary.Results), summary.CSVPath)
	}
	return err
}

func chat(ctx context.Context, out *console.Console, sess *session.Session) error {
	log.Info().Str("session_id", sess.ID()).Msg("session started")
	out.Banner()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		out.Prompt()

		var line string
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			sess.Clear()
			out.Info("Conversation cleared.")
			continue
		}

		reply, err := sess.Ask(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			out.Error(err)
			continue
		}
		out.Reply(reply)
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `EuclidIA routes math questions to an explaining or a proving model.

Usage:
  euclidia [flags]

Commands inside the chat:
  /clear   start a new conversation
  /quit    leave

Flags:
`)
	flagSet.PrintDefaults()
}
