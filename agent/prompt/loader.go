package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router_system.txt
	routerSystemRaw string

	//go:embed template/explain.txt
	explainRaw string

	//go:embed template/prove.txt
	proveRaw string

	//go:embed template/cleanup.txt
	cleanupRaw string

	//go:embed template/eval_generate.txt
	evalGenerateRaw string

	//go:embed template/eval_judge.txt
	evalJudgeRaw string
)

// PromptSet holds loaded prompt content. Templates use schema.FString
// placeholders: {question} for the specialists, {text} for cleanup,
// {count} and {question}/{answer} for the evaluation prompts.
type PromptSet struct {
	RouterSystem string
	Explain      string
	Prove        string
	Cleanup      string
	EvalGenerate string
	EvalJudge    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		RouterSystem: strings.TrimSpace(routerSystemRaw),
		Explain:      strings.TrimSpace(explainRaw),
		Prove:        strings.TrimSpace(proveRaw),
		Cleanup:      strings.TrimSpace(cleanupRaw),
		EvalGenerate: strings.TrimSpace(evalGenerateRaw),
		EvalJudge:    strings.TrimSpace(evalJudgeRaw),
	}
}
