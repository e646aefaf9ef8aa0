// Package meta provides the built-in analyzer and content generator: the
// deterministic stand-ins for an LLM-backed meta layer. Both are pure
// keyword/template implementations behind the ports interfaces, so a real
// LLM adapter can replace them without touching the core.
package meta

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

const encodingName = "cl100k_base"

// taskSignals maps surface cues to reasoning tasks, in canonical task order.
var taskSignals = []struct {
	task     models.TaskType
	keywords []string
}{
	{models.TaskDeduction, []string{"therefore", "deduce", "conclude", "prove", "given that", "it follows"}},
	{models.TaskInduction, []string{"generalize", "pattern", "trend", "extrapolate", "from these examples"}},
	{models.TaskAbduction, []string{"explain why", "best explanation", "diagnose", "likely cause", "hypothesis"}},
	{models.TaskComparison, []string{"compare", "versus", " vs ", "difference between", "contrast", "pros and cons"}},
	{models.TaskCounterfactual, []string{"what if", "would have happened", "suppose instead", "had it been", "imagine if"}},
}

var behaviorSignals = []struct {
	behavior models.BehaviorType
	keywords []string
}{
	{models.BehaviorPrecision, []string{"precise", "exact", "accurate", "specific", "rigorous"}},
	{models.BehaviorCreativity, []string{"creative", "brainstorm", "novel", "imaginative", "unconventional"}},
	{models.BehaviorStepByStep, []string{"step by step", "step-by-step", "walk me through", "show your work"}},
	{models.BehaviorConciseness, []string{"concise", "brief", "short answer", "summarize", "tl;dr"}},
	{models.BehaviorErrorChecking, []string{"double-check", "verify", "check for errors", "validate"}},
}

var domainSignals = []struct {
	domain   string
	keywords []string
}{
	{"legal", []string{"legal", "contract", "statute", "lawsuit", "court", "liability"}},
	{"medical", []string{"medical", "patient", "diagnosis", "clinical", "symptom", "treatment"}},
	{"code", []string{"code", "function", "bug", "compile", "refactor", "stack trace"}},
}

// Analyzer reads tasks, behaviors, and a domain hint out of raw prompt text.
// The zero value is usable and estimates tokens by length; NewAnalyzer adds
// a real token encoder when one can be loaded.
type Analyzer struct {
	enc *tiktoken.Tiktoken
}

var _ ports.Analyzer = (*Analyzer)(nil)

func NewAnalyzer() *Analyzer {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		slog.Warn("token encoder unavailable, estimating tokens by length",
			"encoding", encodingName,
			"error", err)
		return &Analyzer{}
	}
	return &Analyzer{enc: enc}
}

// Analyze never fails. Prompts with no recognizable cues get the default
// reading: a deduction task with precision and step_by_step behaviors.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*models.PromptAnalysis, error) {
	lower := strings.ToLower(text)

	var tasks []models.TaskType
	for _, sig := range taskSignals {
		if containsAny(lower, sig.keywords) {
			tasks = append(tasks, sig.task)
		}
	}
	if len(tasks) == 0 {
		tasks = []models.TaskType{models.TaskDeduction}
	}

	var behaviors []models.BehaviorType
	for _, sig := range behaviorSignals {
		if containsAny(lower, sig.keywords) {
			behaviors = append(behaviors, sig.behavior)
		}
	}
	if len(behaviors) == 0 {
		behaviors = []models.BehaviorType{models.BehaviorPrecision, models.BehaviorStepByStep}
	}

	var hint *string
	for _, sig := range domainSignals {
		if containsAny(lower, sig.keywords) {
			d := sig.domain
			hint = &d
			break
		}
	}

	return &models.PromptAnalysis{
		DetectedTasks:     tasks,
		DetectedBehaviors: behaviors,
		DomainHint:        hint,
		TokenEstimate:     a.estimateTokens(text),
	}, nil
}

func (a *Analyzer) estimateTokens(text string) int {
	if a.enc != nil {
		return len(a.enc.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
