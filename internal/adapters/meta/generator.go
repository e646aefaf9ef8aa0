package meta

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// Generator fills component content from fixed templates and writes the
// rationale. Deterministic on purpose: the optimizer's value is in the
// structure, not the filler text.
type Generator struct{}

var _ ports.Generator = (*Generator)(nil)

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateContent(ctx context.Context, component models.ComponentType, analysis *models.PromptAnalysis, originalPrompt string) (string, error) {
	switch component {
	case models.ComponentInstruction:
		return fmt.Sprintf("Follow these instructions carefully to answer the query: %s", originalPrompt), nil
	case models.ComponentContext:
		return "Consider all relevant information and constraints before responding.", nil
	case models.ComponentExample:
		return "Here's an example of a good response: [Example response that demonstrates desired qualities]", nil
	case models.ComponentConstraint:
		return "Important: Your response must be factual, precise, and include step-by-step reasoning.", nil
	case models.ComponentOutputFormat:
		return "Format your response as follows: 1) Initial analysis, 2) Step-by-step reasoning, 3) Final answer", nil
	default:
		return "[Content for this component type]", nil
	}
}

func (g *Generator) GenerateRationale(ctx context.Context, components []models.PromptComponent, analysis *models.PromptAnalysis, score float64) (string, error) {
	ordered := orderedByPosition(components)
	names := make([]string, 0, len(ordered))
	for _, c := range ordered {
		names = append(names, string(c.Type))
	}
	return fmt.Sprintf(
		"This prompt structure (ordering: %s) was chosen because it optimizes for the detected reasoning tasks and desired behaviors. The effectiveness score is %.2f.",
		strings.Join(names, ", "), score), nil
}

// Assemble joins component content in position order with a blank line
// between components.
func (g *Generator) Assemble(components []models.PromptComponent) string {
	ordered := orderedByPosition(components)
	parts := make([]string, 0, len(ordered))
	for _, c := range ordered {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, "\n\n")
}

func orderedByPosition(components []models.PromptComponent) []models.PromptComponent {
	ordered := append([]models.PromptComponent(nil), components...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return ordered
}
