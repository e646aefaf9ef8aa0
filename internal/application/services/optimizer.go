// Package services wires the core pipeline: analysis, structure solving,
// content generation, assembly, and persistence, plus the feedback path that
// feeds learning back into the efficacy store.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/inferprompt/inferprompt/internal/adapters/metrics"
	"github.com/inferprompt/inferprompt/internal/cache"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

var tracer = otel.Tracer("inferprompt/services")

// fallbackEffectivenessScore marks a degraded single-instruction result.
const fallbackEffectivenessScore = 50.0

// OptimizerService runs the optimization pipeline. Optimize never returns
// an error: every internal failure degrades to a fallback prompt built from
// the raw user text.
type OptimizerService struct {
	analyzer  ports.Analyzer
	solver    ports.StructureSolver
	generator ports.Generator
	history   ports.HistoryRepository
	ids       ports.IDGenerator
	results   *cache.ResultCache
}

var _ ports.Optimizer = (*OptimizerService)(nil)

// NewOptimizerService creates the orchestrator. history may be nil for
// store-less runs; results may be nil to get a default-capacity cache.
func NewOptimizerService(
	analyzer ports.Analyzer,
	solver ports.StructureSolver,
	generator ports.Generator,
	history ports.HistoryRepository,
	ids ports.IDGenerator,
	results *cache.ResultCache,
) *OptimizerService {
	if results == nil {
		results = cache.New(0)
	}
	return &OptimizerService{
		analyzer:  analyzer,
		solver:    solver,
		generator: generator,
		history:   history,
		ids:       ids,
		results:   results,
	}
}

// Optimize runs the full pipeline for one request.
func (s *OptimizerService) Optimize(ctx context.Context, req models.OptimizationRequest) *models.OptimizedPrompt {
	ctx, span := tracer.Start(ctx, "Optimize",
		trace.WithAttributes(attribute.String("target_model", req.Model())))
	defer span.End()

	result, err := s.optimize(ctx, req)
	if err != nil {
		slog.Warn("optimization failed, returning fallback prompt",
			"model", req.Model(),
			"error", err)
		metrics.OptimizationsTotal.WithLabelValues("fallback").Inc()
		return fallbackPrompt(req)
	}

	metrics.OptimizationsTotal.WithLabelValues("optimized").Inc()
	s.saveHistory(ctx, req, result)
	return result
}

// Analyze exposes the analyzer to transports without re-running a full
// optimization.
func (s *OptimizerService) Analyze(ctx context.Context, text string) (*models.PromptAnalysis, error) {
	return s.analyzer.Analyze(ctx, text)
}

func (s *OptimizerService) optimize(ctx context.Context, req models.OptimizationRequest) (*models.OptimizedPrompt, error) {
	analysis, err := s.analyzer.Analyze(ctx, req.UserPrompt)
	if err != nil {
		return nil, fmt.Errorf("analyze prompt: %w", err)
	}

	// Explicit request fields win; detected values only fill gaps.
	tasks := req.TargetTasks
	if len(tasks) == 0 {
		tasks = analysis.DetectedTasks
	}
	behaviors := req.TargetBehaviors
	if len(behaviors) == 0 {
		behaviors = analysis.DetectedBehaviors
	}
	domain := req.Domain
	if domain == nil {
		domain = analysis.DomainHint
	}
	model := req.Model()

	key := cache.Key(tasks, behaviors, model, domain)
	components, score, hit := s.results.Get(key)
	if hit {
		metrics.CacheEventsTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheEventsTotal.WithLabelValues("miss").Inc()
		components, score = s.solver.Solve(ctx, tasks, behaviors, model, domain)
		s.results.Put(key, components, score)
	}

	// Cached structures never carry generated content, so this runs on hits
	// too. One goroutine per component; the first failure wins.
	g, gctx := errgroup.WithContext(ctx)
	for i := range components {
		g.Go(func() error {
			content, err := s.generator.GenerateContent(gctx, components[i].Type, analysis, req.UserPrompt)
			if err != nil {
				return fmt.Errorf("generate %s content: %w", components[i].Type, err)
			}
			components[i].Content = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fullPrompt := s.generator.Assemble(components)
	rationale, err := s.generator.GenerateRationale(ctx, components, analysis, score)
	if err != nil {
		return nil, fmt.Errorf("generate rationale: %w", err)
	}

	return &models.OptimizedPrompt{
		Components:         components,
		FullPrompt:         fullPrompt,
		Rationale:          rationale,
		EffectivenessScore: score,
	}, nil
}

// saveHistory writes the record and swallows failures: persistence never
// fails an optimize call.
func (s *OptimizerService) saveHistory(ctx context.Context, req models.OptimizationRequest, result *models.OptimizedPrompt) {
	if s.history == nil {
		return
	}
	record := models.NewOptimizationRecord(s.ids.GenerateOptimizationID(), req, result)
	if err := s.history.Save(ctx, record); err != nil {
		slog.Error("could not save optimization history",
			"id", record.ID,
			"error", err)
		return
	}
	slog.Debug("optimization saved", "id", record.ID, "score", result.EffectivenessScore)
}

func fallbackPrompt(req models.OptimizationRequest) *models.OptimizedPrompt {
	content := "please respond to: " + req.UserPrompt
	return &models.OptimizedPrompt{
		Components: []models.PromptComponent{
			{Type: models.ComponentInstruction, Content: content, Position: 1},
		},
		FullPrompt:         content,
		Rationale:          "Fallback due to optimization error",
		EffectivenessScore: fallbackEffectivenessScore,
	}
}
