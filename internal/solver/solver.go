// Package solver chooses a prompt structure: which components to use and in
// what order. A small Datalog program folds the weighted efficacy terms into
// per-component and per-placement gains, then an exhaustive pass over all
// assignments of the five components onto positions 1..5 picks the best
// total. Solve never fails; anything going wrong degrades to a fixed
// fallback structure.
package solver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/mangle/ast"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"

	"github.com/inferprompt/inferprompt/internal/adapters/metrics"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// fallbackScore is reported when the declarative solve cannot run.
const fallbackScore = 100.0

// derivedCap bounds the per-generation gains cache. Distinct request tuples
// are few in practice (task/behavior combinations repeat); the cap only
// guards against unbounded model/domain cardinality.
const derivedCap = 128

// gains is everything a solve needs once the Datalog pass is done.
type gains struct {
	component map[models.ComponentType]int64
	placement map[models.PositionKey]int64
	requires  map[models.ComponentType]models.ComponentType
}

// Solver implements ports.StructureSolver on top of the mangle engine.
type Solver struct {
	efficacy ports.EfficacySource
	prog     *program

	// Gains derived for one request tuple are valid until the efficacy
	// store's generation moves; the cache holds a single generation at a
	// time. Separate from the result cache in internal/cache.
	mu      sync.Mutex
	gen     uint64
	derived map[string]*gains
}

var _ ports.StructureSolver = (*Solver)(nil)

// New compiles the base program once. The only error is a broken embedded
// program.
func New(efficacy ports.EfficacySource) (*Solver, error) {
	prog, err := compileProgram()
	if err != nil {
		return nil, err
	}
	return &Solver{
		efficacy: efficacy,
		prog:     prog,
		derived:  make(map[string]*gains),
	}, nil
}

// Solve assigns components to positions for the given targets. The returned
// components are ordered by position and carry placeholder content; callers
// fill in real content afterwards.
func (s *Solver) Solve(ctx context.Context, tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) ([]models.PromptComponent, float64) {
	start := time.Now()
	defer func() {
		metrics.SolverDuration.Observe(time.Since(start).Seconds())
	}()

	snap := s.efficacy.Snapshot()
	g, err := s.derivedGains(ctx, snap, tasks, behaviors, model, domain)
	if err != nil {
		slog.Warn("structure solve failed, using fallback structure",
			"model", model,
			"error", err)
		metrics.SolverFallbacksTotal.Inc()
		return FallbackStructure()
	}

	assignment, total, ok := bestAssignment(g)
	if !ok {
		slog.Warn("no assignment satisfies component dependencies, using fallback structure")
		metrics.SolverFallbacksTotal.Inc()
		return FallbackStructure()
	}

	components := make([]models.PromptComponent, 0, len(assignment))
	for i, c := range models.AllComponentTypes {
		components = append(components, models.PromptComponent{
			Type:     c,
			Content:  PlaceholderContent(c),
			Position: assignment[i],
		})
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Position < components[j].Position
	})
	return components, float64(total) / 1000.0
}

// derivedGains returns the cached gains for the request tuple, running the
// Datalog evaluation on a miss. The cache is dropped whole whenever the
// efficacy generation moves.
func (s *Solver) derivedGains(ctx context.Context, snap models.EfficacySnapshot, tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) (*gains, error) {
	key := tupleKey(tasks, behaviors, model, domain)

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Generation != s.gen || len(s.derived) >= derivedCap {
		s.derived = make(map[string]*gains)
		s.gen = snap.Generation
	}
	if g, ok := s.derived[key]; ok {
		return g, nil
	}

	g, err := s.evalGains(ctx, snap, tasks, behaviors, model, domain)
	if err != nil {
		return nil, err
	}
	s.derived[key] = g
	return g, nil
}

// evalGains runs one Datalog evaluation over a fresh fact store and reads
// back the derived gain relations.
func (s *Solver) evalGains(ctx context.Context, snap models.EfficacySnapshot, tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) (*gains, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	atoms, err := buildFacts(s.prog, snap, tasks, behaviors, model, domain)
	if err != nil {
		return nil, err
	}

	store := factstore.NewSimpleInMemoryStore()
	for _, atom := range atoms {
		store.Add(atom)
	}
	if _, err := mengine.EvalProgramWithStats(s.prog.info, store); err != nil {
		return nil, fmt.Errorf("evaluate solver program: %w", err)
	}

	g := &gains{
		component: make(map[models.ComponentType]int64),
		placement: make(map[models.PositionKey]int64),
		requires:  make(map[models.ComponentType]models.ComponentType),
	}

	if err := store.GetFacts(ast.NewQuery(s.prog.componentGain), func(a ast.Atom) error {
		c, err := decodeComponent(a.Args[0])
		if err != nil {
			return err
		}
		v, err := decodeNumber(a.Args[1])
		if err != nil {
			return err
		}
		g.component[c] = v
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read component gains: %w", err)
	}

	if err := store.GetFacts(ast.NewQuery(s.prog.placementGain), func(a ast.Atom) error {
		c, err := decodeComponent(a.Args[0])
		if err != nil {
			return err
		}
		p, err := decodeNumber(a.Args[1])
		if err != nil {
			return err
		}
		v, err := decodeNumber(a.Args[2])
		if err != nil {
			return err
		}
		g.placement[models.PositionKey{Component: c, Position: int(p)}] = v
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read placement gains: %w", err)
	}

	if err := store.GetFacts(ast.NewQuery(s.prog.requires), func(a ast.Atom) error {
		dep, err := decodeComponent(a.Args[0])
		if err != nil {
			return err
		}
		req, err := decodeComponent(a.Args[1])
		if err != nil {
			return err
		}
		g.requires[dep] = req
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read dependency facts: %w", err)
	}

	return g, nil
}

// bestAssignment enumerates every assignment of components onto positions in
// lexicographic order of the position vector (canonical component order) and
// keeps the first strictly best total. Assignments violating a dependency
// are skipped; with every component placed the dependencies hold vacuously,
// but the check stays in case the component set ever becomes partial.
func bestAssignment(g *gains) ([]int, int64, bool) {
	n := len(models.AllComponentTypes)

	var base int64
	for _, c := range models.AllComponentTypes {
		base += g.component[c]
	}

	current := make([]int, n)
	var best []int
	var bestTotal int64
	found := false

	var used [6]bool
	var walk func(i int, placed int64)
	walk = func(i int, placed int64) {
		if i == n {
			if !dependenciesSatisfied(g, current) {
				return
			}
			total := base + placed
			if !found || total > bestTotal {
				best = append([]int(nil), current...)
				bestTotal = total
				found = true
			}
			return
		}
		c := models.AllComponentTypes[i]
		for p := 1; p <= n; p++ {
			if used[p] {
				continue
			}
			used[p] = true
			current[i] = p
			walk(i+1, placed+g.placement[models.PositionKey{Component: c, Position: p}])
			used[p] = false
		}
	}
	walk(0, 0)

	return best, bestTotal, found
}

func dependenciesSatisfied(g *gains, assignment []int) bool {
	placed := make(map[models.ComponentType]bool, len(assignment))
	for i, p := range assignment {
		if p > 0 {
			placed[models.AllComponentTypes[i]] = true
		}
	}
	for dep, req := range g.requires {
		if placed[dep] && !placed[req] {
			return false
		}
	}
	return true
}

// FallbackStructure is the fixed assignment used when solving is impossible:
// every component in canonical order, score pinned high so downstream
// consumers treat it as usable.
func FallbackStructure() ([]models.PromptComponent, float64) {
	components := make([]models.PromptComponent, 0, len(models.AllComponentTypes))
	for i, c := range models.AllComponentTypes {
		components = append(components, models.PromptComponent{
			Type:     c,
			Content:  PlaceholderContent(c),
			Position: i + 1,
		})
	}
	return components, fallbackScore
}

// PlaceholderContent marks a component whose real content has not been
// generated yet.
func PlaceholderContent(c models.ComponentType) string {
	return "[" + strings.ToUpper(string(c)) + " CONTENT]"
}

// tupleKey normalizes a request tuple for the gains cache: sorted unique
// tasks and behaviors, the model name, and the domain or "none".
func tupleKey(tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) string {
	ts := make([]string, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if !seen[string(t)] {
			seen[string(t)] = true
			ts = append(ts, string(t))
		}
	}
	sort.Strings(ts)

	bs := make([]string, 0, len(behaviors))
	seenB := make(map[string]bool, len(behaviors))
	for _, b := range behaviors {
		if !seenB[string(b)] {
			seenB[string(b)] = true
			bs = append(bs, string(b))
		}
	}
	sort.Strings(bs)

	d := "none"
	if domain != nil {
		d = *domain
	}
	return strings.Join(ts, ",") + "|" + strings.Join(bs, ",") + "|" + model + "|" + d
}

func decodeComponent(term ast.BaseTerm) (models.ComponentType, error) {
	c, ok := term.(ast.Constant)
	if !ok || c.Type != ast.NameType {
		return "", fmt.Errorf("expected component name constant, got %v", term)
	}
	return models.ParseComponentType(strings.TrimPrefix(c.Symbol, "/"))
}

func decodeNumber(term ast.BaseTerm) (int64, error) {
	c, ok := term.(ast.Constant)
	if !ok || c.Type != ast.NumberType {
		return 0, fmt.Errorf("expected number constant, got %v", term)
	}
	return c.NumValue, nil
}
