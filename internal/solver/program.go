package solver

import (
	"bytes"
	"fmt"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	_ "github.com/google/mangle/packages"
	"github.com/google/mangle/parse"
)

// baseProgram is the declarative half of the solve. Per-request facts carry
// efficacy values already multiplied by their category weight and scaled to
// integer millipoints; the rules fold them into one gain per component and
// one gain per (component, position) pair. The Source column keeps equal
// values from different origins as distinct facts.
const baseProgram = `
Decl gain_term(Component, Source, Value) bound [/name, /string, /number].
Decl position_term(Component, Position, Value) bound [/name, /number, /number].
Decl requires(Dependent, Required) bound [/name, /name].

Decl component_gain(Component, Gain).
Decl placement_gain(Component, Position, Gain).

component_gain(C, G) :-
    gain_term(C, _, V) |>
    do fn:group_by(C),
    let G = fn:sum(V).

placement_gain(C, P, G) :-
    position_term(C, P, V) |>
    do fn:group_by(C, P),
    let G = fn:sum(V).
`

// program is the analyzed base program plus the predicate symbols the solver
// adds facts for and queries back.
type program struct {
	info *analysis.ProgramInfo

	gainTerm      ast.PredicateSym
	positionTerm  ast.PredicateSym
	requires      ast.PredicateSym
	componentGain ast.PredicateSym
	placementGain ast.PredicateSym
}

func compileProgram() (*program, error) {
	unit, err := parse.Unit(bytes.NewReader([]byte(baseProgram)))
	if err != nil {
		return nil, fmt.Errorf("parse solver program: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze solver program: %w", err)
	}

	p := &program{info: info}
	for sym := range info.Decls {
		switch sym.Symbol {
		case "gain_term":
			p.gainTerm = sym
		case "position_term":
			p.positionTerm = sym
		case "requires":
			p.requires = sym
		case "component_gain":
			p.componentGain = sym
		case "placement_gain":
			p.placementGain = sym
		}
	}
	for name, sym := range map[string]ast.PredicateSym{
		"gain_term":      p.gainTerm,
		"position_term":  p.positionTerm,
		"requires":       p.requires,
		"component_gain": p.componentGain,
		"placement_gain": p.placementGain,
	} {
		if sym.Symbol == "" {
			return nil, fmt.Errorf("solver program is missing predicate %s", name)
		}
	}
	return p, nil
}
