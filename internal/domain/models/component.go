package models

import "fmt"

// ComponentType identifies a structural building block of a prompt.
type ComponentType string

const (
	ComponentInstruction  ComponentType = "instruction"
	ComponentContext      ComponentType = "context"
	ComponentExample      ComponentType = "example"
	ComponentConstraint   ComponentType = "constraint"
	ComponentOutputFormat ComponentType = "output_format"
)

// AllComponentTypes lists every component type in canonical order. The
// solver and its tie-break rules depend on this ordering.
var AllComponentTypes = []ComponentType{
	ComponentInstruction,
	ComponentContext,
	ComponentExample,
	ComponentConstraint,
	ComponentOutputFormat,
}

func (c ComponentType) Valid() bool {
	switch c {
	case ComponentInstruction, ComponentContext, ComponentExample,
		ComponentConstraint, ComponentOutputFormat:
		return true
	}
	return false
}

func (c ComponentType) String() string { return string(c) }

// ParseComponentType checks a raw string against the closed component set.
func ParseComponentType(s string) (ComponentType, error) {
	c := ComponentType(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown component type %q", s)
	}
	return c, nil
}

// TaskType identifies a reasoning task a prompt can target.
type TaskType string

const (
	TaskDeduction      TaskType = "deduction"
	TaskInduction      TaskType = "induction"
	TaskAbduction      TaskType = "abduction"
	TaskComparison     TaskType = "comparison"
	TaskCounterfactual TaskType = "counterfactual"
)

var AllTaskTypes = []TaskType{
	TaskDeduction,
	TaskInduction,
	TaskAbduction,
	TaskComparison,
	TaskCounterfactual,
}

func (t TaskType) Valid() bool {
	switch t {
	case TaskDeduction, TaskInduction, TaskAbduction, TaskComparison, TaskCounterfactual:
		return true
	}
	return false
}

func (t TaskType) String() string { return string(t) }

func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown task type %q", s)
	}
	return t, nil
}

// BehaviorType identifies an output behavior a prompt can encourage.
type BehaviorType string

const (
	BehaviorPrecision     BehaviorType = "precision"
	BehaviorCreativity    BehaviorType = "creativity"
	BehaviorStepByStep    BehaviorType = "step_by_step"
	BehaviorConciseness   BehaviorType = "conciseness"
	BehaviorErrorChecking BehaviorType = "error_checking"
)

var AllBehaviorTypes = []BehaviorType{
	BehaviorPrecision,
	BehaviorCreativity,
	BehaviorStepByStep,
	BehaviorConciseness,
	BehaviorErrorChecking,
}

func (b BehaviorType) Valid() bool {
	switch b {
	case BehaviorPrecision, BehaviorCreativity, BehaviorStepByStep,
		BehaviorConciseness, BehaviorErrorChecking:
		return true
	}
	return false
}

func (b BehaviorType) String() string { return string(b) }

func ParseBehaviorType(s string) (BehaviorType, error) {
	b := BehaviorType(s)
	if !b.Valid() {
		return "", fmt.Errorf("unknown behavior type %q", s)
	}
	return b, nil
}

// TargetKind distinguishes the two axes efficacy can be keyed on.
type TargetKind string

const (
	TargetTask     TargetKind = "task"
	TargetBehavior TargetKind = "behavior"
)

// Target is the second half of an efficacy key: either a reasoning task or
// an output behavior. Targets are comparable and safe as map keys. The zero
// value is invalid.
type Target struct {
	Kind TargetKind `json:"kind"`
	Name string     `json:"name"`
}

func TaskTarget(t TaskType) Target {
	return Target{Kind: TargetTask, Name: string(t)}
}

func BehaviorTarget(b BehaviorType) Target {
	return Target{Kind: TargetBehavior, Name: string(b)}
}

// Task returns the task this target names, if it is a task target.
func (t Target) Task() (TaskType, bool) {
	if t.Kind != TargetTask {
		return "", false
	}
	return TaskType(t.Name), true
}

// Behavior returns the behavior this target names, if it is a behavior target.
func (t Target) Behavior() (BehaviorType, bool) {
	if t.Kind != TargetBehavior {
		return "", false
	}
	return BehaviorType(t.Name), true
}

func (t Target) Valid() bool {
	switch t.Kind {
	case TargetTask:
		return TaskType(t.Name).Valid()
	case TargetBehavior:
		return BehaviorType(t.Name).Valid()
	}
	return false
}

func (t Target) String() string {
	return string(t.Kind) + ":" + t.Name
}

// NewTarget builds a validated target of the given kind.
func NewTarget(kind TargetKind, name string) (Target, error) {
	t := Target{Kind: kind, Name: name}
	if !t.Valid() {
		return Target{}, fmt.Errorf("unknown %s target %q", kind, name)
	}
	return t, nil
}
