// Package orchestrator executes an ordered, named sequence of formula steps
// against a shared environment (§4.7), threading each step's lex → parse →
// simplify → evaluate pipeline and binding its result for subsequent steps
// to reference. Grounded on engine.go's top-level driving loop in the
// teacher, which plays the analogous role of running a sequence of
// named game operations against shared state and recording what happened
// to each one.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashgrove/formulang/internal/ast"
	"github.com/ashgrove/formulang/internal/eval"
	"github.com/ashgrove/formulang/internal/ferrors"
	"github.com/ashgrove/formulang/internal/funclib"
	"github.com/ashgrove/formulang/internal/grammar"
	"github.com/ashgrove/formulang/internal/lex"
	"github.com/ashgrove/formulang/internal/lrtable"
	"github.com/ashgrove/formulang/internal/parse"
)

// Mode selects how Execute behaves after a step fails (§4.7).
type Mode int

const (
	// ModeContinue runs every remaining step even after a failure; later
	// steps referencing a failed step's binding see UndefinedVariable.
	ModeContinue Mode = iota
	// ModeFailFast stops at the first failed step; every step after it is
	// recorded as Skipped, with no evaluation attempted.
	ModeFailFast
)

// FormulaStep is one named, ordered expression in a FormulaSet.
type FormulaStep struct {
	Order          int
	Name           string
	Expression     string
	ResultVariable *string
}

// FormulaSet is an ordered batch of steps sharing a starting set of named
// constants, the unit the orchestrator executes (§6.3 Register/Execute).
type FormulaSet struct {
	ID        string
	Steps     []FormulaStep
	Constants map[string]float64
}

// StepRecord is what executing one FormulaStep produced (§6.3).
type StepRecord struct {
	Order           int
	Name            string
	Expression      string
	Result          *eval.Value
	Errors          []*ferrors.Error
	Skipped         bool
	ExecutionTimeMs int64
}

// Orchestrator wires together a shared parsing table and function registry,
// computed once, for repeated Execute calls (§5 "Shared state").
type Orchestrator struct {
	table  *lrtable.Table
	funcs  funclib.Registry
	limits eval.Limits
}

// New builds an Orchestrator. The SLR(1) table and function registry are
// built once here and reused, read-only, across every subsequent Execute.
func New(limits eval.Limits) *Orchestrator {
	return &Orchestrator{
		table:  lrtable.Build(grammar.New()),
		funcs:  funclib.New(),
		limits: limits,
	}
}

// RunID is a per-Execute identifier, stamped onto the run for tracing and
// correlating StepRecords with an external log (no spec-mandated shape;
// a random UUID is the simplest thing that is both unique and opaque).
type RunID = uuid.UUID

// Execute runs fs's steps, in order, against an environment seeded from
// fs.Constants and the caller-supplied variables. Steps bind their result
// under "step<order>" and, if ResultVariable is set, under that name too.
func (o *Orchestrator) Execute(ctx context.Context, fs FormulaSet, variables map[string]float64) (RunID, []StepRecord, error) {
	runID, err := uuid.NewRandom()
	if err != nil {
		return RunID{}, nil, ferrors.Internal("orchestrator", err)
	}

	env := eval.NewEnvironment()
	for name, v := range fs.Constants {
		if err := env.Set(name, eval.Number(v)); err != nil {
			return runID, nil, err
		}
	}
	for name, v := range variables {
		if err := env.Set(name, eval.Number(v)); err != nil {
			return runID, nil, err
		}
	}

	records := make([]StepRecord, 0, len(fs.Steps))
	failed := false

	for _, step := range fs.Steps {
		if failed {
			records = append(records, StepRecord{
				Order: step.Order, Name: step.Name, Expression: step.Expression, Skipped: true,
			})
			continue
		}

		record, result, stepErr := o.runStep(ctx, env, step)
		records = append(records, record)

		if stepErr != nil {
			if mode(ctx) == ModeFailFast {
				failed = true
			}
			continue
		}

		stepName := fmt.Sprintf("step%d", step.Order)
		stored := &records[len(records)-1]
		if err := env.Set(stepName, *result); err != nil {
			stored.Errors = append(stored.Errors, asFerror(err))
			continue
		}
		if step.ResultVariable != nil {
			if err := env.Set(*step.ResultVariable, *result); err != nil {
				stored.Errors = append(stored.Errors, asFerror(err))
			}
		}
	}

	return runID, records, nil
}

type modeKey struct{}

// WithMode returns a context carrying the execution mode Execute should use.
// Absent a WithMode call, Execute behaves as ModeContinue.
func WithMode(ctx context.Context, m Mode) context.Context {
	return context.WithValue(ctx, modeKey{}, m)
}

func mode(ctx context.Context) Mode {
	if m, ok := ctx.Value(modeKey{}).(Mode); ok {
		return m
	}
	return ModeContinue
}

func (o *Orchestrator) runStep(ctx context.Context, env *eval.Environment, step FormulaStep) (StepRecord, *eval.Value, error) {
	start := time.Now()
	record := StepRecord{Order: step.Order, Name: step.Name, Expression: step.Expression}

	node, err := o.parse(step.Expression)
	if err != nil {
		record.Errors = append(record.Errors, asFerror(err))
		record.ExecutionTimeMs = time.Since(start).Milliseconds()
		return record, nil, err
	}
	node = ast.Simplify(node)

	stepCtx := ctx
	if o.limits.MaxTimeMs > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, time.Duration(o.limits.MaxTimeMs)*time.Millisecond)
		defer cancel()
	}

	e := eval.New(env, o.funcs, o.limits)
	v, err := e.Evaluate(stepCtx, node)
	record.ExecutionTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		record.Errors = append(record.Errors, asFerror(err))
		return record, nil, err
	}

	record.Result = &v
	return record, &v, nil
}

func (o *Orchestrator) parse(expression string) (*ast.Node, error) {
	tokens, err := lex.Lex(expression)
	if err != nil {
		return nil, err
	}
	p := parse.New(o.table, parse.DefaultOptions())
	return p.Parse(tokens)
}

func asFerror(err error) *ferrors.Error {
	if fe, ok := err.(*ferrors.Error); ok {
		return fe
	}
	return ferrors.Internal("orchestrator", err)
}
