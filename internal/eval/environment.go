package eval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ashgrove/formulang/internal/ferrors"
)

// variableNamePattern is the allowed variable-name shape (§4.6).
var variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedNames may never be bound as variables, regardless of case.
var reservedNames = map[string]bool{
	"null": true, "true": true, "false": true, "eval": true,
	"nan": true, "inf": true, "infinity": true,
}

// Limits bounds one evaluation (§4.6 "Security policy", §5 "Cancellation &
// timeouts"). The zero value is not useful; use DefaultLimits.
type Limits struct {
	MaxDepth     int
	MaxNodes     int
	MaxVariables int
	MaxTimeMs    int
}

// DefaultLimits returns the defaults named in §4.6.
func DefaultLimits() Limits {
	return Limits{MaxDepth: 100, MaxNodes: 10000, MaxVariables: 1000, MaxTimeMs: 5000}
}

// Environment holds the variable bindings one evaluation sees. Steps in a
// formula set extend a shared Environment as they bind results (§4.7).
type Environment struct {
	Variables map[string]Value
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{Variables: map[string]Value{}}
}

// Set binds name to v, rejecting names that fail the allowed pattern or
// fall in the reserved set.
func (e *Environment) Set(name string, v Value) error {
	if err := ValidateVariableName(name); err != nil {
		return err
	}
	e.Variables[name] = v
	return nil
}

// ValidateVariableName applies the naming rule in isolation, used both by
// Environment.Set and by the evaluator's preflight security check.
func ValidateVariableName(name string) error {
	if !variableNamePattern.MatchString(name) {
		return ferrors.EvalSecurityViolation(fmt.Sprintf("variable name %q does not match [A-Za-z_][A-Za-z0-9_]*", name))
	}
	if reservedNames[strings.ToLower(name)] {
		return ferrors.EvalSecurityViolation(fmt.Sprintf("variable name %q is reserved", name))
	}
	return nil
}

// Clone returns an independent copy of e, so a step can extend the
// environment without aliasing the caller's map.
func (e *Environment) Clone() *Environment {
	out := NewEnvironment()
	for k, v := range e.Variables {
		out.Variables[k] = v
	}
	return out
}
