// Package engine provides the Lisp evaluation engine for csgkit.
// It wraps zygomys in a sandboxed environment and produces a DesignGraph
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/csgkit/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code or a validation
// failure in the resulting graph.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	NodeID  graph.NodeID
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Graph    *graph.DesignGraph
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for csgkit evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	// Timeout bounds a single evaluation. Zero means EvalTimeout.
	Timeout time.Duration
	// Segments overrides the graph's default facet count when positive.
	Segments int
	// Color is the graph's fallback part color, "#rrggbb".
	Color string

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{Timeout: EvalTimeout}
}

// Evaluate takes Lisp source code and produces a new DesignGraph.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval/validation failure: returns nil graph + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	res, err := e.EvaluateResult(source)
	if err != nil {
		return nil, nil, err
	}
	return res.Graph, res.Errors, nil
}

// EvaluateResult is Evaluate that also returns the warnings.
func (e *Engine) EvaluateResult(source string) (*EvalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, err := e.evaluate(source)
		ch <- evalResult{res: res, err: err}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	return waitWithTimeout(ch, gen, &e.mu, &e.generation, timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*EvalResult, error) {
	g := graph.New()
	if e.Segments > 0 {
		g.Defaults.Segments = e.Segments
	}
	g.Defaults.Color = e.Color

	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return &EvalResult{Graph: g}, nil
	}

	// Create a fresh sandboxed zygomys environment.
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, newBuilder(g))

	// Load and compile the source string into bytecode.
	if err := env.LoadString(preprocessSource(source)); err != nil {
		return &EvalResult{Errors: parseZygomysError(err)}, nil
	}

	// Execute the compiled bytecode.
	last, err := env.Run()
	if err != nil {
		return &EvalResult{Errors: parseZygomysError(err)}, nil
	}

	// A script that names nothing renders its final expression.
	if ref, ok := last.(*sexpNodeRef); ok && len(g.Roots) == 0 && len(g.NameIndex) == 0 {
		g.AddRoot(ref.id)
	}

	return validateGraph(g), nil
}

// validateGraph runs every validation tier. Blocking findings discard the
// graph.
func validateGraph(g *graph.DesignGraph) *EvalResult {
	vr := graph.ValidateAll(g)
	res := &EvalResult{Graph: g}
	for _, w := range vr.Warnings {
		msg := w.Message
		if !w.NodeID.IsZero() {
			msg = fmt.Sprintf("node %s: %s", nodeLabel(g, w.NodeID), msg)
		}
		res.Warnings = append(res.Warnings, EvalWarning{Message: msg, NodeID: w.NodeID})
	}
	if len(vr.Errors) > 0 {
		res.Graph = nil
		for _, ve := range vr.Errors {
			res.Errors = append(res.Errors, EvalError{Message: ve.Error()})
		}
	}
	return res
}

func nodeLabel(g *graph.DesignGraph, id graph.NodeID) string {
	if n := g.Get(id); n != nil && n.Name != "" {
		return strconv.Quote(n.Name)
	}
	return id.Short()
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// Try to extract line numbers from the error message.
	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
