// Package scripting compiles user supplied JavaScript expressions into
// decoding transfer functions, so that deployments can register custom
// camera curves without rebuilding the server. Expressions see the encoded
// signal value as x and the Math object, nothing else.
package scripting

import (
	"fmt"
	"math"
	"sync"

	"github.com/dop251/goja"

	"github.com/colour-science/colour-analysis/transfer"
)

// Engine wraps a JavaScript runtime. A goja runtime is not safe for
// concurrent use, calls into compiled functions are serialised.
type Engine struct {
	mu sync.Mutex
	vm *goja.Runtime
}

// NewEngine returns a fresh scripting engine.
func NewEngine() *Engine {
	return &Engine{vm: goja.New()}
}

// CompileTransfer compiles an expression of x into a transfer function.
// The expression is probed once at compile time so that syntax and
// reference errors surface immediately; runtime errors on later samples
// decode to NaN and are subject to the callers' sanitisation policy.
func (e *Engine) CompileTransfer(expression string) (transfer.Function, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	val, err := e.vm.RunString("(function(x) { return (" + expression + "); })")
	if err != nil {
		return nil, fmt.Errorf("scripting: compile %q: %w", expression, err)
	}
	fn, ok := goja.AssertFunction(val)
	if !ok {
		return nil, fmt.Errorf("scripting: %q did not compile to a function", expression)
	}

	call := func(x float64) (float64, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		res, err := fn(goja.Undefined(), e.vm.ToValue(x))
		if err != nil {
			return 0, err
		}
		return res.ToFloat(), nil
	}

	if _, err := call(0.5); err != nil {
		return nil, fmt.Errorf("scripting: evaluate %q: %w", expression, err)
	}

	return func(x float64) float64 {
		v, err := call(x)
		if err != nil {
			return math.NaN()
		}
		return v
	}, nil
}

// RegisterTransfers compiles and registers a set of named expressions into
// the transfer registry. Registration stops at the first failure.
func (e *Engine) RegisterTransfers(definitions map[string]string) error {
	for name, expression := range definitions {
		fn, err := e.CompileTransfer(expression)
		if err != nil {
			return fmt.Errorf("scripting: %q: %w", name, err)
		}
		if err := transfer.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}
