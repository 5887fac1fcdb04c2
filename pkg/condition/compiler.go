package condition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ResultVar is the global a condition script assigns its verdict to.
const ResultVar = "result"

const (
	maxAllocs  = 10000
	runTimeout = time.Second
)

// Variables every condition script can read. Values are placeholders used at
// compile time and replaced on each run.
var declared = map[string]interface{}{
	"document_type": "",
	"project_id":    "",
	"metadata":      map[string]interface{}{},
}

var ErrEmptyCondition = errors.New("condition script is empty")

// Condition is a compiled tengo script deciding an automatic approval
type Condition struct {
	compiled *tengo.Compiled
}

// Compile checks the script once so broken conditions are rejected when the
// workflow is defined rather than when a document reaches the stage.
func Compile(source string) (*Condition, error) {
	if source == "" {
		return nil, ErrEmptyCondition
	}

	script := tengo.NewScript([]byte(source))
	script.SetImports(stdlib.GetModuleMap("text", "math", "times"))
	script.SetMaxAllocs(maxAllocs)
	for name, placeholder := range declared {
		if err := script.Add(name, placeholder); err != nil {
			return nil, fmt.Errorf("failed to declare %s: %w", name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile script: %w", err)
	}

	return &Condition{compiled: compiled}, nil
}

// Input is the document data exposed to a condition
type Input struct {
	DocumentType string
	ProjectID    string
	Metadata     map[string]string
}

// Evaluate runs the script against input and reports the value of `result`.
// A script that never sets result evaluates to false.
func (c *Condition) Evaluate(ctx context.Context, in Input) (bool, error) {
	run := c.compiled.Clone()

	meta := make(map[string]interface{}, len(in.Metadata))
	for k, v := range in.Metadata {
		meta[k] = v
	}

	vars := map[string]interface{}{
		"document_type": in.DocumentType,
		"project_id":    in.ProjectID,
		"metadata":      meta,
	}
	for name, value := range vars {
		if err := run.Set(name, value); err != nil {
			return false, fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if err := run.RunContext(ctx); err != nil {
		return false, fmt.Errorf("failed to run script: %w", err)
	}

	return run.Get(ResultVar).Bool(), nil
}
