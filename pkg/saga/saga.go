// Package saga sequences multi-system writes as ordered steps with
// best-effort handling instead of a distributed transaction. A step marked
// critical aborts the run on failure and triggers the compensations of the
// critical steps already completed; a best-effort step only leaves a note.
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Step is a single unit of work within a saga definition
type Step struct {
	Name        string
	Description string
	// Critical steps fail the whole run; non-critical steps downgrade their
	// failure to a note in the result
	Critical bool
	Execute  func(ctx context.Context) error
	// Compensate undoes a completed critical step when a later critical step
	// fails. Nil means skip (no compensation possible or wanted).
	Compensate func(ctx context.Context) error
}

// Definition is an ordered list of steps
type Definition struct {
	Name        string
	Description string
	Timeout     time.Duration
	steps       []*Step
}

// NewDefinition creates a new saga definition
func NewDefinition(name, description string) *Definition {
	return &Definition{
		Name:        name,
		Description: description,
	}
}

// WithTimeout sets an overall run timeout
func (d *Definition) WithTimeout(timeout time.Duration) *Definition {
	d.Timeout = timeout
	return d
}

// AddStep appends a step to the definition
func (d *Definition) AddStep(step *Step) *Definition {
	d.steps = append(d.steps, step)
	return d
}

// Steps returns the ordered step list
func (d *Definition) Steps() []*Step {
	return d.steps
}

// Result records the outcome of a saga run
type Result struct {
	RunID     string
	SagaName  string
	Completed []string
	// Notes holds best-effort step failures that did not abort the run
	Notes       []string
	FailedStep  string
	Compensated []string
	Err         error
}

// Failed reports whether a critical step aborted the run
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Run executes the steps in order. Execution is strictly sequential; step
// ordering is significant to the callers (e.g. delete the coworking event
// before the CMS item).
func (d *Definition) Run(ctx context.Context) *Result {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	result := &Result{
		RunID:    uuid.NewString(),
		SagaName: d.Name,
	}

	var completedCritical []*Step

	for _, step := range d.steps {
		if err := step.Execute(ctx); err != nil {
			if !step.Critical {
				result.Notes = append(result.Notes, fmt.Sprintf("%s: %v", step.Name, err))
				continue
			}

			result.FailedStep = step.Name
			result.Err = fmt.Errorf("step %s: %w", step.Name, err)

			// Compensate completed critical steps in reverse order. A failed
			// compensation is itself best-effort: it becomes a note, never a
			// second error.
			for i := len(completedCritical) - 1; i >= 0; i-- {
				prev := completedCritical[i]
				if prev.Compensate == nil {
					continue
				}
				if cerr := prev.Compensate(ctx); cerr != nil {
					result.Notes = append(result.Notes, fmt.Sprintf("compensate %s: %v", prev.Name, cerr))
					continue
				}
				result.Compensated = append(result.Compensated, prev.Name)
			}
			return result
		}

		result.Completed = append(result.Completed, step.Name)
		if step.Critical {
			completedCritical = append(completedCritical, step)
		}
	}

	return result
}
