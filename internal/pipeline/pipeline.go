package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/nsmarchive/internal/model"
)

// ErrIncomplete reports a run that finished but skipped series or failed
// to download some sheet formats.
var ErrIncomplete = errors.New("archive incomplete")

// Step is one stage of an archive run.
type Step interface {
	// Do executes the step. Recoverable failures are recorded in run and
	// do not return an error.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps executing later steps after one fails.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to run the remaining steps
// after one fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence, checking for cancellation before
// each one. The first step error is recorded in run.Error and returned
// unless the pipeline continues on error.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	defer run.Finish()

	var firstErr error
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			run.Error = err
			return err
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)

			if firstErr == nil {
				firstErr = err
				run.Error = err
			}
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed", "step", step.Name())
		}

		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Check returns the outcome of a finished run as an error: run.Error if the
// run stopped early, ErrIncomplete if any series was skipped or any sheet
// format failed, and nil for a complete archive.
func Check(run *model.Run) error {
	if run.Error != nil {
		return run.Error
	}
	if !model.NewSummary(run).Complete() {
		return ErrIncomplete
	}
	return nil
}
