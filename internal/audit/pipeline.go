package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/smartpass/internal/model"
)

// Step is one stage of an audit. Steps run in sequence and share the report.
type Step interface {
	// Do executes the step. Returning an error stops the pipeline unless it
	// was built WithContinueOnError.
	Do(ctx context.Context, report *model.AuditReport) error

	// Name returns the step's name for logging and the report.
	Name() string
}

// Skipper is implemented by steps that do not apply to every report.
type Skipper interface {
	Skip(report *model.AuditReport) bool
}

// Pipeline runs steps in order against one report.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
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

// WithContinueOnError keeps running later steps after one fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
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

// Execute runs every step against report.
//
// Cancellation is checked between steps; a cancelled pipeline marks the
// report TimedOut and returns ctx.Err(). The first step error is returned
// unless continueOnError is set; either way it is recorded in the report.
//
// Design decision: We check the context between steps instead of aborting a
// running step because:
//  1. Each attack step already watches ctx and returns a cancelled result
//  2. A step always finishes writing its part of the report, so a timed-out
//     report is partial but never half-written
//  3. Steps stay simple and need no rollback logic
func (p *Pipeline) Execute(ctx context.Context, report *model.AuditReport) error {
	defer func() {
		report.FinishedAt = time.Now()
	}()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("audit cancelled",
				"step", step.Name(),
				"digest", report.Digest,
				"reason", err,
			)
			report.TimedOut = true
			return err
		}

		if s, ok := step.(Skipper); ok && s.Skip(report) {
			p.logger.Debug("step skipped",
				"step", step.Name(),
				"digest", report.Digest,
			)
			continue
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"digest", report.Digest,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"digest", report.Digest,
				"error", err,
			)
			report.Error = err
			report.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	// an engine stopped by the context leaves no step error behind
	for _, res := range report.Results {
		if res.Cancelled() {
			report.TimedOut = true
		}
	}
	return nil
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
