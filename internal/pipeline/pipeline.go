package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the session filled in by
// the steps before it.
//
// Design decision: We use an interface rather than function types because
// steps carry configuration (a crawler, edges to remove, an output path)
// and a Name for logging.
type Step interface {
	// Do executes the step. Non-critical problems are recorded in the
	// session and nil is returned.
	Do(ctx context.Context, session *model.Session) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError determines whether to keep executing steps after
	// one fails. If false, the pipeline stops on the first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution even
// when a step fails. The error is still recorded in the session.
//
// Design decision: The default is to stop, since a failed save or prune
// usually means the following steps would work on the wrong graph.
// Inspection runs that only report enable it.
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

// Execute runs all steps in sequence.
//
// Context cancellation is checked before each step; a cancelled pipeline
// marks the session interrupted and returns ctx.Err(). Steps that block
// watch ctx themselves.
func (p *Pipeline) Execute(ctx context.Context, session *model.Session) error {
	defer func() {
		session.FinishedAt = time.Now()
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			session.Interrupted = true
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"root", rootOf(session),
		)

		if err := step.Do(ctx, session); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			session.Error = err.Error()
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed", "step", step.Name())
		}

		session.Steps = append(session.Steps, step.Name())
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

func rootOf(session *model.Session) string {
	if session.Graph == nil {
		return ""
	}
	return session.Graph.RootNode()
}
