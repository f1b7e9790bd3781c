package sagas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is a single step in a saga operating on shared state S
type Step[S any] struct {
	Name       string
	Execute    func(ctx context.Context, state *S) error
	Compensate func(ctx context.Context, state *S) error
	MaxRetries int
	RetryDelay time.Duration
}

// State represents the current state of a saga execution
type State string

const (
	StatePending      State = "PENDING"
	StateRunning      State = "RUNNING"
	StateCompleted    State = "COMPLETED"
	StateFailed       State = "FAILED"
	StateCompensating State = "COMPENSATING"
	StateCompensated  State = "COMPENSATED"
)

// Saga runs steps in order and undoes completed ones in reverse when a
// later step fails.
type Saga[S any] struct {
	id          string
	name        string
	steps       []Step[S]
	state       State
	currentStep int
	logger      *zap.Logger
}

// New creates a new saga instance
func New[S any](name string, logger *zap.Logger) *Saga[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saga[S]{
		id:     uuid.NewString(),
		name:   name,
		state:  StatePending,
		logger: logger,
	}
}

// Step adds a step without compensation
func (s *Saga[S]) Step(name string, execute func(context.Context, *S) error) *Saga[S] {
	return s.AddStep(Step[S]{Name: name, Execute: execute})
}

// CompensableStep adds a step with compensation logic
func (s *Saga[S]) CompensableStep(name string, execute, compensate func(context.Context, *S) error) *Saga[S] {
	return s.AddStep(Step[S]{Name: name, Execute: execute, Compensate: compensate})
}

// AddStep adds a fully specified step
func (s *Saga[S]) AddStep(step Step[S]) *Saga[S] {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs the saga against state. On failure the error of the
// failing step is returned after compensation.
func (s *Saga[S]) Execute(ctx context.Context, state *S) error {
	s.state = StateRunning
	s.logger.Debug("Starting saga execution",
		zap.String("saga_id", s.id),
		zap.String("saga_name", s.name),
		zap.Int("total_steps", len(s.steps)),
	)

	for i, step := range s.steps {
		s.currentStep = i
		if err := s.executeStepWithRetry(ctx, step, state); err != nil {
			s.state = StateFailed
			s.logger.Warn("Saga step failed",
				zap.String("saga_id", s.id),
				zap.String("step_name", step.Name),
				zap.Error(err),
			)
			s.compensate(ctx, i, state)
			return fmt.Errorf("saga %s failed at step %s: %w", s.name, step.Name, err)
		}
	}

	s.state = StateCompleted
	s.logger.Debug("Saga completed",
		zap.String("saga_id", s.id),
		zap.String("saga_name", s.name),
	)
	return nil
}

func (s *Saga[S]) executeStepWithRetry(ctx context.Context, step Step[S], state *S) error {
	attempts := step.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	delay := step.RetryDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if lastErr = step.Execute(ctx, state); lastErr == nil {
			return nil
		}
	}
	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("step %s failed after %d attempts: %w", step.Name, attempts, lastErr)
}

// compensate undoes the steps before failed, newest first. Compensation
// runs with a context detached from cancellation so a cancelled request
// still rolls back.
func (s *Saga[S]) compensate(ctx context.Context, failed int, state *S) {
	s.state = StateCompensating
	cctx := context.WithoutCancel(ctx)

	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(cctx, state); err != nil {
			s.logger.Error("Compensation failed",
				zap.String("saga_id", s.id),
				zap.String("step_name", step.Name),
				zap.Error(err),
			)
		}
	}
	s.state = StateCompensated
}

// GetState returns the current state of the saga
func (s *Saga[S]) GetState() State {
	return s.state
}

// GetID returns the saga ID
func (s *Saga[S]) GetID() string {
	return s.id
}

// GetCurrentStep returns the current step index
func (s *Saga[S]) GetCurrentStep() int {
	return s.currentStep
}
