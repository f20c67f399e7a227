package wizard

import (
	"github.com/andy/invoicewiz/internal/domain"
	"go.uber.org/zap"
)

// CompletionHandler receives the finished draft once the last step has been
// submitted.
type CompletionHandler func(draft domain.Draft)

// Machine owns the state of one wizard session. It is not safe for
// concurrent use; hosts dispatch actions from a single goroutine.
type Machine struct {
	state      State
	onComplete CompletionHandler
	logger     *zap.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithCompletionHandler sets the handler called on reaching StepDone.
func WithCompletionHandler(h CompletionHandler) Option {
	return func(m *Machine) { m.onComplete = h }
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// NewMachine starts a session at StepIssuer with draft.
func NewMachine(draft domain.Draft, opts ...Option) *Machine {
	m := &Machine{
		state:  New(draft),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Step returns the current step.
func (m *Machine) Step() Step {
	return m.state.Step
}

// Draft returns a copy of the accumulated draft.
func (m *Machine) Draft() domain.Draft {
	return m.state.Draft.Clone()
}

// Dispatch reduces a into the current state and returns the result.
func (m *Machine) Dispatch(a Action) State {
	prev := m.state.Step
	m.state = Reduce(m.state, a)

	if a == nil {
		m.logger.Debug("ignored nil wizard action", zap.Int("step", int(prev)))
		return m.state
	}

	m.logger.Debug("wizard transition",
		zap.String("action", a.Type()),
		zap.Int("from", int(prev)),
		zap.Int("to", int(m.state.Step)),
	)

	if prev != StepDone && m.state.Complete() && m.onComplete != nil {
		m.onComplete(m.state.Draft.Clone())
	}
	return m.state
}
