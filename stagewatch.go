package stagewatch

import (
	"errors"

	"github.com/AnatoleLucet/stagewatch/internal"
	"github.com/stretchr/testify/assert"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type (
	Policy = internal.Policy
	State  = internal.State
	Report = internal.Report
	Entry  = internal.Entry

	// Equaler lets an observed value decide whether it changed.
	Equaler = internal.Equaler
)

const (
	PolicyAtLeastOne = internal.PolicyAtLeastOne
	PolicyAll        = internal.PolicyAll

	Pending = internal.StatePending
	Checked = internal.StateChecked
)

var (
	ErrNoTokens       = internal.ErrNoTokens
	ErrAlreadyChecked = internal.ErrAlreadyChecked
	ErrForeignToken   = internal.ErrForeignToken
	ErrNotLive        = internal.ErrNotLive
	ErrNilToken       = errors.New("stagewatch: nil token")
)

type Registry struct {
	registry *internal.Registry
}

// NewRegistry creates a registry scoped to the caller, usually one per test.
func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{internal.NewRegistry(o.policy, o.logger)}
}

// DefaultRegistry returns the registry bound to the calling goroutine.
// Options, when given, reconfigure it for every later caller on that goroutine.
func DefaultRegistry(opts ...Option) *Registry {
	registry := internal.GetRuntime().Registry()

	if len(opts) > 0 {
		o := buildOptions(opts)
		registry.SetPolicy(o.policy)
		registry.SetLogger(o.logger)
	}

	return &Registry{registry}
}

// Policy used to decide whether a checked batch notified.
func (r *Registry) Policy() Policy { return r.registry.Policy() }

// PendingCount returns how many notifications were registered but never checked.
func (r *Registry) PendingCount() int { return r.registry.PendingCount() }

// Reset drops every pending notification.
func (r *Registry) Reset() { r.registry.Reset() }

// Token is a registered notification of any value type.
type Token interface {
	observation() *internal.Observation
}

type Notification[T any] struct {
	obs *internal.Observation
}

// RegisterNotification evaluates query right away and keeps the result as the baseline
// that a later check compares against.
func RegisterNotification[T any](r *Registry, query func() T) (*Notification[T], T) {
	obs := r.registry.Register(func() any { return query() })
	return &Notification[T]{obs}, as[T](obs.Baseline())
}

func (n *Notification[T]) observation() *internal.Observation {
	if n == nil {
		return nil
	}
	return n.obs
}

// As labels the notification in failure reports.
func (n *Notification[T]) As(label string) *Notification[T] {
	n.obs.SetLabel(label)
	return n
}

func (n *Notification[T]) ID() uint64   { return n.obs.ID() }
func (n *Notification[T]) Label() string { return n.obs.Label() }
func (n *Notification[T]) State() State  { return n.obs.State() }

// Baseline is the value captured at registration.
func (n *Notification[T]) Baseline() T { return as[T](n.obs.Baseline()) }

// Current re-reads the value without checking the notification.
func (n *Notification[T]) Current() T { return as[T](n.obs.Evaluate()) }

// Tokens is a convenience to build a batch out of notifications of different types.
func Tokens(tokens ...Token) []Token { return tokens }

// Expect runs action, then compares every token against its baseline.
// An action error is returned as is and leaves every token pending.
func Expect[R any](tokens []Token, action func() (R, error)) (R, *Report, error) {
	var result R

	registry, batch, err := collect(tokens)
	if err != nil {
		return result, nil, err
	}

	report, err := registry.Expect(batch, func() error {
		var err error
		result, err = action()
		return err
	})

	return result, report, err
}

// resultError treats a non-nil error returned by action as a failed mutation.
func resultError[R any](action func() R) func() (R, error) {
	return func() (R, error) {
		result := action()
		if err, ok := any(result).(error); ok && err != nil {
			return result, err
		}
		return result, nil
	}
}

// ExpectingSomeNotifications runs action and fails t unless the registry's policy
// is satisfied by the tokens' new values. It returns whatever action returned.
// An action returning a non-nil error fails t and leaves every token pending.
func ExpectingSomeNotifications[R any](t assert.TestingT, tokens []Token, action func() R) R {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	result, report, err := Expect(tokens, resultError(action))
	if err != nil {
		assert.Fail(t, "notifications could not be checked", err.Error())
		return result
	}

	if !report.Satisfied() {
		assert.Fail(t, "missing notifications", report.String())
	}

	return result
}

// ExpectingNoNotifications runs action and fails t if any token's value changed.
// An action returning a non-nil error fails t and leaves every token pending.
func ExpectingNoNotifications[R any](t assert.TestingT, tokens []Token, action func() R) R {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	result, report, err := Expect(tokens, resultError(action))
	if err != nil {
		assert.Fail(t, "notifications could not be checked", err.Error())
		return result
	}

	if report.ChangedCount() > 0 {
		assert.Fail(t, "unexpected notifications", report.String())
	}

	return result
}

func collect(tokens []Token) (*internal.Registry, []*internal.Observation, error) {
	if len(tokens) == 0 {
		return nil, nil, ErrNoTokens
	}

	batch := make([]*internal.Observation, 0, len(tokens))
	for _, token := range tokens {
		if token == nil {
			return nil, nil, ErrNilToken
		}

		obs := token.observation()
		if obs == nil {
			return nil, nil, ErrNilToken
		}
		batch = append(batch, obs)
	}

	return batch[0].Registry(), batch, nil
}
