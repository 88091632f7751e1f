// Package breaker adapts sony/gobreaker/v2 into the orchestrator's
// per-provider CircuitBreaker port. Each provider gets its own
// closed/open/half-open state machine so a failing provider never starves
// calls to a healthy one.
package breaker

import (
	"context"
	"sync"
	"time"

	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"

	"github.com/sony/gobreaker/v2"
)

// Defaults mirror the values every provider breaker is configured with
// unless explicitly overridden: a 10s per-call timeout, 50% error-rate
// trip threshold, 30s reset timeout, and a minimum volume of 5 requests
// before the error rate is evaluated.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultErrorThreshold  = 0.5
	DefaultResetTimeout    = 30 * time.Second
	DefaultVolumeThreshold = 5
)

// Config configures one provider's breaker.
type Config struct {
	Timeout         time.Duration
	ErrorThreshold  float64
	ResetTimeout    time.Duration
	VolumeThreshold uint32
	// Fallback, if set, is invoked in place of fn whenever the breaker
	// rejects a call (open) or the call itself fails. Its result is
	// returned to the caller without marking the breaker closed.
	Fallback func(ctx context.Context, callErr error) (any, error)
}

// Breaker wraps a single named gobreaker.CircuitBreaker[any] and
// implements ports.CircuitBreaker. A call whose latency exceeds the
// configured timeout counts as a failure and is reported to callers as a
// timeout-classified error.
type Breaker struct {
	name     string
	timeout  time.Duration
	cb       *gobreaker.CircuitBreaker[any]
	fallback func(ctx context.Context, callErr error) (any, error)
}

// New builds a breaker named providerName with cfg's thresholds. Zero
// fields in cfg fall back to the package defaults.
func New(providerName string, cfg Config) *Breaker {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	errThreshold := cfg.ErrorThreshold
	if errThreshold == 0 {
		errThreshold = DefaultErrorThreshold
	}
	resetTimeout := cfg.ResetTimeout
	if resetTimeout == 0 {
		resetTimeout = DefaultResetTimeout
	}
	volumeThreshold := cfg.VolumeThreshold
	if volumeThreshold == 0 {
		volumeThreshold = DefaultVolumeThreshold
	}

	settings := gobreaker.Settings{
		Name:        providerName,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     resetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < volumeThreshold {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= errThreshold
		},
	}

	return &Breaker{
		name:     providerName,
		timeout:  timeout,
		cb:       gobreaker.NewCircuitBreaker[any](settings),
		fallback: cfg.Fallback,
	}
}

// Name returns the provider name this breaker guards.
func (b *Breaker) Name() string { return b.name }

// State returns the breaker's current state: "closed", "open", or
// "half-open".
func (b *Breaker) State() string {
	switch b.cb.State() {
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Execute runs fn under the breaker's per-call timeout. A timeout or any
// other error trips the breaker's failure counter. When the breaker is
// open, fn is never invoked; the fallback (if configured) runs instead,
// otherwise apperror.ErrCircuitOpen is returned.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	result, err := b.cb.Execute(func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()
		return runWithTimeout(callCtx, fn)
	})
	if err == nil {
		return result, nil
	}

	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		if b.fallback != nil {
			return b.fallback(ctx, err)
		}
		return nil, apperror.ErrCircuitOpen(b.name)
	}

	if b.fallback != nil {
		return b.fallback(ctx, err)
	}
	return result, err
}

// runWithTimeout invokes fn and races it against callCtx's deadline. A
// deadline expiry is surfaced as an error so it participates in the
// breaker's failure accounting like any other call error.
func runWithTimeout(callCtx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	type outcome struct {
		result any
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		result, err := fn(callCtx)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-callCtx.Done():
		return nil, context.DeadlineExceeded
	case o := <-done:
		return o.result, o.err
	}
}

// Factory lazily constructs and memoizes one Breaker per provider name,
// implementing ports.CircuitBreakerFactory.
type Factory struct {
	mu       sync.Mutex
	defaults Config
	breakers map[string]*Breaker
	override map[string]Config
}

// NewFactory builds a factory applying defaultCfg to every provider
// unless an override was registered with Override.
func NewFactory(defaultCfg Config) *Factory {
	return &Factory{
		defaults: defaultCfg,
		breakers: make(map[string]*Breaker),
		override: make(map[string]Config),
	}
}

// Override registers a provider-specific configuration, taking effect the
// next time For creates that provider's breaker.
func (f *Factory) Override(providerName string, cfg Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.override[providerName] = cfg
}

// For returns the memoized breaker for providerName, creating it on first
// use.
func (f *Factory) For(providerName string) ports.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.breakers[providerName]; ok {
		return b
	}

	cfg := f.defaults
	if override, ok := f.override[providerName]; ok {
		cfg = override
	}
	b := New(providerName, cfg)
	f.breakers[providerName] = b
	return b
}

// All returns every breaker created so far, keyed by provider name.
func (f *Factory) All() map[string]ports.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]ports.CircuitBreaker, len(f.breakers))
	for name, b := range f.breakers {
		out[name] = b
	}
	return out
}
