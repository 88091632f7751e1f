package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepLog struct {
	forward     []string
	compensated []string
}

func TestExecute_AllStepsSucceed_NoCompensation(t *testing.T) {
	log := &stepLog{}
	s := NewBuilder[*stepLog]().
		StepWithCompensation("persist", func(ctx context.Context, v *stepLog) error {
			v.forward = append(v.forward, "persist")
			return nil
		}, func(ctx context.Context, v *stepLog) {
			v.compensated = append(v.compensated, "persist")
		}).
		StepWithCompensation("invoke_provider", func(ctx context.Context, v *stepLog) error {
			v.forward = append(v.forward, "invoke_provider")
			return nil
		}, func(ctx context.Context, v *stepLog) {
			v.compensated = append(v.compensated, "invoke_provider")
		}).
		Step("enqueue_webhook", func(ctx context.Context, v *stepLog) error {
			v.forward = append(v.forward, "enqueue_webhook")
			return nil
		}).
		Build()

	result, err := Execute(context.Background(), s, log)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.FailedStep)
	assert.Equal(t, []string{"persist", "invoke_provider", "enqueue_webhook"}, result.CompletedSteps)
	assert.Equal(t, []string{"persist", "invoke_provider", "enqueue_webhook"}, log.forward)
	assert.Empty(t, log.compensated)
}

func TestExecute_FailureAtStepK_CompensatesOneThroughKMinus1InReverse(t *testing.T) {
	log := &stepLog{}
	boom := errors.New("provider unreachable")

	s := NewBuilder[*stepLog]().
		StepWithCompensation("persist", func(ctx context.Context, v *stepLog) error {
			v.forward = append(v.forward, "persist")
			return nil
		}, func(ctx context.Context, v *stepLog) {
			v.compensated = append(v.compensated, "persist")
		}).
		StepWithCompensation("lock_wallet", func(ctx context.Context, v *stepLog) error {
			v.forward = append(v.forward, "lock_wallet")
			return nil
		}, func(ctx context.Context, v *stepLog) {
			v.compensated = append(v.compensated, "lock_wallet")
		}).
		StepWithCompensation("invoke_provider", func(ctx context.Context, v *stepLog) error {
			v.forward = append(v.forward, "invoke_provider")
			return boom
		}, func(ctx context.Context, v *stepLog) {
			v.compensated = append(v.compensated, "invoke_provider")
		}).
		Step("enqueue_webhook", func(ctx context.Context, v *stepLog) error {
			v.forward = append(v.forward, "enqueue_webhook")
			return nil
		}).
		Build()

	result, err := Execute(context.Background(), s, log)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "invoke_provider", stepErr.StepName)
	assert.ErrorIs(t, err, boom)

	assert.False(t, result.Success)
	assert.Equal(t, "invoke_provider", result.FailedStep)
	// Completed steps lists only the steps that finished before the
	// failing one; invoke_provider itself is the failure, not a
	// completion.
	assert.Equal(t, []string{"persist", "lock_wallet"}, result.CompletedSteps)
	assert.Equal(t, []string{"persist", "lock_wallet", "invoke_provider"}, log.forward)
	// Compensation runs only for steps 1..k-1, in reverse order. Step k
	// itself (invoke_provider) never compensates — its own failure is
	// the trigger, not a completed step.
	assert.Equal(t, []string{"lock_wallet", "persist"}, log.compensated)
}

func TestExecute_CompensationPanicIsRecordedNotPropagated(t *testing.T) {
	log := &stepLog{}
	boom := errors.New("declined")

	s := NewBuilder[*stepLog]().
		StepWithCompensation("persist", func(ctx context.Context, v *stepLog) error {
			return nil
		}, func(ctx context.Context, v *stepLog) {
			panic("compensation exploded")
		}).
		StepWithCompensation("lock_wallet", func(ctx context.Context, v *stepLog) error {
			return nil
		}, func(ctx context.Context, v *stepLog) {
			v.compensated = append(v.compensated, "lock_wallet")
		}).
		Step("invoke_provider", func(ctx context.Context, v *stepLog) error {
			return boom
		}).
		Build()

	result, err := Execute(context.Background(), s, log)
	require.Error(t, err)
	require.Len(t, result.CompensationErrors, 1)
	assert.Equal(t, "persist", result.CompensationErrors[0].StepName)
	// The other step's compensation still ran despite the panic.
	assert.Equal(t, []string{"lock_wallet"}, log.compensated)
}

func TestExecute_StepWithNoCompensationIsSkippedDuringRollback(t *testing.T) {
	log := &stepLog{}
	boom := errors.New("failed")

	s := NewBuilder[*stepLog]().
		Step("persist", func(ctx context.Context, v *stepLog) error { return nil }).
		Step("invoke_provider", func(ctx context.Context, v *stepLog) error { return boom }).
		Build()

	result, err := Execute(context.Background(), s, log)
	require.Error(t, err)
	assert.Empty(t, result.CompensationErrors)
	assert.Empty(t, log.compensated)
}
