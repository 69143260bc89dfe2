package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromString(t *testing.T) {
	tests := []struct {
		in   string
		want order.Status
	}{
		{"pending", order.StatusPending},
		{"confirmed", order.StatusConfirmed},
		{"processing", order.StatusProcessing},
		{"shipped", order.StatusShipped},
		{"out_for_delivery", order.StatusOutForDelivery},
		{"delivered", order.StatusDelivered},
		{"cancelled", order.StatusCancelled},
		{"refunded", order.StatusRefunded},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := order.StatusFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := order.StatusFromString("bogus_status")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("empty status is rejected", func(t *testing.T) {
		_, err := order.StatusFromString("")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.StatusPending.Validate())
	require.NoError(t, order.StatusRefunded.Validate())
	require.Error(t, order.StatusUnknown.Validate())
	require.Error(t, order.Status(99).Validate())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.True(t, order.StatusRefunded.IsTerminal())
	assert.False(t, order.StatusDelivered.IsTerminal())
	assert.False(t, order.StatusPending.IsTerminal())
}

func TestStatus_CanTransitionTo_Lenient(t *testing.T) {
	t.Run("any known status from any known status", func(t *testing.T) {
		require.NoError(t, order.StatusDelivered.CanTransitionTo(order.StatusPending, order.PolicyLenient))
		require.NoError(t, order.StatusCancelled.CanTransitionTo(order.StatusShipped, order.PolicyLenient))
		require.NoError(t, order.StatusPending.CanTransitionTo(order.StatusDelivered, order.PolicyLenient))
	})

	t.Run("unknown target still rejected", func(t *testing.T) {
		err := order.StatusPending.CanTransitionTo(order.StatusUnknown, order.PolicyLenient)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		err = order.StatusPending.CanTransitionTo(order.Status(42), order.PolicyLenient)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_CanTransitionTo_Strict(t *testing.T) {
	t.Run("forward chain allowed", func(t *testing.T) {
		chain := []order.Status{
			order.StatusPending,
			order.StatusConfirmed,
			order.StatusProcessing,
			order.StatusShipped,
			order.StatusOutForDelivery,
			order.StatusDelivered,
		}
		for i := 0; i < len(chain)-1; i++ {
			require.NoError(t, chain[i].CanTransitionTo(chain[i+1], order.PolicyStrict),
				"%s -> %s", chain[i], chain[i+1])
		}
	})

	t.Run("regressions rejected", func(t *testing.T) {
		require.Error(t, order.StatusDelivered.CanTransitionTo(order.StatusPending, order.PolicyStrict))
		require.Error(t, order.StatusShipped.CanTransitionTo(order.StatusConfirmed, order.PolicyStrict))
	})

	t.Run("skipping ahead rejected", func(t *testing.T) {
		require.Error(t, order.StatusPending.CanTransitionTo(order.StatusShipped, order.PolicyStrict))
		require.Error(t, order.StatusConfirmed.CanTransitionTo(order.StatusDelivered, order.PolicyStrict))
	})

	t.Run("cancel side exit from early states", func(t *testing.T) {
		require.NoError(t, order.StatusPending.CanTransitionTo(order.StatusCancelled, order.PolicyStrict))
		require.NoError(t, order.StatusProcessing.CanTransitionTo(order.StatusCancelled, order.PolicyStrict))
		require.Error(t, order.StatusShipped.CanTransitionTo(order.StatusCancelled, order.PolicyStrict))
	})

	t.Run("refund reachable through delivery", func(t *testing.T) {
		require.NoError(t, order.StatusShipped.CanTransitionTo(order.StatusRefunded, order.PolicyStrict))
		require.NoError(t, order.StatusDelivered.CanTransitionTo(order.StatusRefunded, order.PolicyStrict))
		require.Error(t, order.StatusPending.CanTransitionTo(order.StatusRefunded, order.PolicyStrict))
	})

	t.Run("terminal states have no exits", func(t *testing.T) {
		require.Error(t, order.StatusCancelled.CanTransitionTo(order.StatusPending, order.PolicyStrict))
		require.Error(t, order.StatusRefunded.CanTransitionTo(order.StatusConfirmed, order.PolicyStrict))
	})
}

func TestPolicyFromString(t *testing.T) {
	lenient, err := order.PolicyFromString("lenient")
	require.NoError(t, err)
	require.Equal(t, order.PolicyLenient, lenient)

	defaulted, err := order.PolicyFromString("")
	require.NoError(t, err)
	require.Equal(t, order.PolicyLenient, defaulted)

	strict, err := order.PolicyFromString("strict")
	require.NoError(t, err)
	require.Equal(t, order.PolicyStrict, strict)

	_, err = order.PolicyFromString("anything-goes")
	require.Error(t, err)
}
