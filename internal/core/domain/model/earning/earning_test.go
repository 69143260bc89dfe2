package earning_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingEarning(t *testing.T, grossMinor int64, rateBp int, availableDate time.Time) *earning.Earning {
	t.Helper()
	gross, err := kernel.NewMoney(grossMinor)
	require.NoError(t, err)
	rate, err := kernel.NewCommissionRate(rateBp)
	require.NoError(t, err)

	e, err := earning.NewEarning(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		gross, rate, availableDate, availableDate.AddDate(0, 0, -7))
	require.NoError(t, err)
	return e
}

func TestNewEarning(t *testing.T) {
	availableDate := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("amounts derived from rate", func(t *testing.T) {
		e := newPendingEarning(t, 7500, 1000, availableDate)

		assert.Equal(t, int64(7500), e.Gross().Int64())
		assert.Equal(t, int64(750), e.Commission().Int64())
		assert.Equal(t, int64(6750), e.Net().Int64())
		assert.Equal(t, earning.StatusPending, e.Status())
	})

	t.Run("net plus commission equals gross for odd amounts", func(t *testing.T) {
		for _, gross := range []int64{1, 7, 99, 12345, 99999} {
			e := newPendingEarning(t, gross, 1250, availableDate)
			assert.Equal(t, gross, e.Net().Add(e.Commission()).Int64())
		}
	})

	t.Run("available date truncated to day", func(t *testing.T) {
		withTime := time.Date(2025, 6, 8, 17, 45, 12, 0, time.UTC)
		e := newPendingEarning(t, 100, 1000, withTime)
		assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), e.AvailableDate())
	})

	t.Run("invalid ids rejected", func(t *testing.T) {
		gross, _ := kernel.NewMoney(100)
		rate, _ := kernel.NewCommissionRate(1000)
		_, err := earning.NewEarning(
			kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			gross, rate, availableDate, time.Now())
		require.Error(t, err)
	})
}

func TestEarning_MakeAvailable(t *testing.T) {
	availableDate := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("promotes once window elapsed", func(t *testing.T) {
		e := newPendingEarning(t, 7500, 1000, availableDate)
		now := availableDate.Add(2 * time.Hour)

		require.NoError(t, e.MakeAvailable(now))
		assert.Equal(t, earning.StatusAvailable, e.Status())
		assert.Equal(t, now, e.UpdatedAt())
	})

	t.Run("window still open", func(t *testing.T) {
		e := newPendingEarning(t, 7500, 1000, availableDate)

		err := e.MakeAvailable(availableDate.AddDate(0, 0, -1))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, earning.StatusPending, e.Status())
	})

	t.Run("already available cannot be promoted again", func(t *testing.T) {
		e := newPendingEarning(t, 7500, 1000, availableDate)
		require.NoError(t, e.MakeAvailable(availableDate))

		err := e.MakeAvailable(availableDate.Add(time.Hour))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestEarning_MarkPaid(t *testing.T) {
	availableDate := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("pays out available earning", func(t *testing.T) {
		e := newPendingEarning(t, 7500, 1000, availableDate)
		require.NoError(t, e.MakeAvailable(availableDate))
		require.NoError(t, e.MarkPaid(availableDate.Add(time.Hour)))
		assert.Equal(t, earning.StatusPaid, e.Status())
	})

	t.Run("pending cannot skip to paid", func(t *testing.T) {
		e := newPendingEarning(t, 7500, 1000, availableDate)
		require.ErrorIs(t, e.MarkPaid(availableDate), errs.ErrValueIsInvalid)
	})

	t.Run("status never moves backward", func(t *testing.T) {
		e := newPendingEarning(t, 7500, 1000, availableDate)
		require.NoError(t, e.MakeAvailable(availableDate))
		require.NoError(t, e.MarkPaid(availableDate))

		require.Error(t, e.MakeAvailable(availableDate))
		assert.Equal(t, earning.StatusPaid, e.Status())
	})
}

func TestStatus_Promote(t *testing.T) {
	next, err := earning.StatusPending.Promote()
	require.NoError(t, err)
	assert.Equal(t, earning.StatusAvailable, next)

	next, err = earning.StatusAvailable.Promote()
	require.NoError(t, err)
	assert.Equal(t, earning.StatusPaid, next)

	_, err = earning.StatusPaid.Promote()
	require.Error(t, err)

	_, err = earning.StatusUnknown.Promote()
	require.Error(t, err)
}
