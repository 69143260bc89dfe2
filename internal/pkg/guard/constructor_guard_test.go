package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(errors.New("should not be returned")))
	})

	t.Run("zero value returns supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		errNotConstructed := errors.New("command must be created via its constructor")

		err := g.Validate(errNotConstructed)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero value with nil error returns default", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}
