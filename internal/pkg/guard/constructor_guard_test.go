package guard_test

import (
	"errors"
	"testing"

	"labflow/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("test object not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuardUsageExample(t *testing.T) {
	type command struct {
		name  string
		guard guard.ConstructorGuard
	}

	errNotConstructed := errors.New("command must be created via its constructor")

	newCommand := func(name string) command {
		return command{name: name, guard: guard.NewConstructorGuard()}
	}

	t.Run("constructed_command_validates", func(t *testing.T) {
		c := newCommand("sign result")
		require.NoError(t, c.guard.Validate(errNotConstructed))
	})

	t.Run("zero_value_command_fails_validation", func(t *testing.T) {
		var c command
		require.ErrorIs(t, c.guard.Validate(errNotConstructed), errNotConstructed)
	})
}
