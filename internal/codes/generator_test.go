package codes

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setChecker struct {
	taken map[string]bool
	calls int
	err   error
}

func (c *setChecker) CodeExists(_ context.Context, code string) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.taken[code], nil
}

func TestValid(t *testing.T) {
	for _, code := range []string{"A1000", "A1234", "A9999"} {
		assert.True(t, Valid(code), code)
	}
	for _, code := range []string{"", "A", "A999", "A0999", "A12345", "B1234", "a1234", "A12x4", " A1234"} {
		assert.False(t, Valid(code), code)
	}
}

func TestGenerator_New(t *testing.T) {
	g := NewGeneratorWithSource(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		code := g.New()
		require.True(t, Valid(code), "generated %q", code)
	}
}

func TestGenerator_Unique(t *testing.T) {
	t.Run("never returns a taken code", func(t *testing.T) {
		g := NewGeneratorWithSource(rand.NewPCG(7, 7))
		checker := &setChecker{taken: map[string]bool{}}

		// fill most of the keyspace so collisions are frequent
		probe := NewGeneratorWithSource(rand.NewPCG(7, 7))
		for i := 0; i < 200; i++ {
			checker.taken[probe.New()] = true
		}

		for i := 0; i < 100; i++ {
			code, err := g.Unique(context.Background(), checker)
			require.NoError(t, err)
			require.True(t, Valid(code))
			require.False(t, checker.taken[code], "returned taken code %s", code)
			checker.taken[code] = true
		}
		assert.Greater(t, checker.calls, 100)
	})

	t.Run("propagates checker errors", func(t *testing.T) {
		g := NewGenerator()
		boom := errors.New("store unavailable")

		_, err := g.Unique(context.Background(), &setChecker{err: boom})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		g := NewGenerator()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := g.Unique(ctx, &setChecker{taken: map[string]bool{}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
