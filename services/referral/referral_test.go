package referral

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDistinctCodes(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	exists := func(_ context.Context, code string) (bool, error) {
		return seen[code], nil
	}

	for i := 0; i < 2000; i++ {
		code, err := g.Generate(context.Background(), exists)
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{8}$`, code)
		require.False(t, seen[code])
		seen[code] = true
	}
	assert.Len(t, seen, 2000)
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	codes := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	calls := 0
	g := &Generator{attempts: MaxAttempts, random: func() (string, error) {
		c := codes[calls]
		calls++
		return c, nil
	}}
	taken := map[string]bool{"AAAAAAAA": true}

	code, err := g.Generate(context.Background(), func(_ context.Context, c string) (bool, error) {
		return taken[c], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBB", code)
	assert.Equal(t, 3, calls)
}

func TestGenerateExhausted(t *testing.T) {
	calls := 0
	g := NewGenerator()
	_, err := g.Generate(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})
	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Equal(t, MaxAttempts, calls)
}

func TestGenerateLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewGenerator().Generate(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}
