package tests

import (
	"context"
	"testing"

	"github.com/aretw0/qiscreen/pkg/bank"
	"github.com/aretw0/qiscreen/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BankSourceContractTest is a reusable test suite that verifies if an adapter complies with
// ports.BankSource. wantIDs are the question IDs the source is expected to yield once loaded.
func BankSourceContractTest(t *testing.T, source ports.BankSource, wantIDs []string) {
	t.Helper()

	t.Run("Load_Success", func(t *testing.T) {
		raw, err := source.Load(context.Background())
		require.NoError(t, err)

		g, err := bank.Load(raw, bank.WithSourceName(source.Name()))
		require.NoError(t, err)
		assert.Equal(t, wantIDs, g.IDs())
	})

	t.Run("Load_Deterministic", func(t *testing.T) {
		first, err := source.Load(context.Background())
		require.NoError(t, err)
		second, err := source.Load(context.Background())
		require.NoError(t, err)

		g1, err := bank.Load(first)
		require.NoError(t, err)
		g2, err := bank.Load(second)
		require.NoError(t, err)
		assert.Equal(t, g1.Questions(), g2.Questions())
	})

	t.Run("Load_Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := source.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Name", func(t *testing.T) {
		assert.NotEmpty(t, source.Name())
	})
}
