//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/domain/inventory"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/shared"
	"storefront/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVariant(uow *fake.UoW, stock int) uuid.UUID {
	id := uuid.New()
	uow.SeedVariant(id, fake.VariantState{
		ProductID:  uuid.New(),
		PriceCents: 1000,
		Stock:      stock,
	})
	return id
}

func TestStockLedger_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve reduces available stock", func(t *testing.T) {
		uow := fake.NewUoW()
		variantID := seedVariant(uow, 10)
		ledger := commands.NewStockLedger(uow)

		require.NoError(t, ledger.Reserve(ctx, []inventory.Line{{VariantID: variantID, Quantity: 7}}))

		v := uow.Variant(variantID)
		assert.Equal(t, 10, v.Stock)
		assert.Equal(t, 7, v.Reserved)
	})

	t.Run("reserve beyond available reports the shortage", func(t *testing.T) {
		uow := fake.NewUoW()
		variantID := seedVariant(uow, 10)
		ledger := commands.NewStockLedger(uow)

		require.NoError(t, ledger.Reserve(ctx, []inventory.Line{{VariantID: variantID, Quantity: 7}}))

		err := ledger.Reserve(ctx, []inventory.Line{{VariantID: variantID, Quantity: 5}})
		var shortage *inventory.InsufficientStockError
		require.True(t, errors.As(err, &shortage))
		assert.Equal(t, variantID, shortage.VariantID)
		assert.Equal(t, 3, shortage.Available)
		assert.Equal(t, 5, shortage.Requested)
	})

	t.Run("batch is all or nothing", func(t *testing.T) {
		uow := fake.NewUoW()
		plenty := seedVariant(uow, 100)
		scarce := seedVariant(uow, 1)
		ledger := commands.NewStockLedger(uow)

		err := ledger.Reserve(ctx, []inventory.Line{
			{VariantID: plenty, Quantity: 10},
			{VariantID: scarce, Quantity: 2},
		})
		var shortage *inventory.InsufficientStockError
		require.True(t, errors.As(err, &shortage))
		assert.Equal(t, scarce, shortage.VariantID)

		// The sibling line's increment rolled back with the transaction.
		assert.Equal(t, 0, uow.Variant(plenty).Reserved)
		assert.Equal(t, 0, uow.Variant(scarce).Reserved)
	})

	t.Run("input validation", func(t *testing.T) {
		uow := fake.NewUoW()
		variantID := seedVariant(uow, 10)
		ledger := commands.NewStockLedger(uow)

		assert.ErrorIs(t, ledger.Reserve(ctx, nil), inventory.ErrEmptyBatch)
		assert.ErrorIs(t, ledger.Reserve(ctx, []inventory.Line{{VariantID: variantID, Quantity: 0}}), inventory.ErrInvalidQuantity)
	})

	t.Run("unknown variant", func(t *testing.T) {
		uow := fake.NewUoW()
		ledger := commands.NewStockLedger(uow)

		err := ledger.Reserve(ctx, []inventory.Line{{VariantID: uuid.New(), Quantity: 1}})
		assert.Error(t, err)
	})
}

func TestStockLedger_ConcurrentReserve(t *testing.T) {
	ctx := context.Background()
	uow := fake.NewUoW()
	variantID := seedVariant(uow, 5)
	ledger := commands.NewStockLedger(uow)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Reserve(ctx, []inventory.Line{{VariantID: variantID, Quantity: 1}})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var shortage *inventory.InsufficientStockError
		require.True(t, errors.As(err, &shortage))
	}

	// Exactly the available stock was won; never oversold.
	assert.Equal(t, 5, succeeded)
	v := uow.Variant(variantID)
	assert.Equal(t, 5, v.Reserved)
	assert.Equal(t, 5, v.Stock)
}

func TestStockLedger_ReleaseCommitReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("release round trip restores availability", func(t *testing.T) {
		uow := fake.NewUoW()
		variantID := seedVariant(uow, 10)
		ledger := commands.NewStockLedger(uow)
		items := []inventory.Line{{VariantID: variantID, Quantity: 4}}

		require.NoError(t, ledger.Reserve(ctx, items))
		require.NoError(t, ledger.Release(ctx, items))

		v := uow.Variant(variantID)
		assert.Equal(t, 10, v.Stock)
		assert.Equal(t, 0, v.Reserved)
	})

	t.Run("commit decrements both counters", func(t *testing.T) {
		uow := fake.NewUoW()
		variantID := seedVariant(uow, 10)
		ledger := commands.NewStockLedger(uow)
		items := []inventory.Line{{VariantID: variantID, Quantity: 7}}

		require.NoError(t, ledger.Reserve(ctx, items))
		require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return ledger.Commit(ctx, tx, items)
		}))

		v := uow.Variant(variantID)
		assert.Equal(t, 3, v.Stock)
		assert.Equal(t, 0, v.Reserved)
	})

	t.Run("return restocks", func(t *testing.T) {
		uow := fake.NewUoW()
		variantID := seedVariant(uow, 3)
		ledger := commands.NewStockLedger(uow)

		require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return ledger.Return(ctx, tx, []inventory.Line{{VariantID: variantID, Quantity: 7}})
		}))

		assert.Equal(t, 10, uow.Variant(variantID).Stock)
	})
}

func TestStockLedger_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	uow := fake.NewUoW()
	variantID := seedVariant(uow, 10)
	ledger := commands.NewStockLedger(uow)

	require.NoError(t, ledger.Reserve(ctx, []inventory.Line{{VariantID: variantID, Quantity: 7}}))

	assert.NoError(t, ledger.CheckAvailability(ctx, []inventory.Line{{VariantID: variantID, Quantity: 3}}))

	err := ledger.CheckAvailability(ctx, []inventory.Line{{VariantID: variantID, Quantity: 4}})
	var shortage *inventory.InsufficientStockError
	require.True(t, errors.As(err, &shortage))
	assert.Equal(t, 3, shortage.Available)

	err = ledger.CheckAvailability(ctx, []inventory.Line{{VariantID: uuid.New(), Quantity: 1}})
	assert.ErrorIs(t, err, commands.ErrVariantNotFound)

	// Multi-line batch reports the first short line.
	other := seedVariant(uow, 1)
	err = ledger.CheckAvailability(ctx, []inventory.Line{
		{VariantID: variantID, Quantity: 2},
		{VariantID: other, Quantity: 5},
	})
	require.True(t, errors.As(err, &shortage))
	assert.Equal(t, other, shortage.VariantID)
	assert.Equal(t, 1, shortage.Available)
}
