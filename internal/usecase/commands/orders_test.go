//go:build unit

package commands_test

import (
	"context"
	"testing"

	"storefront/internal/domain/order"
	"storefront/internal/pkg/clock"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/shared"
	"storefront/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	uow      *fake.UoW
	commands commands.OrderCommands
	orderID  uuid.UUID
	variant  uuid.UUID
}

func newOrderFixture(t *testing.T, status order.Status) *orderFixture {
	t.Helper()

	uow := fake.NewUoW()
	variantID := uuid.New()
	// Stock already committed: 2 units sold out of 10.
	uow.SeedVariant(variantID, fake.VariantState{ProductID: uuid.New(), PriceCents: 2500, Stock: 8})

	orderID := uuid.New()
	uow.SeedOrder(shared.OrderSnapshot{
		ID:          orderID,
		OrderNumber: "ORD-20260315-abcd1234",
		UserID:      uuid.New(),
		Status:      status,
		Lines: []order.Line{
			{VariantID: variantID, ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 2500},
		},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}, order.Totals{SubtotalCents: 5000, TotalCents: 5000})

	ledger := commands.NewStockLedger(uow)
	return &orderFixture{
		uow:      uow,
		commands: commands.NewOrderCommands(uow, ledger, clock.NewMockClock(testNow)),
		orderID:  orderID,
		variant:  variantID,
	}
}

func TestOrderCommands_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to processing has no stock effect", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusPending)

		require.NoError(t, f.commands.UpdateStatus(ctx, f.orderID, order.StatusProcessing))

		stored, ok := f.uow.Order(f.orderID)
		require.True(t, ok)
		assert.Equal(t, order.StatusProcessing, stored.Snapshot.Status)
		assert.Equal(t, 8, f.uow.Variant(f.variant).Stock)
	})

	t.Run("invalid transition", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusPending)

		err := f.commands.UpdateStatus(ctx, f.orderID, order.StatusDelivered)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)

		stored, ok := f.uow.Order(f.orderID)
		require.True(t, ok)
		assert.Equal(t, order.StatusPending, stored.Snapshot.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusPending)

		err := f.commands.UpdateStatus(ctx, uuid.New(), order.StatusProcessing)
		assert.ErrorIs(t, err, commands.ErrOrderNotFound)
	})
}

func TestOrderCommands_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling a pending order restores stock", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusPending)

		require.NoError(t, f.commands.Cancel(ctx, f.orderID))

		stored, ok := f.uow.Order(f.orderID)
		require.True(t, ok)
		assert.Equal(t, order.StatusCancelled, stored.Snapshot.Status)
		assert.Equal(t, 10, f.uow.Variant(f.variant).Stock)
	})

	t.Run("cancelling a processing order restores stock", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusProcessing)

		require.NoError(t, f.commands.Cancel(ctx, f.orderID))
		assert.Equal(t, 10, f.uow.Variant(f.variant).Stock)
	})

	t.Run("shipped orders cannot be cancelled", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusShipped)

		err := f.commands.Cancel(ctx, f.orderID)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.Equal(t, 8, f.uow.Variant(f.variant).Stock)
	})
}

func TestOrderCommands_Return(t *testing.T) {
	ctx := context.Background()

	t.Run("returning a delivered order restocks", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusDelivered)

		require.NoError(t, f.commands.Return(ctx, f.orderID))

		stored, ok := f.uow.Order(f.orderID)
		require.True(t, ok)
		assert.Equal(t, order.StatusReturned, stored.Snapshot.Status)
		assert.Equal(t, 10, f.uow.Variant(f.variant).Stock)
	})

	t.Run("only delivered orders can be returned", func(t *testing.T) {
		f := newOrderFixture(t, order.StatusProcessing)

		err := f.commands.Return(ctx, f.orderID)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})
}
