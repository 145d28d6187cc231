//go:build unit

package order_test

import (
	"testing"
	"time"

	"storefront/internal/domain/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func validLines() []order.Line {
	return []order.Line{
		{VariantID: uuid.New(), ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 2500},
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("sums all parts", func(t *testing.T) {
		totals := order.ComputeTotals(10000, 500, 1500, 1000)
		assert.Equal(t, int64(10000), totals.SubtotalCents)
		assert.Equal(t, int64(500), totals.ShippingCents)
		assert.Equal(t, int64(1500), totals.TaxCents)
		assert.Equal(t, int64(1000), totals.DiscountCents)
		assert.Equal(t, int64(11000), totals.TotalCents)
	})

	t.Run("total floored at zero", func(t *testing.T) {
		totals := order.ComputeTotals(1000, 0, 0, 5000)
		assert.Equal(t, int64(0), totals.TotalCents)
	})
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()
	addressID := uuid.New()
	methodID := uuid.New()

	t.Run("basic success case", func(t *testing.T) {
		totals := order.ComputeTotals(5000, 500, 750, 0)
		o, err := order.NewOrder(userID, addressID, methodID, validLines(), totals, nil, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, o.ID())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, userID, o.UserID())
		assert.Equal(t, now, o.CreatedAt())
		assert.Equal(t, now, o.UpdatedAt())
		// ORD-<yyyymmdd>-<id prefix>
		assert.Regexp(t, `^ORD-20260315-[0-9a-f]{8}$`, o.OrderNumber())
	})

	t.Run("validation", func(t *testing.T) {
		totals := order.ComputeTotals(5000, 500, 750, 0)

		_, err := order.NewOrder(userID, addressID, methodID, nil, totals, nil, now)
		assert.ErrorIs(t, err, order.ErrEmptyOrder)

		badQty := []order.Line{{VariantID: uuid.New(), ProductID: uuid.New(), Quantity: 0, UnitPriceCents: 100}}
		_, err = order.NewOrder(userID, addressID, methodID, badQty, totals, nil, now)
		assert.ErrorIs(t, err, order.ErrInvalidQuantity)

		badPrice := []order.Line{{VariantID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPriceCents: -1}}
		_, err = order.NewOrder(userID, addressID, methodID, badPrice, totals, nil, now)
		assert.ErrorIs(t, err, order.ErrNegativeAmount)

		_, err = order.NewOrder(userID, addressID, methodID, validLines(), order.Totals{SubtotalCents: -1}, nil, now)
		assert.ErrorIs(t, err, order.ErrNegativeAmount)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	reconstruct := func(status order.Status) *order.Order {
		return order.ReconstructOrder(
			uuid.New(), "ORD-20260315-abcd1234", uuid.New(), uuid.New(), uuid.New(),
			validLines(), order.Totals{}, nil, status, now, now,
		)
	}

	t.Run("allowed transitions and ledger effects", func(t *testing.T) {
		cases := []struct {
			from   order.Status
			to     order.Status
			effect order.LedgerEffect
		}{
			{from: order.StatusPending, to: order.StatusProcessing, effect: order.EffectNone},
			{from: order.StatusPending, to: order.StatusCancelled, effect: order.EffectReturn},
			{from: order.StatusProcessing, to: order.StatusShipped, effect: order.EffectNone},
			{from: order.StatusProcessing, to: order.StatusCancelled, effect: order.EffectReturn},
			{from: order.StatusShipped, to: order.StatusDelivered, effect: order.EffectNone},
			{from: order.StatusDelivered, to: order.StatusReturned, effect: order.EffectReturn},
		}
		for _, tc := range cases {
			t.Run(string(tc.from)+" to "+string(tc.to), func(t *testing.T) {
				o := reconstruct(tc.from)
				later := now.Add(time.Hour)
				effect, err := o.TransitionTo(tc.to, later)
				require.NoError(t, err)
				assert.Equal(t, tc.effect, effect)
				assert.Equal(t, tc.to, o.Status())
				assert.Equal(t, later, o.UpdatedAt())
			})
		}
	})

	t.Run("forbidden transitions", func(t *testing.T) {
		cases := []struct {
			from order.Status
			to   order.Status
		}{
			{from: order.StatusPending, to: order.StatusShipped},
			{from: order.StatusPending, to: order.StatusDelivered},
			{from: order.StatusShipped, to: order.StatusCancelled},
			{from: order.StatusDelivered, to: order.StatusCancelled},
			{from: order.StatusCancelled, to: order.StatusProcessing},
			{from: order.StatusReturned, to: order.StatusPending},
			{from: order.StatusPending, to: order.StatusPending},
		}
		for _, tc := range cases {
			t.Run(string(tc.from)+" to "+string(tc.to), func(t *testing.T) {
				o := reconstruct(tc.from)
				_, err := o.TransitionTo(tc.to, now)
				assert.ErrorIs(t, err, order.ErrInvalidTransition)
				assert.Equal(t, tc.from, o.Status())
			})
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		o := reconstruct(order.StatusPending)
		_, err := o.TransitionTo(order.Status("bogus"), now)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_LedgerLines(t *testing.T) {
	v1 := uuid.New()
	v2 := uuid.New()
	lines := []order.Line{
		{VariantID: v1, ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 1000},
		{VariantID: v2, ProductID: uuid.New(), Quantity: 3, UnitPriceCents: 500},
	}
	o := order.ReconstructOrder(
		uuid.New(), "ORD-20260315-abcd1234", uuid.New(), uuid.New(), uuid.New(),
		lines, order.Totals{}, nil, order.StatusPending, now, now,
	)

	ledger := o.LedgerLines()
	require.Len(t, ledger, 2)
	assert.Equal(t, v1, ledger[0].VariantID)
	assert.Equal(t, 2, ledger[0].Quantity)
	assert.Equal(t, v2, ledger[1].VariantID)
	assert.Equal(t, 3, ledger[1].Quantity)
}
