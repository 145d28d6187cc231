//go:build unit

package promo_test

import (
	"testing"
	"time"

	"storefront/internal/domain/promo"
	"storefront/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleItem(productID uuid.UUID, subtotal int64) []promo.LineItem {
	return []promo.LineItem{{ProductID: productID, Quantity: 1, SubtotalCents: subtotal}}
}

func TestNewPromoCode(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", p.Code().String())
		assert.True(t, p.IsActive())
	})

	t.Run("code is normalized to upper case", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().WithCode("save10").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", p.Code().String())
	})

	t.Run("code validation", func(t *testing.T) {
		cases := []struct {
			name  string
			code  string
			errIs error
		}{
			{name: "too short", code: "AB", errIs: promo.ErrInvalidCode},
			{name: "too long", code: "ABCDEFGHIJKLMNOPQRSTU", errIs: promo.ErrInvalidCode},
			{name: "invalid characters", code: "SAVE-10", errIs: promo.ErrInvalidCode},
			{name: "empty", code: "", errIs: promo.ErrInvalidCode},
			{name: "minimum length", code: "AB1"},
			{name: "maximum length", code: "ABCDEFGHIJ1234567890"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := builder.NewPromoBuilder().WithCode(tc.code).BuildDomain()
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
					return
				}
				assert.NoError(t, err)
			})
		}
	})

	t.Run("discount validation", func(t *testing.T) {
		_, err := builder.NewPromoBuilder().WithDiscount(promo.DiscountPercentage, 101).BuildDomain()
		assert.ErrorIs(t, err, promo.ErrInvalidDiscountValue)

		_, err = builder.NewPromoBuilder().WithDiscount(promo.DiscountFixed, -1).BuildDomain()
		assert.ErrorIs(t, err, promo.ErrInvalidDiscountValue)

		_, err = builder.NewPromoBuilder().WithDiscount(promo.DiscountType("BOGUS"), 10).BuildDomain()
		assert.ErrorIs(t, err, promo.ErrInvalidDiscountValue)
	})
}

func TestPromoCode_Evaluate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	productID := uuid.New()

	t.Run("ten percent off 10000 cents", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().BuildDomain()
		require.NoError(t, err)

		result, err := p.Evaluate(now, singleItem(productID, 10000), 10000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), result.DiscountCents)
		assert.Equal(t, int64(9000), result.FinalTotalCents)
	})

	t.Run("percentage rounds half up", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().WithDiscount(promo.DiscountPercentage, 15).BuildDomain()
		require.NoError(t, err)

		// 15% of 1003 = 150.45, rounds to 150; 15% of 1010 = 151.5, rounds to 152.
		result, err := p.Evaluate(now, singleItem(productID, 1003), 1003)
		require.NoError(t, err)
		assert.Equal(t, int64(150), result.DiscountCents)

		result, err = p.Evaluate(now, singleItem(productID, 1010), 1010)
		require.NoError(t, err)
		assert.Equal(t, int64(152), result.DiscountCents)
	})

	t.Run("fixed discount capped at subtotal", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().WithDiscount(promo.DiscountFixed, 5000).BuildDomain()
		require.NoError(t, err)

		result, err := p.Evaluate(now, singleItem(productID, 3000), 3000)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), result.DiscountCents)
		assert.Equal(t, int64(0), result.FinalTotalCents)
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []struct {
			name  string
			build func() *builder.PromoBuilder
			errIs error
		}{
			{
				name:  "inactive",
				build: func() *builder.PromoBuilder { return builder.NewPromoBuilder().Inactive() },
				errIs: promo.ErrInactive,
			},
			{
				name: "not yet started",
				build: func() *builder.PromoBuilder {
					return builder.NewPromoBuilder().WithWindow(now.Add(time.Hour), now.Add(48*time.Hour))
				},
				errIs: promo.ErrNotYetStarted,
			},
			{
				name: "expired",
				build: func() *builder.PromoBuilder {
					return builder.NewPromoBuilder().WithWindow(now.Add(-48*time.Hour), now.Add(-time.Hour))
				},
				errIs: promo.ErrExpired,
			},
			{
				name:  "usage limit exhausted",
				build: func() *builder.PromoBuilder { return builder.NewPromoBuilder().WithUsage(5, 5) },
				errIs: promo.ErrUsageLimitReached,
			},
			{
				name:  "below minimum purchase",
				build: func() *builder.PromoBuilder { return builder.NewPromoBuilder().WithMinPurchase(20000) },
				errIs: promo.ErrBelowMinPurchase,
			},
			{
				name: "no eligible items",
				build: func() *builder.PromoBuilder {
					return builder.NewPromoBuilder().WithEligibleProducts(uuid.New())
				},
				errIs: promo.ErrNoEligibleItems,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				p, err := tc.build().BuildDomain()
				require.NoError(t, err)
				_, err = p.Evaluate(now, singleItem(productID, 10000), 10000)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("usage one below limit still valid", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().WithUsage(5, 4).BuildDomain()
		require.NoError(t, err)
		_, err = p.Evaluate(now, singleItem(productID, 10000), 10000)
		assert.NoError(t, err)
	})

	t.Run("window boundaries inclusive", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().WithWindow(now, now).BuildDomain()
		require.NoError(t, err)
		_, err = p.Evaluate(now, singleItem(productID, 10000), 10000)
		assert.NoError(t, err)
	})

	t.Run("discount applies only to eligible products", func(t *testing.T) {
		eligible := uuid.New()
		other := uuid.New()
		p, err := builder.NewPromoBuilder().
			WithDiscount(promo.DiscountPercentage, 50).
			WithEligibleProducts(eligible).
			BuildDomain()
		require.NoError(t, err)

		items := []promo.LineItem{
			{ProductID: eligible, Quantity: 1, SubtotalCents: 4000},
			{ProductID: other, Quantity: 1, SubtotalCents: 6000},
		}
		result, err := p.Evaluate(now, items, 10000)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), result.DiscountCents)
		assert.Equal(t, int64(8000), result.FinalTotalCents)
		assert.Equal(t, []uuid.UUID{eligible}, result.EligibleProductIDs)
	})

	t.Run("min purchase checked against full subtotal", func(t *testing.T) {
		eligible := uuid.New()
		other := uuid.New()
		p, err := builder.NewPromoBuilder().
			WithMinPurchase(8000).
			WithEligibleProducts(eligible).
			BuildDomain()
		require.NoError(t, err)

		items := []promo.LineItem{
			{ProductID: eligible, Quantity: 1, SubtotalCents: 2000},
			{ProductID: other, Quantity: 1, SubtotalCents: 8000},
		}
		_, err = p.Evaluate(now, items, 10000)
		assert.NoError(t, err)
	})
}

func TestPromoCode_UnderUserLimit(t *testing.T) {
	t.Run("no per-user limit", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().BuildDomain()
		require.NoError(t, err)
		assert.True(t, p.UnderUserLimit(100))
	})

	t.Run("under and at limit", func(t *testing.T) {
		p, err := builder.NewPromoBuilder().WithPerUserLimit(2).BuildDomain()
		require.NoError(t, err)
		assert.True(t, p.UnderUserLimit(0))
		assert.True(t, p.UnderUserLimit(1))
		assert.False(t, p.UnderUserLimit(2))
	})
}
