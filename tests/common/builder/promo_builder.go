//go:build unit || integration

package builder

import (
	"time"

	"storefront/internal/domain/promo"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

// PromoBuilder assembles promo codes for tests. Defaults describe an active,
// unrestricted 10 percent code.
type PromoBuilder struct {
	id               uuid.UUID
	code             string
	discountType     promo.DiscountType
	discountValue    int64
	startDate        *time.Time
	endDate          *time.Time
	usageLimit       *int32
	perUserLimit     *int32
	currentUsage     int32
	minPurchaseCents *int64
	isActive         bool
	eligibleProducts []uuid.UUID
}

func NewPromoBuilder() *PromoBuilder {
	return &PromoBuilder{
		id:            uuid.New(),
		code:          "SAVE10",
		discountType:  promo.DiscountPercentage,
		discountValue: 10,
		isActive:      true,
	}
}

func (b *PromoBuilder) WithID(id uuid.UUID) *PromoBuilder {
	b.id = id
	return b
}

func (b *PromoBuilder) WithCode(code string) *PromoBuilder {
	b.code = code
	return b
}

func (b *PromoBuilder) WithDiscount(kind promo.DiscountType, value int64) *PromoBuilder {
	b.discountType = kind
	b.discountValue = value
	return b
}

func (b *PromoBuilder) WithWindow(start, end time.Time) *PromoBuilder {
	b.startDate = &start
	b.endDate = &end
	return b
}

func (b *PromoBuilder) WithUsage(limit, current int32) *PromoBuilder {
	b.usageLimit = &limit
	b.currentUsage = current
	return b
}

func (b *PromoBuilder) WithPerUserLimit(limit int32) *PromoBuilder {
	b.perUserLimit = &limit
	return b
}

func (b *PromoBuilder) WithMinPurchase(cents int64) *PromoBuilder {
	b.minPurchaseCents = &cents
	return b
}

func (b *PromoBuilder) Inactive() *PromoBuilder {
	b.isActive = false
	return b
}

func (b *PromoBuilder) WithEligibleProducts(ids ...uuid.UUID) *PromoBuilder {
	b.eligibleProducts = ids
	return b
}

func (b *PromoBuilder) BuildDomain() (*promo.PromoCode, error) {
	return promo.NewPromoCode(
		b.id, b.code, b.discountType, b.discountValue,
		b.startDate, b.endDate,
		b.usageLimit, b.perUserLimit, b.currentUsage,
		b.minPurchaseCents, b.isActive, b.eligibleProducts,
	)
}

func (b *PromoBuilder) BuildSnapshot() *shared.PromoSnapshot {
	return &shared.PromoSnapshot{
		ID:                 b.id,
		Code:               b.code,
		DiscountType:       string(b.discountType),
		DiscountValue:      b.discountValue,
		StartDate:          b.startDate,
		EndDate:            b.endDate,
		UsageLimit:         b.usageLimit,
		PerUserLimit:       b.perUserLimit,
		CurrentUsage:       b.currentUsage,
		MinPurchaseCents:   b.minPurchaseCents,
		IsActive:           b.isActive,
		EligibleProductIDs: b.eligibleProducts,
	}
}
