package promo

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInactive          = errors.New("promo code is inactive")
	ErrNotYetStarted     = errors.New("promo code is not yet valid")
	ErrExpired           = errors.New("promo code has expired")
	ErrUsageLimitReached = errors.New("usage limit reached")
	ErrBelowMinPurchase  = errors.New("subtotal below minimum purchase amount")
	ErrNoEligibleItems   = errors.New("no eligible items in cart")
)

// LineItem is the cart slice a promo evaluation sees: one product with the
// subtotal (unit price x quantity) it contributes.
type LineItem struct {
	ProductID     uuid.UUID
	Quantity      int
	SubtotalCents int64
}

// EvalResult is the read-only outcome of evaluating a code against a cart.
type EvalResult struct {
	PromoID            uuid.UUID
	Code               Code
	DiscountCents      int64
	FinalTotalCents    int64
	EligibleProductIDs []uuid.UUID
}

// PromoCode is the aggregate owning discount rules and the usage counter.
// currentUsage is only ever advanced through the engine's conditional update;
// the entity checks the cap but never mutates it.
type PromoCode struct {
	id               uuid.UUID
	code             Code
	discount         Discount
	startDate        *time.Time
	endDate          *time.Time
	usageLimit       *int32
	perUserLimit     *int32
	currentUsage     int32
	minPurchaseCents *int64
	isActive         bool
	eligibleProducts map[uuid.UUID]struct{} // empty = all products eligible
}

func NewPromoCode(
	id uuid.UUID,
	code string,
	discountType DiscountType,
	discountValue int64,
	startDate, endDate *time.Time,
	usageLimit, perUserLimit *int32,
	currentUsage int32,
	minPurchaseCents *int64,
	isActive bool,
	eligibleProductIDs []uuid.UUID,
) (*PromoCode, error) {
	promoCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	discount, err := NewDiscount(discountType, discountValue)
	if err != nil {
		return nil, err
	}

	eligible := make(map[uuid.UUID]struct{}, len(eligibleProductIDs))
	for _, pid := range eligibleProductIDs {
		eligible[pid] = struct{}{}
	}

	return &PromoCode{
		id:               id,
		code:             promoCode,
		discount:         discount,
		startDate:        startDate,
		endDate:          endDate,
		usageLimit:       usageLimit,
		perUserLimit:     perUserLimit,
		currentUsage:     currentUsage,
		minPurchaseCents: minPurchaseCents,
		isActive:         isActive,
		eligibleProducts: eligible,
	}, nil
}

// Evaluate checks the code against the cart and computes the discount.
// Read-only; usage is recorded separately after the order is durable.
func (p *PromoCode) Evaluate(now time.Time, items []LineItem, subtotalCents int64) (*EvalResult, error) {
	if !p.isActive {
		return nil, ErrInactive
	}
	if p.startDate != nil && now.Before(*p.startDate) {
		return nil, ErrNotYetStarted
	}
	if p.endDate != nil && now.After(*p.endDate) {
		return nil, ErrExpired
	}
	if p.usageLimit != nil && p.currentUsage >= *p.usageLimit {
		return nil, ErrUsageLimitReached
	}
	if p.minPurchaseCents != nil && subtotalCents < *p.minPurchaseCents {
		return nil, ErrBelowMinPurchase
	}

	eligibleSubtotal, eligibleIDs := p.eligibleSubtotal(items, subtotalCents)
	if len(eligibleIDs) == 0 {
		return nil, ErrNoEligibleItems
	}

	discount := p.discount.AmountFor(eligibleSubtotal)
	return &EvalResult{
		PromoID:            p.id,
		Code:               p.code,
		DiscountCents:      discount,
		FinalTotalCents:    subtotalCents - discount,
		EligibleProductIDs: eligibleIDs,
	}, nil
}

// eligibleSubtotal scopes the discount base. An empty eligible set means the
// whole cart qualifies.
func (p *PromoCode) eligibleSubtotal(items []LineItem, subtotalCents int64) (int64, []uuid.UUID) {
	if len(p.eligibleProducts) == 0 {
		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		return subtotalCents, ids
	}

	var sum int64
	var ids []uuid.UUID
	for _, it := range items {
		if _, ok := p.eligibleProducts[it.ProductID]; ok {
			sum += it.SubtotalCents
			ids = append(ids, it.ProductID)
		}
	}
	return sum, ids
}

// UnderUserLimit reports whether one more use by this user fits the per-user
// cap, given how many uses they already have on record.
func (p *PromoCode) UnderUserLimit(existingUserUsage int32) bool {
	if p.perUserLimit == nil {
		return true
	}
	return existingUserUsage < *p.perUserLimit
}

func (p *PromoCode) ID() uuid.UUID           { return p.id }
func (p *PromoCode) Code() Code              { return p.code }
func (p *PromoCode) Discount() Discount      { return p.discount }
func (p *PromoCode) CurrentUsage() int32     { return p.currentUsage }
func (p *PromoCode) UsageLimit() *int32      { return p.usageLimit }
func (p *PromoCode) PerUserLimit() *int32    { return p.perUserLimit }
func (p *PromoCode) IsActive() bool          { return p.isActive }
func (p *PromoCode) StartDate() *time.Time   { return p.startDate }
func (p *PromoCode) EndDate() *time.Time     { return p.endDate }
func (p *PromoCode) MinPurchaseCents() *int64 { return p.minPurchaseCents }
