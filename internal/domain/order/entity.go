package order

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/inventory"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder        = errors.New("order must have at least one line item")
	ErrInvalidQuantity   = errors.New("line item quantity must be greater than 0")
	ErrNegativeAmount    = errors.New("monetary amounts cannot be negative")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
)

// Line captures one cart line with its price snapshot at time of order.
type Line struct {
	VariantID      uuid.UUID
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

func (l Line) SubtotalCents() int64 {
	return int64(l.Quantity) * l.UnitPriceCents
}

// Totals is the price breakdown persisted with the order.
type Totals struct {
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
}

// ComputeTotals derives the order total from its parts:
// total = subtotal + shipping + tax - discount, floored at zero.
func ComputeTotals(subtotal, shipping, tax, discount int64) Totals {
	total := subtotal + shipping + tax - discount
	if total < 0 {
		total = 0
	}
	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		DiscountCents: discount,
		TotalCents:    total,
	}
}

type Order struct {
	id                uuid.UUID
	orderNumber       string
	userID            uuid.UUID
	shippingAddressID uuid.UUID
	shippingMethodID  uuid.UUID
	lines             []Line
	totals            Totals
	promoID           *uuid.UUID
	status            Status
	createdAt         time.Time
	updatedAt         time.Time
}

func NewOrder(
	userID, shippingAddressID, shippingMethodID uuid.UUID,
	lines []Line,
	totals Totals,
	promoID *uuid.UUID,
	now time.Time,
) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if l.UnitPriceCents < 0 {
			return nil, ErrNegativeAmount
		}
	}
	if totals.SubtotalCents < 0 || totals.ShippingCents < 0 || totals.TaxCents < 0 ||
		totals.DiscountCents < 0 || totals.TotalCents < 0 {
		return nil, ErrNegativeAmount
	}

	id := uuid.New()
	return &Order{
		id:                id,
		orderNumber:       generateOrderNumber(id, now),
		userID:            userID,
		shippingAddressID: shippingAddressID,
		shippingMethodID:  shippingMethodID,
		lines:             lines,
		totals:            totals,
		promoID:           promoID,
		status:            StatusPending,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func ReconstructOrder(
	id uuid.UUID,
	orderNumber string,
	userID, shippingAddressID, shippingMethodID uuid.UUID,
	lines []Line,
	totals Totals,
	promoID *uuid.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:                id,
		orderNumber:       orderNumber,
		userID:            userID,
		shippingAddressID: shippingAddressID,
		shippingMethodID:  shippingMethodID,
		lines:             lines,
		totals:            totals,
		promoID:           promoID,
		status:            status,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// TransitionTo validates the lifecycle edge and returns the stock effect the
// caller must apply alongside the status write.
func (o *Order) TransitionTo(next Status, now time.Time) (LedgerEffect, error) {
	if !next.IsValid() {
		return EffectNone, ErrInvalidTransition
	}
	if !o.status.CanTransitionTo(next) {
		return EffectNone, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, next)
	}
	effect := EffectOf(o.status, next)
	o.status = next
	o.updatedAt = now
	return effect, nil
}

// LedgerLines projects the order lines into the ledger's batch shape.
func (o *Order) LedgerLines() []inventory.Line {
	items := make([]inventory.Line, len(o.lines))
	for i, l := range o.lines {
		items[i] = inventory.Line{VariantID: l.VariantID, Quantity: l.Quantity}
	}
	return items
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) OrderNumber() string          { return o.orderNumber }
func (o *Order) UserID() uuid.UUID            { return o.userID }
func (o *Order) ShippingAddressID() uuid.UUID { return o.shippingAddressID }
func (o *Order) ShippingMethodID() uuid.UUID  { return o.shippingMethodID }
func (o *Order) Lines() []Line                { return o.lines }
func (o *Order) Totals() Totals               { return o.totals }
func (o *Order) PromoID() *uuid.UUID          { return o.promoID }
func (o *Order) Status() Status               { return o.status }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// Order numbers are customer-facing: date prefix plus the first id segment.
func generateOrderNumber(id uuid.UUID, now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), id.String()[:8])
}
