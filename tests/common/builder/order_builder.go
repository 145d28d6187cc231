//go:build unit || integration

package builder

import (
	"time"

	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
)

// OrderViewBuilder assembles read-side order views for tests.
type OrderViewBuilder struct {
	id        uuid.UUID
	number    string
	userID    uuid.UUID
	status    string
	subtotal  int64
	shipping  int64
	tax       int64
	discount  int64
	total     int64
	promoCode *string
	lines     []queries.OrderLineView
	createdAt time.Time
}

func NewOrderViewBuilder() *OrderViewBuilder {
	createdAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return &OrderViewBuilder{
		id:       uuid.New(),
		number:   "ORD-20260315-abcd1234",
		userID:   uuid.New(),
		status:   "pending",
		subtotal: 10000,
		shipping: 500,
		tax:      1500,
		total:    12000,
		lines: []queries.OrderLineView{
			{
				VariantID:      uuid.New(),
				ProductID:      uuid.New(),
				ProductName:    "Linen Shirt",
				Quantity:       2,
				UnitPriceCents: 5000,
			},
		},
		createdAt: createdAt,
	}
}

func (b *OrderViewBuilder) WithID(id uuid.UUID) *OrderViewBuilder {
	b.id = id
	return b
}

func (b *OrderViewBuilder) WithUserID(userID uuid.UUID) *OrderViewBuilder {
	b.userID = userID
	return b
}

func (b *OrderViewBuilder) WithStatus(status string) *OrderViewBuilder {
	b.status = status
	return b
}

func (b *OrderViewBuilder) WithPromo(code string, discountCents int64) *OrderViewBuilder {
	b.promoCode = &code
	b.discount = discountCents
	b.total = b.subtotal + b.shipping + b.tax - discountCents
	return b
}

func (b *OrderViewBuilder) BuildView() *queries.OrderView {
	return &queries.OrderView{
		ID:            b.id,
		OrderNumber:   b.number,
		UserID:        b.userID,
		Status:        b.status,
		SubtotalCents: b.subtotal,
		ShippingCents: b.shipping,
		TaxCents:      b.tax,
		DiscountCents: b.discount,
		TotalCents:    b.total,
		PromoCode:     b.promoCode,
		Lines:         b.lines,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.createdAt,
	}
}

func (b *OrderViewBuilder) BuildListItem() *queries.OrderListItem {
	return &queries.OrderListItem{
		ID:          b.id,
		OrderNumber: b.number,
		Status:      b.status,
		TotalCents:  b.total,
		CreatedAt:   b.createdAt,
	}
}
