package shared

import (
	"time"

	"storefront/internal/domain/order"

	"github.com/google/uuid"
)

type CartLine struct {
	VariantID      uuid.UUID
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

type CartSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Lines  []CartLine
}

func (c *CartSnapshot) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

type VariantSnapshot struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	PriceCents       int64
	StockQuantity    int
	ReservedQuantity int
	ReorderLevel     int
}

type ShippingMethodSnapshot struct {
	ID        uuid.UUID
	Name      string
	CostCents int64
}

type PromoSnapshot struct {
	ID                 uuid.UUID
	Code               string
	DiscountType       string
	DiscountValue      int64
	StartDate          *time.Time
	EndDate            *time.Time
	UsageLimit         *int32
	PerUserLimit       *int32
	CurrentUsage       int32
	MinPurchaseCents   *int64
	IsActive           bool
	EligibleProductIDs []uuid.UUID
}

type OrderSnapshot struct {
	ID          uuid.UUID
	OrderNumber string
	UserID      uuid.UUID
	Status      order.Status
	Lines       []order.Line
	PromoID     *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
