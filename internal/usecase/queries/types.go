package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTOs for the read side)

type VariantStockView struct {
	VariantID        uuid.UUID `json:"variant_id"`
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	Colour           string    `json:"colour"`
	Size             string    `json:"size"`
	StockQuantity    int32     `json:"stock_quantity"`
	ReservedQuantity int32     `json:"reserved_quantity"`
	AvailableStock   int32     `json:"available_stock"`
	ReorderLevel     int32     `json:"reorder_level"`
}

func (v *VariantStockView) InStock() bool {
	return v.AvailableStock > 0
}

func (v *VariantStockView) NeedsReorder() bool {
	return v.AvailableStock <= v.ReorderLevel
}

type OrderLineView struct {
	VariantID      uuid.UUID `json:"variant_id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

type OrderView struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uuid.UUID       `json:"user_id"`
	Status        string          `json:"status"`
	SubtotalCents int64           `json:"subtotal_cents"`
	ShippingCents int64           `json:"shipping_cents"`
	TaxCents      int64           `json:"tax_cents"`
	DiscountCents int64           `json:"discount_cents"`
	TotalCents    int64           `json:"total_cents"`
	PromoCode     *string         `json:"promo_code,omitempty"`
	Lines         []OrderLineView `json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderListItem struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"total_cents"`
	CreatedAt   time.Time `json:"created_at"`
}
