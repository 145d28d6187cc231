package response

import (
	"time"

	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderLineResponse struct {
	VariantID      uuid.UUID `json:"variantId"`
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
}

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"orderNumber"`
	UserID        uuid.UUID           `json:"userId"`
	Status        string              `json:"status"`
	SubtotalCents int64               `json:"subtotalCents"`
	ShippingCents int64               `json:"shippingCents"`
	TaxCents      int64               `json:"taxCents"`
	DiscountCents int64               `json:"discountCents"`
	TotalCents    int64               `json:"totalCents"`
	PromoCode     *string             `json:"promoCode,omitempty"`
	Lines         []OrderLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type OrderListResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"totalCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromOrderView(rm *queries.OrderView) *OrderResponse {
	resp := &OrderResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromOrderListItem(rm *queries.OrderListItem) *OrderListResponse {
	resp := &OrderListResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}
