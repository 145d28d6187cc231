package response

import (
	"storefront/internal/usecase/commands"

	"github.com/google/uuid"
)

type OrderPlacedResponse struct {
	OrderID       uuid.UUID `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	Status        string    `json:"status"`
	SubtotalCents int64     `json:"subtotalCents"`
	ShippingCents int64     `json:"shippingCents"`
	TaxCents      int64     `json:"taxCents"`
	DiscountCents int64     `json:"discountCents"`
	TotalCents    int64     `json:"totalCents"`
	PromoApplied  bool      `json:"promoApplied"`
	PromoReason   string    `json:"promoReason,omitempty"`
}

func FromPlaceOrderResult(r *commands.PlaceOrderResult) *OrderPlacedResponse {
	return &OrderPlacedResponse{
		OrderID:       r.OrderID,
		OrderNumber:   r.OrderNumber,
		Status:        r.Status.String(),
		SubtotalCents: r.SubtotalCents,
		ShippingCents: r.ShippingCents,
		TaxCents:      r.TaxCents,
		DiscountCents: r.DiscountCents,
		TotalCents:    r.TotalCents,
		PromoApplied:  r.PromoApplied,
		PromoReason:   r.PromoReason,
	}
}
