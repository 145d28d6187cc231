package request

import (
	"strings"

	"github.com/google/uuid"
)

type PlaceOrderRequest struct {
	ShippingMethodID  uuid.UUID `json:"shipping_method_id" binding:"required"`
	ShippingAddressID uuid.UUID `json:"shipping_address_id" binding:"required"`
	PromoCode         *string   `json:"promo_code,omitempty"`
}

func (r PlaceOrderRequest) GetPromoCode() *string {
	if r.PromoCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.PromoCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
