package request

import (
	"strings"

	"storefront/internal/domain/promo"

	"github.com/google/uuid"
)

type PromoItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required,gt=0"`
	SubtotalCents int64     `json:"subtotal_cents" binding:"required,gte=0"`
}

type ValidatePromoRequest struct {
	Code  string             `json:"code" binding:"required"`
	Items []PromoItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r ValidatePromoRequest) GetCode() string {
	return strings.TrimSpace(r.Code)
}

func (r ValidatePromoRequest) ToLineItems() []promo.LineItem {
	items := make([]promo.LineItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = promo.LineItem{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			SubtotalCents: it.SubtotalCents,
		}
	}
	return items
}

func (r ValidatePromoRequest) SubtotalCents() int64 {
	var sum int64
	for _, it := range r.Items {
		sum += it.SubtotalCents
	}
	return sum
}
