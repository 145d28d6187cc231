package response

import (
	"storefront/internal/domain/promo"

	"github.com/google/uuid"
)

type PromoValidationResponse struct {
	Valid           bool      `json:"valid"`
	Code            string    `json:"code"`
	PromoID         uuid.UUID `json:"promoId,omitempty"`
	DiscountCents   int64     `json:"discountCents"`
	FinalTotalCents int64     `json:"finalTotalCents"`
	// EligibleProductIDs lists the products the discount was scoped to, so
	// clients can mark them in the cart.
	EligibleProductIDs []uuid.UUID `json:"eligibleProductIds,omitempty"`
	Reason             string      `json:"reason,omitempty"`
}

func FromPromoEval(r *promo.EvalResult) *PromoValidationResponse {
	return &PromoValidationResponse{
		Valid:              true,
		Code:               r.Code.String(),
		PromoID:            r.PromoID,
		DiscountCents:      r.DiscountCents,
		FinalTotalCents:    r.FinalTotalCents,
		EligibleProductIDs: r.EligibleProductIDs,
	}
}

func FromPromoRejection(code, reason string) *PromoValidationResponse {
	return &PromoValidationResponse{
		Valid:  false,
		Code:   code,
		Reason: reason,
	}
}
