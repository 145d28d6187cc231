package api

import (
	"errors"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"
	"storefront/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PromoHandler struct {
	promos commands.PromoEngine
}

func NewPromoHandler(promos commands.PromoEngine) *PromoHandler {
	return &PromoHandler{promos: promos}
}

// @Summary Validate promo code
// @Description Evaluate a promo code against cart items without consuming usage
// @Tags promos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ValidatePromoRequest true "Validation request"
// @Success 200 {object} resdto.PromoValidationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /promos/validate [post]
func (h *PromoHandler) ValidatePromo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Unauthorized", nil)
		return
	}

	var req reqdto.ValidatePromoRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	result, err := h.promos.Evaluate(
		c.Request.Context(), req.GetCode(), userID, req.ToLineItems(), req.SubtotalCents(),
	)
	if err != nil {
		var invalid *commands.PromoInvalidError
		if errors.As(err, &invalid) {
			// Rejection is a successful validation outcome, not an API error.
			c.JSON(http.StatusOK, resdto.FromPromoRejection(invalid.Code, invalid.Reason))
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPromoEval(result))
}
