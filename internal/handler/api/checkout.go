package api

import (
	"errors"
	"net/http"

	"storefront/internal/domain/inventory"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

var errMissingIdentity = errs.New("user identity missing from context")

type CheckoutHandler struct {
	checkout commands.CheckoutCommands
}

func NewCheckoutHandler(checkout commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// @Summary Place order
// @Description Create an order from the authenticated user's cart
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PlaceOrderRequest true "Checkout request"
// @Success 201 {object} resdto.OrderPlacedResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Router /orders [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Unauthorized", nil)
		return
	}
	email, _ := middleware.GetUserEmail(c)

	var req reqdto.PlaceOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	params := commands.PlaceOrderParams{
		UserID:            userID,
		UserEmail:         email,
		ShippingMethodID:  req.ShippingMethodID,
		ShippingAddressID: req.ShippingAddressID,
		PromoCode:         req.GetPromoCode(),
	}

	result, err := h.checkout.PlaceOrder(c.Request.Context(), params)
	if err != nil {
		var shortage *inventory.InsufficientStockError
		switch {
		case errors.Is(err, commands.ErrEmptyCart):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cart is empty", nil)
		case errors.Is(err, commands.ErrShippingMethodNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shipping method not found", nil)
		case errors.As(err, &shortage):
			httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient stock", gin.H{
				"variant_id": shortage.VariantID,
				"available":  shortage.Available,
				"requested":  shortage.Requested,
			})
		case errors.Is(err, commands.ErrVariantNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Variant not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPlaceOrderResult(result))
}
