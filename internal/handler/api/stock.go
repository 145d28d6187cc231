package api

import (
	"net/http"

	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/infra"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	stockQueries queries.StockQueries
}

func NewStockHandler(stockQueries queries.StockQueries) *StockHandler {
	return &StockHandler{stockQueries: stockQueries}
}

// @Summary Get variant stock
// @Description Current stock counters for one variant
// @Tags stock
// @Produce json
// @Param id path string true "Variant ID"
// @Success 200 {object} resdto.VariantStockResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /stock/{id} [get]
func (h *StockHandler) GetVariantStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.stockQueries.GetVariant(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVariantStockView(view))
}

// @Summary List low stock variants
// @Description Variants at or below their reorder level
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.VariantStockResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/stock/low [get]
func (h *StockHandler) ListLowStock(c *gin.Context) {
	views, err := h.stockQueries.LowStockItems(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVariantStockViews(views))
}

// @Summary List out-of-stock variants
// @Description Variants with no available stock
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.VariantStockResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/stock/out [get]
func (h *StockHandler) ListOutOfStock(c *gin.Context) {
	views, err := h.stockQueries.OutOfStockItems(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVariantStockViews(views))
}
