//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"storefront/internal/handler/api"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/middleware"
	"storefront/internal/infra"
	"storefront/internal/usecase/queries"
	"storefront/tests/common/httptest"
	queriesmock "storefront/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type StockHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockStockQueries
	handler     *api.StockHandler
}

func (s *StockHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockStockQueries(s.mockCtrl)
	s.handler = api.NewStockHandler(s.mockQueries)

	// Admin routes sit behind the auth middleware; variant stock is public.
	adminMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", middleware.RoleAdmin)
		c.Next()
	}

	s.router.GET("/stock/:id", s.handler.GetVariantStock)
	s.router.GET("/admin/stock/low", adminMiddleware, s.handler.ListLowStock)
	s.router.GET("/admin/stock/out", adminMiddleware, s.handler.ListOutOfStock)
}

func (s *StockHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestStockHandlerSuite(t *testing.T) {
	suite.Run(t, new(StockHandlerTestSuite))
}

func stockView(variantID uuid.UUID, stock, reserved, reorder int32) *queries.VariantStockView {
	return &queries.VariantStockView{
		VariantID:        variantID,
		ProductID:        uuid.New(),
		ProductName:      "Linen Shirt",
		Colour:           "white",
		Size:             "M",
		StockQuantity:    stock,
		ReservedQuantity: reserved,
		AvailableStock:   stock - reserved,
		ReorderLevel:     reorder,
	}
}

// ================================================================================
// TestGetVariantStock
// ================================================================================

func (s *StockHandlerTestSuite) TestGetVariantStock() {
	variantID := uuid.New()
	url := "/stock/" + variantID.String()

	s.Run("success: returns 200 OK with stock counters", func() {
		view := stockView(variantID, 10, 3, 5)
		s.mockQueries.EXPECT().GetVariant(gomock.Any(), variantID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.VariantStockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)

		expected := resdto.VariantStockResponse{
			VariantID:        variantID,
			ProductID:        view.ProductID,
			ProductName:      "Linen Shirt",
			Colour:           "white",
			Size:             "M",
			StockQuantity:    10,
			ReservedQuantity: 3,
			AvailableStock:   7,
			ReorderLevel:     5,
			InStock:          true,
			NeedsReorder:     false,
		}
		if diff := cmp.Diff(expected, response); diff != "" {
			s.Failf("response mismatch", "(-want +got):\n%s", diff)
		}
	})

	s.Run("success: reorder flag trips at the reorder level", func() {
		view := stockView(variantID, 8, 3, 5)
		s.mockQueries.EXPECT().GetVariant(gomock.Any(), variantID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.VariantStockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.InStock)
		s.True(response.NeedsReorder)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/stock/invalid-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found for missing variant", func() {
		notFound := infra.WrapRepoErr("variant lookup", errors.New("no rows"), infra.KindNotFound)
		s.mockQueries.EXPECT().GetVariant(gomock.Any(), variantID).
			Return(nil, notFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: returns 500 Internal Server Error on query error", func() {
		s.mockQueries.EXPECT().GetVariant(gomock.Any(), variantID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}

// ================================================================================
// TestListLowStock
// ================================================================================

func (s *StockHandlerTestSuite) TestListLowStock() {
	url := "/admin/stock/low"

	s.Run("success: returns variants at or below reorder level", func() {
		views := []*queries.VariantStockView{
			stockView(uuid.New(), 4, 0, 5),
			stockView(uuid.New(), 5, 3, 5),
		}
		s.mockQueries.EXPECT().LowStockItems(gomock.Any()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []*resdto.VariantStockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.True(response[0].NeedsReorder)
		s.True(response[1].NeedsReorder)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: returns 500 Internal Server Error on query error", func() {
		s.mockQueries.EXPECT().LowStockItems(gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}

// ================================================================================
// TestListOutOfStock
// ================================================================================

func (s *StockHandlerTestSuite) TestListOutOfStock() {
	url := "/admin/stock/out"

	s.Run("success: returns fully reserved and sold out variants", func() {
		views := []*queries.VariantStockView{
			stockView(uuid.New(), 0, 0, 5),
			stockView(uuid.New(), 3, 3, 5),
		}
		s.mockQueries.EXPECT().OutOfStockItems(gomock.Any()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []*resdto.VariantStockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.False(response[0].InStock)
		s.False(response[1].InStock)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
