//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/promo"
	"storefront/internal/handler/api"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/middleware"
	"storefront/internal/usecase/commands"
	"storefront/tests/common/httptest"
	"storefront/tests/common/testutil"
	commandsmock "storefront/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PromoHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockCtrl   *gomock.Controller
	mockPromos *commandsmock.MockPromoEngine
	handler    *api.PromoHandler
	userID     uuid.UUID
}

func (s *PromoHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockPromos = commandsmock.NewMockPromoEngine(s.mockCtrl)
	s.handler = api.NewPromoHandler(s.mockPromos)
	s.userID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", middleware.RoleCustomer)
		c.Next()
	}

	s.router.POST("/promos/validate", authMiddleware, s.handler.ValidatePromo)
}

func (s *PromoHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPromoHandlerSuite(t *testing.T) {
	suite.Run(t, new(PromoHandlerTestSuite))
}

// ================================================================================
// TestValidatePromo
// ================================================================================

func (s *PromoHandlerTestSuite) TestValidatePromo() {
	url := "/promos/validate"

	productID := uuid.New()
	reqBody := reqdto.ValidatePromoRequest{
		Code: "SAVE10",
		Items: []reqdto.PromoItemRequest{
			{ProductID: productID, Quantity: 2, SubtotalCents: 10000},
		},
	}

	s.Run("success: valid code returns the discount", func() {
		promoID := uuid.New()
		s.mockPromos.EXPECT().
			Evaluate(gomock.Any(), "SAVE10", s.userID, gomock.Any(), int64(10000)).
			Return(&promo.EvalResult{
				PromoID:            promoID,
				Code:               promo.Code("SAVE10"),
				DiscountCents:      1000,
				FinalTotalCents:    9000,
				EligibleProductIDs: []uuid.UUID{productID},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PromoValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Valid)
		s.Equal("SAVE10", response.Code)
		s.Equal(promoID, response.PromoID)
		s.Equal(int64(1000), response.DiscountCents)
		s.Equal(int64(9000), response.FinalTotalCents)
		s.Equal([]uuid.UUID{productID}, response.EligibleProductIDs)
		s.Empty(response.Reason)
	})

	s.Run("success: rejected code is a 200 with the reason", func() {
		s.mockPromos.EXPECT().
			Evaluate(gomock.Any(), "SAVE10", s.userID, gomock.Any(), int64(10000)).
			Return(nil, &commands.PromoInvalidError{Code: "SAVE10", Reason: "expired"}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PromoValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.Valid)
		s.Equal("SAVE10", response.Code)
		s.Equal("expired", response.Reason)
		s.Zero(response.DiscountCents)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: code (required)", mutate: testutil.Field("code", nil)},
			{name: "missing field: items (required)", mutate: testutil.Field("items", nil)},
			{name: "empty items", mutate: testutil.Field("items", []any{})},
			{name: "zero quantity item", mutate: testutil.Field("items", []map[string]any{
				{"product_id": productID.String(), "quantity": 0, "subtotal_cents": 10000},
			})},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: returns 500 Internal Server Error on engine error", func() {
		s.mockPromos.EXPECT().
			Evaluate(gomock.Any(), "SAVE10", s.userID, gomock.Any(), int64(10000)).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}
