//go:build unit

package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/inventory"
	"storefront/internal/domain/order"
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

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCheckout *commandsmock.MockCheckoutCommands
	handler      *api.CheckoutHandler
	userID       uuid.UUID
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCheckout = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.handler = api.NewCheckoutHandler(s.mockCheckout)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_email", "shopper@example.com")
		c.Set("user_role", middleware.RoleCustomer)
		c.Next()
	}

	s.router.POST("/orders", authMiddleware, s.handler.PlaceOrder)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

// ================================================================================
// TestPlaceOrder
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestPlaceOrder() {
	url := "/orders"

	reqBody := reqdto.PlaceOrderRequest{
		ShippingMethodID:  uuid.New(),
		ShippingAddressID: uuid.New(),
	}
	expectedResult := &commands.PlaceOrderResult{
		OrderID:       uuid.New(),
		OrderNumber:   "ORD-20260315-abcd1234",
		SubtotalCents: 10000,
		ShippingCents: 500,
		TaxCents:      1500,
		TotalCents:    12000,
		Status:        order.StatusPending,
	}

	s.Run("success: returns 201 Created with order totals", func() {
		s.mockCheckout.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
			Return(expectedResult, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.OrderPlacedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(expectedResult.OrderID, response.OrderID)
		s.Equal(expectedResult.OrderNumber, response.OrderNumber)
		s.Equal("pending", response.Status)
		s.Equal(int64(12000), response.TotalCents)
		s.False(response.PromoApplied)
	})

	s.Run("success: forwards identity and promo code to the usecase", func() {
		code := "SAVE10"
		withPromo := reqBody
		withPromo.PromoCode = &code

		s.mockCheckout.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, params commands.PlaceOrderParams) (*commands.PlaceOrderResult, error) {
				s.Equal(s.userID, params.UserID)
				s.Equal("shopper@example.com", params.UserEmail)
				s.Require().NotNil(params.PromoCode)
				s.Equal("SAVE10", *params.PromoCode)
				return expectedResult, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, withPromo, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: shipping_method_id (required)", mutate: testutil.Field("shipping_method_id", nil)},
			{name: "missing field: shipping_address_id (required)", mutate: testutil.Field("shipping_address_id", nil)},
			{name: "malformed shipping_method_id", mutate: testutil.Field("shipping_method_id", "not-a-uuid")},
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

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "empty cart",
				commandsError:  commands.ErrEmptyCart,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Cart is empty",
			},
			{
				name:           "unknown shipping method",
				commandsError:  commands.ErrShippingMethodNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Shipping method not found",
			},
			{
				name:           "unknown variant",
				commandsError:  commands.ErrVariantNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Variant not found",
			},
			{
				name:           "checkout failed",
				commandsError:  commands.ErrCheckoutFailed,
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal error",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCheckout.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 409 Conflict with shortage detail on insufficient stock", func() {
		variantID := uuid.New()
		shortage := &inventory.InsufficientStockError{
			VariantID: variantID,
			Available: 1,
			Requested: 3,
		}
		s.mockCheckout.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
			Return(nil, shortage).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Insufficient stock")

		var body struct {
			Detail struct {
				VariantID string `json:"variant_id"`
				Available int    `json:"available"`
				Requested int    `json:"requested"`
			} `json:"detail"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(variantID.String(), body.Detail.VariantID)
		s.Equal(1, body.Detail.Available)
		s.Equal(3, body.Detail.Requested)
	})
}
