package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders の公開API（チェックアウト）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type CustomerInfoRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type CartItemRequest struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Price         float64 `json:"price"`
	Quantity      int64   `json:"quantity"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
}

type OrderCreateRequest struct {
	CustomerInfo CustomerInfoRequest `json:"customerInfo"`
	CartItems    []CartItemRequest   `json:"cartItems"`
	Total        float64             `json:"total"`
}

type OrderCreateResponse struct {
	Success bool   `json:"success"`
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", h.create)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]usecase.OrderItemInput, 0, len(req.CartItems))
	for _, it := range req.CartItems {
		items = append(items, usecase.OrderItemInput{
			Name:          it.Name,
			Brand:         it.Brand,
			Price:         it.Price,
			Quantity:      it.Quantity,
			SelectedSize:  it.SelectedSize,
			SelectedColor: it.SelectedColor,
		})
	}

	orderID, err := h.uc.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		Customer: usecase.CustomerInfoInput{
			Name:    req.CustomerInfo.Name,
			Phone:   req.CustomerInfo.Phone,
			Email:   req.CustomerInfo.Email,
			Address: req.CustomerInfo.Address,
		},
		Items: items,
		Total: req.Total,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OrderCreateResponse{
		Success: true,
		OrderID: orderID,
		Message: "order confirmed",
	})
}
