package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/orders"
	"github.com/robaa12/user-service/internal/payment"
)

type orderPaymentResponse struct {
	Order       *orders.Order             `json:"order"`
	Link        *domain.StoreOrderPayment `json:"order_payment"`
	RedirectURL string                    `json:"redirect_url"`
}

// CreateOrderPayment creates a storefront order on the order service and
// opens a charge for it in one request.
func (h *Handler) CreateOrderPayment(c echo.Context) error {
	var draft orders.OrderDraft
	if err := c.Bind(&draft); err != nil {
		return domain.Invalid("handler.CreateOrderPayment", "invalid request body")
	}
	if err := c.Validate(&draft); err != nil {
		return err
	}

	result, err := h.orderPayments.CreateOrderPayment(c.Request().Context(), draft)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "order payment created", orderPaymentResponse{
		Order:       result.Order,
		Link:        result.Link,
		RedirectURL: result.RedirectURL,
	})
}

type orderPaymentStatusResponse struct {
	Charge *payment.Charge           `json:"charge"`
	Order  *orders.Order             `json:"order"`
	Store  *domain.Store             `json:"store"`
	Link   *domain.StoreOrderPayment `json:"order_payment"`
}

// RetrieveOrderPayment reports the charge's current processor state for
// a previously created order payment.
func (h *Handler) RetrieveOrderPayment(c echo.Context) error {
	chargeID := c.Param("chargeId")
	if chargeID == "" {
		return domain.Invalid("handler.RetrieveOrderPayment", "charge id is required")
	}

	status, err := h.orderPayments.RetrieveOrderPayment(c.Request().Context(), chargeID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "order payment retrieved", orderPaymentStatusResponse{
		Charge: status.Charge,
		Order:  status.Order,
		Store:  status.Store,
		Link:   status.Link,
	})
}
