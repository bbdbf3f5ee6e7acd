package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/middleware"
	"github.com/robaa12/user-service/internal/payment"
)

type createPaymentRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	PlanID int64 `json:"plan_id" validate:"required,gt=0"`
}

type paymentSessionResponse struct {
	Payment     *domain.SubscriptionPayment `json:"payment"`
	RedirectURL string                      `json:"redirect_url"`
}

// CreateSubscriptionPayment opens a charge for a plan purchase and
// returns the URL the customer completes the payment at.
func (h *Handler) CreateSubscriptionPayment(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("handler.CreateSubscriptionPayment", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.payments.OpenSubscriptionPayment(c.Request().Context(), req.UserID, req.PlanID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "payment created", paymentSessionResponse{
		Payment:     session.Payment,
		RedirectURL: session.RedirectURL,
	})
}

type reconcileResponse struct {
	ChargeStatus payment.ChargeStatus        `json:"charge_status"`
	Payment      *domain.SubscriptionPayment `json:"payment"`
}

// PaymentCallback is the redirect target the processor sends customers
// back to. It settles the ledger record for the charge in the tap_id
// query parameter.
func (h *Handler) PaymentCallback(c echo.Context) error {
	chargeID := c.QueryParam("tap_id")
	if chargeID == "" {
		return domain.Invalid("handler.PaymentCallback", "tap_id query parameter is required")
	}

	result, err := h.payments.Reconcile(c.Request().Context(), chargeID)
	if err != nil {
		return err
	}

	log := middleware.GetLogger(c, h.logger)
	log.Info().
		Str("charge_id", chargeID).
		Str("charge_status", string(result.ChargeStatus)).
		Msg("payment reconciled")

	return respond(c, http.StatusOK, "payment status updated", reconcileResponse{
		ChargeStatus: result.ChargeStatus,
		Payment:      result.Payment,
	})
}
