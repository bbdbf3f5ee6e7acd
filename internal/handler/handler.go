// Package handler exposes the HTTP API with echo.
package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/middleware"
	"github.com/robaa12/user-service/internal/service"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	payments      service.PaymentService
	orderPayments service.OrderPaymentService
	stores        service.StoreService
	themes        service.ThemeService
	plans         service.PlanService
	users         service.UserService
	logger        zerolog.Logger
}

// New creates a Handler over the given services.
func New(
	payments service.PaymentService,
	orderPayments service.OrderPaymentService,
	stores service.StoreService,
	themes service.ThemeService,
	plans service.PlanService,
	users service.UserService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		payments:      payments,
		orderPayments: orderPayments,
		stores:        stores,
		themes:        themes,
		plans:         plans,
		users:         users,
		logger:        logger,
	}
}

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domain.Invalid("", err.Error())
	}
	return nil
}

// Register wires all routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo, metrics *middleware.Metrics, health func() map[string]error) {
	e.POST("/payment", h.CreateSubscriptionPayment)
	e.GET("/payment/callback", h.PaymentCallback)
	e.POST("/payment/order", h.CreateOrderPayment)
	e.GET("/payment/order/:chargeId", h.RetrieveOrderPayment)

	e.POST("/store", h.CreateStore)
	e.GET("/store/:id", h.GetStore)
	e.GET("/store/slug/:slug", h.GetStoreBySlug)
	e.GET("/store/user/:userId", h.ListStoresByUser)
	e.DELETE("/store/:id", h.DeleteStore)

	e.POST("/store/theme", h.UpsertTheme)
	e.GET("/store/theme/:storeId", h.ListThemes)
	e.GET("/store/theme/:storeId/active", h.ActiveTheme)
	e.GET("/store/theme/slug/:slug/active", h.ActiveThemeBySlug)
	e.DELETE("/store/theme/:storeId/:id", h.DeleteTheme)

	e.GET("/user/:id", h.GetUser)
	e.DELETE("/user/:id", h.DeleteUser)

	e.GET("/plans", h.ListPlans)
	e.GET("/plans/:id", h.GetPlan)
	e.POST("/plans", h.CreatePlan)

	e.GET("/health", h.Health(health))
	if metrics != nil {
		e.GET("/metrics", metrics.Handler())
	}
}

// envelope is the response shape of every endpoint.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Message: message, Data: data})
}

// ErrorHandler converts errors into the {message, data} envelope using
// the domain error taxonomy. Internal details stay in the logs.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := statusFor(err)
		message := domain.ErrorMessage(err)

		// echo's own errors (404 route, method not allowed) pass through.
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}

		if status >= 500 {
			log := middleware.GetLogger(c, logger)
			log.Error().Err(err).Msg("request failed")
		}

		if werr := respond(c, status, message, nil); werr != nil {
			log := middleware.GetLogger(c, logger)
			log.Error().Err(werr).Msg("failed to write error response")
		}
	}
}

func statusFor(err error) int {
	switch domain.ErrorCode(err) {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EGATEWAY:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Health reports dependency status. Degraded dependencies flip the
// status code to 503 so load balancers stop routing here.
func (h *Handler) Health(checks func() map[string]error) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := http.StatusOK
		result := make(map[string]string)

		if checks != nil {
			for name, err := range checks() {
				if err != nil {
					status = http.StatusServiceUnavailable
					result[name] = "down"
					continue
				}
				result[name] = "up"
			}
		}

		message := "healthy"
		if status != http.StatusOK {
			message = "degraded"
		}
		return respond(c, status, message, result)
	}
}
