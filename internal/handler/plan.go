package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/robaa12/user-service/internal/domain"
)

type createPlanRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	NumOfStores int32   `json:"num_of_stores" validate:"required,gt=0"`
}

func (h *Handler) CreatePlan(c echo.Context) error {
	var req createPlanRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("handler.CreatePlan", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	plan, err := h.plans.CreatePlan(c.Request().Context(), domain.CreatePlanParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		NumOfStores: req.NumOfStores,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "plan created", plan)
}

func (h *Handler) GetPlan(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	plan, err := h.plans.GetPlan(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "plan retrieved", plan)
}

func (h *Handler) ListPlans(c echo.Context) error {
	plans, err := h.plans.ListPlans(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "plans retrieved", plans)
}
