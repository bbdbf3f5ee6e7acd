package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/service"
)

type createStoreRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	StoreName     string `json:"store_name" validate:"required"`
	Description   string `json:"description"`
	BusinessPhone string `json:"business_phone"`
	CategoryID    int64  `json:"category_id"`
	StoreCurrency string `json:"store_currency"`
}

// CreateStore provisions a store for a user, subject to their plan's
// store quota.
func (h *Handler) CreateStore(c echo.Context) error {
	var req createStoreRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("handler.CreateStore", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	store, err := h.stores.CreateStore(c.Request().Context(), service.CreateStoreInput{
		UserID:        req.UserID,
		StoreName:     req.StoreName,
		Description:   req.Description,
		BusinessPhone: req.BusinessPhone,
		CategoryID:    req.CategoryID,
		StoreCurrency: req.StoreCurrency,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "store created", store)
}

func (h *Handler) GetStore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	store, err := h.stores.GetStore(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "store retrieved", store)
}

func (h *Handler) GetStoreBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return domain.Invalid("handler.GetStoreBySlug", "slug is required")
	}

	store, err := h.stores.GetStoreBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "store retrieved", store)
}

func (h *Handler) ListStoresByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	stores, err := h.stores.ListStoresByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "stores retrieved", stores)
}

func (h *Handler) DeleteStore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.stores.DeleteStore(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "store deleted", nil)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("handler.pathID", name+" must be a positive integer")
	}
	return id, nil
}
