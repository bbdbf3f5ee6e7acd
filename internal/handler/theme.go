package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/robaa12/user-service/internal/domain"
)

type upsertThemeRequest struct {
	StoreID    int64              `json:"store_id" validate:"required,gt=0"`
	Name       string             `json:"name" validate:"required"`
	Img        string             `json:"img"`
	LocalPath  string             `json:"local_path"`
	Pages      []domain.ThemePage `json:"pages"`
	MakeActive bool               `json:"make_active"`
}

// UpsertTheme creates or overwrites the store's theme by name. Making a
// theme active deactivates every other theme of the store.
func (h *Handler) UpsertTheme(c echo.Context) error {
	var req upsertThemeRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("handler.UpsertTheme", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	theme, err := h.themes.UpsertTheme(c.Request().Context(), domain.UpsertThemeParams{
		StoreID:    req.StoreID,
		Name:       req.Name,
		Img:        req.Img,
		LocalPath:  req.LocalPath,
		Pages:      req.Pages,
		MakeActive: req.MakeActive,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "theme saved", theme)
}

func (h *Handler) ListThemes(c echo.Context) error {
	storeID, err := pathID(c, "storeId")
	if err != nil {
		return err
	}

	themes, err := h.themes.ListThemes(c.Request().Context(), storeID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "themes retrieved", themes)
}

func (h *Handler) ActiveTheme(c echo.Context) error {
	storeID, err := pathID(c, "storeId")
	if err != nil {
		return err
	}

	theme, err := h.themes.ActiveTheme(c.Request().Context(), storeID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "active theme retrieved", theme)
}

// DeleteTheme removes a single theme document by id.
func (h *Handler) DeleteTheme(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return domain.Invalid("handler.DeleteTheme", "theme id is required")
	}

	if err := h.themes.DeleteTheme(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "theme deleted", nil)
}

// ActiveThemeBySlug serves the storefront rendering path: the store is
// resolved by slug and its active theme returned.
func (h *Handler) ActiveThemeBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return domain.Invalid("handler.ActiveThemeBySlug", "slug is required")
	}

	theme, err := h.themes.ActiveThemeBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "active theme retrieved", theme)
}
