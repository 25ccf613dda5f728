package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

// カテゴリ閲覧API
type CategoryHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CatalogUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/categories", h.list)
	e.GET("/categories/:slug", h.detail)
}

type CategoryListResponse struct {
	Categories []model.CategoryWithCount `json:"categories"`
}

func (h *CategoryHandler) list(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CategoryListResponse{Categories: categories})
}

func (h *CategoryHandler) detail(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid slug"})
	}

	out, err := h.uc.CategoryDetail(c.Request().Context(), slug, c.QueryParams())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
