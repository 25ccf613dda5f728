package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse は { message: string } の形。
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 公開カタログAPI（トップ・一覧・詳細）
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.index)
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
}

type IndexResponse struct {
	FeaturedProducts []model.Product `json:"featured_products"`
}

func (h *ProductHandler) index(c echo.Context) error {
	items, err := h.uc.FeaturedProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, IndexResponse{FeaturedProducts: items})
}

func (h *ProductHandler) list(c echo.Context) error {
	// q / category / brand / min_price / max_price / featured / in_stock /
	// on_sale / sort / page はまとめてusecase側で解釈する
	out, err := h.uc.ListProducts(c.Request().Context(), c.QueryParams())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
