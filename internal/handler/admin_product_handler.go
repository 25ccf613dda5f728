package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

// スタッフ向け商品フォームの入力。
type ProductSaveRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	SKU         string           `json:"sku"`
	CategoryID  *int64           `json:"category_id"`
	BrandID     *int64           `json:"brand_id"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Stock       int64            `json:"stock"`
	IsActive    bool             `json:"is_active"`
	IsFeatured  bool             `json:"is_featured"`
}

func (r ProductSaveRequest) toInput() usecase.StaffProductInput {
	return usecase.StaffProductInput{
		Name:        r.Name,
		Description: r.Description,
		SKU:         r.SKU,
		CategoryID:  r.CategoryID,
		BrandID:     r.BrandID,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		IsFeatured:  r.IsFeatured,
	}
}

// /admin/products をまとめる
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録（JWT＋スタッフのみ）
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.StaffRoleGuard())

	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.GET("/audit-logs", h.listAuditLogs)
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	return id, ok && id > 0
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductSaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	created, err := h.uc.StaffCreateProduct(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductSaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.StaffUpdateProduct(c.Request().Context(), userID, id, req.toInput()); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "product updated successfully"})
}

type AuditLogListResponse struct {
	AuditLogs []model.AuditLog `json:"audit_logs"`
}

func (h *AdminProductHandler) listAuditLogs(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in := usecase.AuditLogListInput{
		Action:      c.QueryParam("action"),
		ActorUserID: queryInt64(c, "actor"),
		ResourceID:  queryInt64(c, "resource_id"),
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		in.Limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil {
		in.Offset = v
	}

	logs, err := h.uc.StaffListAuditLogs(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, AuditLogListResponse{AuditLogs: logs})
}

// 数値クエリパラメータ。壊れた値はnil扱い。
func queryInt64(c echo.Context, name string) *int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.StaffDeleteProduct(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted successfully"})
}
