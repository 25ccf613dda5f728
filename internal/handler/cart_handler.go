package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// /cart配下を登録。全ルートがセッションcookie前提。
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.Use(middleware.CartSession())

	g.GET("", h.getCart)
	g.POST("/items/:id", h.addItem)
	g.POST("/items/:id/quantity", h.addItemWithQuantity)
	g.PUT("/items/:id", h.updateItem)
	g.DELETE("/items/:id", h.removeItem)
}

func getSessionIDFromContext(c echo.Context) (string, bool) {
	v := c.Get(middleware.CtxCartSessionKey)
	s, ok := v.(string)
	return s, ok && s != ""
}

func cartProductID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (h *CartHandler) getCart(c echo.Context) error {
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), sid)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ワンクリック追加（数量1）
func (h *CartHandler) addItem(c echo.Context) error {
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	productID, err := cartProductID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Add(c.Request().Context(), sid, productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 数量指定の追加。quantityはフォームフィールドで受ける。
func (h *CartHandler) addItemWithQuantity(c echo.Context) error {
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	productID, err := cartProductID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.AddWithQuantity(c.Request().Context(), sid, productID, c.FormValue("quantity"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	productID, err := cartProductID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Update(c.Request().Context(), sid, productID, c.FormValue("quantity"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	productID, err := cartProductID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Remove(c.Request().Context(), sid, productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
