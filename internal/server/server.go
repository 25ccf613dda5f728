package server

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/pkg/logger"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Cart         *handler.CartHandler
	AdminProduct *handler.AdminProductHandler
}

// New はEchoを組み立てて返す。
func New(cfg config.Config, log *logger.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(log))

	h.Product.RegisterRoutes(e)
	h.Category.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, cfg)

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, port string) error {
	addr := port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
