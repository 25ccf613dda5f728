package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxCartSessionKey = "cart_session" // string

	cartSessionCookie = "cart_session"
	cartSessionMaxAge = 30 * 24 * time.Hour
)

// カート用セッションID。
// cookieが無ければuuidを発行してセットする（初回アクセスで空カートができる扱い）。
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cartSessionCookie); err == nil && ck.Value != "" {
				sid = ck.Value
			}

			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cartSessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cartSessionMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxCartSessionKey, sid)
			return next(c)
		}
	}
}
