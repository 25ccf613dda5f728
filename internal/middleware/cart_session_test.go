package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"storefront/internal/middleware"
)

// 初回アクセス：uuidのcookieが発行されてctxにも入る
func TestMiddleware_CartSession_MintsCookie(t *testing.T) {
	e := echo.New()

	var gotSID string
	e.GET("/cart", func(c echo.Context) error {
		gotSID, _ = c.Get(middleware.CtxCartSessionKey).(string)
		return c.NoContent(http.StatusOK)
	}, middleware.CartSession())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	//uuid形式のセッションID
	_, err := uuid.Parse(gotSID)
	assert.NoError(t, err)

	//set-cookieの値と一致
	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, ck := range cookies {
		if ck.Name == "cart_session" {
			found = ck
		}
	}
	if assert.NotNil(t, found) {
		assert.Equal(t, gotSID, found.Value)
		assert.True(t, found.HttpOnly)
	}
}

// 2回目以降：既存のcookieをそのまま使う（発行し直さない）
func TestMiddleware_CartSession_ReusesExistingCookie(t *testing.T) {
	e := echo.New()

	var gotSID string
	e.GET("/cart", func(c echo.Context) error {
		gotSID, _ = c.Get(middleware.CtxCartSessionKey).(string)
		return c.NoContent(http.StatusOK)
	}, middleware.CartSession())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "existing-session"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "existing-session", gotSID)
	assert.Empty(t, rec.Result().Cookies())
}
