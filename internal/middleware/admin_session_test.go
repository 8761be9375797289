package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/config"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

func mustMakeJWT(t *testing.T, secret string, sub int64, role string, signingMethod jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  1,
		"exp":  9999999999,
	}

	token := jwt.NewWithClaims(signingMethod, claims)

	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func runRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/admin/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func guardedEcho(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.GET("/admin/protected", func(c echo.Context) error {
		adminID, _ := c.Get(middleware.CtxAdminIDKey).(int64)
		return c.JSON(http.StatusOK, map[string]int64{"admin_id": adminID})
	}, middleware.AdminSessionGuard(cfg))
	return e
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

// Authorizationなし => 401
func TestMiddleware_AdminSessionGuard_NoHeader(t *testing.T) {
	e := guardedEcho(config.Config{JWTSecret: "test-secret"})

	rec := runRequest(t, e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}

// Bearer形式じゃない => 401
func TestMiddleware_AdminSessionGuard_BadScheme(t *testing.T) {
	e := guardedEcho(config.Config{JWTSecret: "test-secret"})

	rec := runRequest(t, e, "Token abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}

// 署名違い => 401
func TestMiddleware_AdminSessionGuard_BadSignature(t *testing.T) {
	e := guardedEcho(config.Config{JWTSecret: "correct-secret"})

	raw := mustMakeJWT(t, "wrong-secret", 1, "ADMIN", jwt.SigningMethodHS256)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}

// アルゴリズム違い（HS512）=> 401
func TestMiddleware_AdminSessionGuard_WrongAlg(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := guardedEcho(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, 1, "ADMIN", jwt.SigningMethodHS512)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}

// ADMIN以外のロール => 403
func TestMiddleware_AdminSessionGuard_NonAdminRole(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := guardedEcho(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, 1, "USER", jwt.SigningMethodHS256)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin only", decodeMWError(t, rec).Error)
}

// 正常：ctxに管理者IDが入る
func TestMiddleware_AdminSessionGuard_Success_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := guardedEcho(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, 123, "ADMIN", jwt.SigningMethodHS256)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int64
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, int64(123), body["admin_id"])
}
