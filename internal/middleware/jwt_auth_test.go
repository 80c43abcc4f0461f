package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/unilink-app/unilink/backend/internal/auth"
)

func runProtected(t *testing.T, verifier *auth.Verifier, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTAuthMiddleware(verifier)(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("userID").(string))
	})
	return rec, handler(c)
}

func TestJWTAuthMiddleware(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", time.Hour)
	token, err := verifier.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	t.Run("valid token passes claims through", func(t *testing.T) {
		rec, err := runProtected(t, verifier, "Bearer "+token)
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK || rec.Body.String() != "user-1" {
			t.Errorf("got %d %q, want 200 user-1", rec.Code, rec.Body.String())
		}
	})

	rejections := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "malformed header", header: "NotBearer " + token},
		{name: "garbage token", header: "Bearer not-a-token"},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runProtected(t, verifier, tt.header)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusUnauthorized {
				t.Errorf("error = %v, want 401 HTTPError", err)
			}
		})
	}

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := auth.NewVerifier("test-secret", -time.Minute)
		staleToken, err := expired.Issue("user-1", "alice")
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		_, err = runProtected(t, verifier, "Bearer "+staleToken)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("error = %v, want 401 HTTPError", err)
		}
	})
}
