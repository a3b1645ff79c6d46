package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-service/utils"
)

const secret = "test-secret"

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "role": CurrentRole(c)})
	})
	r.GET("/admin", AuthMiddleware(secret), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func serve(r *gin.Engine, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine()
	userTok, _ := utils.GenerateToken("u1", "user", secret, time.Hour)
	adminTok, _ := utils.GenerateToken("a1", "admin", secret, time.Hour)
	otherTok, _ := utils.GenerateToken("u1", "user", "other-secret", time.Hour)

	if w := serve(r, "/me", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}
	if w := serve(r, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+otherTok)
	}); w.Code != http.StatusUnauthorized {
		t.Fatalf("foreign token: %d", w.Code)
	}

	w := serve(r, "/me", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: userTok})
	})
	if w.Code != http.StatusOK || w.Body.String() != `{"id":"u1","role":"user"}` {
		t.Fatalf("cookie auth: %d %s", w.Code, w.Body)
	}

	// the cookie wins over the header
	w = serve(r, "/me", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: adminTok})
		req.Header.Set("Authorization", "Bearer "+userTok)
	})
	if w.Body.String() != `{"id":"a1","role":"admin"}` {
		t.Fatalf("cookie precedence: %s", w.Body)
	}

	if w := serve(r, "/admin", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+userTok)
	}); w.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: %d", w.Code)
	}
	if w := serve(r, "/admin", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+adminTok)
	}); w.Code != http.StatusNoContent {
		t.Fatalf("admin route: %d", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	w := serve(newEngine(), "/panic", nil)
	if w.Code != http.StatusInternalServerError || w.Body.String() != `{"error":"Internal server error"}` {
		t.Fatalf("panic: %d %s", w.Code, w.Body)
	}
}
