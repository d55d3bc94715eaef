package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func identityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity())
	router.GET("/api/v1/cv/documents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserIDFromContext(c)})
	})
	router.GET("/api/v1/cv/documents/:id/download", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestIdentityRejectsMissingHeader(t *testing.T) {
	router := identityRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cv/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestIdentityStoresUserID(t *testing.T) {
	router := identityRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cv/documents", nil)
	req.Header.Set("X-User-Id", "user-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"user":"user-42"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestIdentityExemptsDownloadRoute(t *testing.T) {
	router := identityRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cv/documents/doc-1/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected download to pass without identity, got %d", resp.Code)
	}
}

func TestIdentityAllowsOptionsPreflight(t *testing.T) {
	router := identityRouter()
	router.OPTIONS("/api/v1/cv/documents", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cv/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
