package health_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/internal/health"
	"github.com/studytrack/studytrack/pkg/database"
)

func setupHealthTest(t *testing.T) (*health.Handler, func()) {
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/test.db"
	if err := database.InitDatabase(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}

	handler := health.NewHandler()

	cleanup := func() {
		database.Close()
	}

	return handler, cleanup
}

func TestHealthz_AlwaysReturnsOK(t *testing.T) {
	handler, cleanup := setupHealthTest(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", handler.Healthz)

	req := httptest.NewRequest("GET", "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := resp.Body.String()
	if body != `{"status":"alive"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_HealthySystem(t *testing.T) {
	handler, cleanup := setupHealthTest(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", handler.Readyz)

	req := httptest.NewRequest("GET", "/readyz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := resp.Body.String()
	if body != `{"status":"ready"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_DatabaseClosed(t *testing.T) {
	handler, cleanup := setupHealthTest(t)
	cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", handler.Readyz)

	req := httptest.NewRequest("GET", "/readyz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != 503 {
		t.Fatalf("expected 503 after database close, got %d", resp.Code)
	}
}
