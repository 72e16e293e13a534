package webhook

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"madfam_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTouchpointsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	// Query validation rejects bad requests before the repository is hit,
	// so a nil pool is safe here.
	h := NewHandler(nil, NewRepository(nil), validator.New())
	engine := gin.New()
	engine.GET("/admin/webhook/touchpoints", h.HandleListTouchpoints)
	return engine
}

func TestHandleListTouchpointsRequiresEmail(t *testing.T) {
	engine := newTouchpointsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/webhook/touchpoints", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("missing email: status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleListTouchpointsRejectsInvalidEmail(t *testing.T) {
	engine := newTouchpointsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/webhook/touchpoints?email=not-an-email", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid email: status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleListTouchpointsRejectsBadLimit(t *testing.T) {
	engine := newTouchpointsRouter(t)

	for _, limit := range []string{"0", "-1", "501", "abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/webhook/touchpoints?email=ana%40example.mx&limit="+limit, nil)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("limit %q: status = %d, want %d", limit, w.Code, http.StatusBadRequest)
		}
	}
}
