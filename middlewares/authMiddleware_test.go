package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nguyentoan1998/stockflow_backend/utils"
)

func runAdminOnly(t *testing.T, role string, withRole bool) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/staff", nil)
	if withRole {
		req = req.WithContext(utils.SetUserRoleInContext(req.Context(), role))
	}
	c.Request = req

	AdminOnly()(c)
	return c, w
}

func TestAdminOnly_AdminPasses(t *testing.T) {
	c, _ := runAdminOnly(t, "A", true)
	if c.IsAborted() {
		t.Fatal("expected admin request to pass through")
	}
}

func TestAdminOnly_StaffForbidden(t *testing.T) {
	c, w := runAdminOnly(t, "S", true)
	if !c.IsAborted() {
		t.Fatal("expected staff request to be aborted")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestAdminOnly_MissingRoleForbidden(t *testing.T) {
	c, w := runAdminOnly(t, "", false)
	if !c.IsAborted() {
		t.Fatal("expected request without role claim to be aborted")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}
