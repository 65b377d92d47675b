package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-middleware")
	gin.SetMode(gin.TestMode)
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"email": p.Email})
	})
	r.GET("/secure", handlers...)
	return r
}

func tokenFor(t *testing.T, p models.Principal) string {
	t.Helper()
	token, err := utils.GenerateToken(p)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, httptest.NewRequest("GET", "/secure", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Token abc123")

	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token := tokenFor(t, models.Principal{UserID: 9, Email: "mw@test.com", Role: models.RoleUser})

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequirePolicyDeniesCustomer(t *testing.T) {
	token := tokenFor(t, models.Principal{UserID: 9, Email: "cust@test.com", Role: models.RoleUser})

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	protectedRouter(RequirePolicy(models.Policy.CanManageOrders)).ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequirePolicyAllowsStaff(t *testing.T) {
	locationID := uint(1)
	token := tokenFor(t, models.Principal{
		UserID:             10,
		Email:              "staff@test.com",
		Role:               models.RoleStaff,
		AssignedLocationID: &locationID,
	})

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	protectedRouter(RequirePolicy(models.Policy.CanManageOrders)).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
