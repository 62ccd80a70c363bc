package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"parking-slot-control/internal/config"
	"parking-slot-control/internal/jwt"
	"parking-slot-control/internal/parking"
	"parking-slot-control/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Cfg = &config.Config{
		Secret:      "test-secret",
		AuthTTL:     1,
		GatePassTTL: 5,
	}
	os.Exit(m.Run())
}

func authTestRouter(t *testing.T) (*gin.Engine, *parking.Actor) {
	t.Helper()

	var seen parking.Actor
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/whoami", Authenticate(), func(c *gin.Context) {
		seen = GetActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": seen.UserID})
	})
	r.GET("/admin", Authenticate(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, &seen
}

func authToken(t *testing.T, user *storage.User) string {
	t.Helper()
	token, err := jwt.GenerateJWT(jwt.NewAuthClaims(user))
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	return token
}

func TestAuthenticate_MissingToken(t *testing.T) {
	r, _ := authTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	r, _ := authTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	r, seen := authTestRouter(t)

	token := authToken(t, &storage.User{ID: 42, Role: storage.RoleUser})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if seen.UserID != 42 || seen.Role != storage.RoleUser {
		t.Errorf("actor = %+v", seen)
	}
}

func TestRequireAdmin_RejectsUser(t *testing.T) {
	r, _ := authTestRouter(t)

	token := authToken(t, &storage.User{ID: 42, Role: storage.RoleUser})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	r, _ := authTestRouter(t)

	token := authToken(t, &storage.User{ID: 1, Role: storage.RoleAdmin})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
