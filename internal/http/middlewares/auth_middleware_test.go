package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyamitra/healthchat/internal/auth"
	"github.com/arogyamitra/healthchat/internal/domain/user"
)

type fakeUserLoader struct {
	users map[string]user.User
}

func (f *fakeUserLoader) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func authTestRouter(t *testing.T, verifier TokenVerifier, users UserLoader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/private", RequireAuth(verifier, users), func(c *gin.Context) {
		u, ok := UserFromContext(c)

		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	mgr := auth.NewManager("test-secret", time.Hour)
	loader := &fakeUserLoader{users: map[string]user.User{
		"u1": {ID: "u1", Email: "ana@example.com"},
	}}

	r := authTestRouter(t, mgr, loader)

	goodToken, err := mgr.GenerateToken("u1", "ana@example.com")

	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	orphanToken, err := mgr.GenerateToken("gone", "gone@example.com")

	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	expiredMgr := auth.NewManager("test-secret", -time.Hour)
	expiredToken, err := expiredMgr.GenerateToken("u1", "ana@example.com")

	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + goodToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"truncated token", "Bearer " + goodToken[:len(goodToken)-10], http.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"token for deleted account", "Bearer " + orphanToken, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)

			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}
