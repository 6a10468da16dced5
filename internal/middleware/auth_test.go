package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tradepilot/internal/models"
)

func setupProtectedRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/protected", func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 3}, Email: "mw@example.com"}

	t.Run("accepts_access_token", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		rec := doAuthRequest(setupProtectedRouter(), "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseBody(t, rec)
		if body["user_id"].(float64) != 3 {
			t.Errorf("expected user_id 3, got %v", body["user_id"])
		}
	})

	t.Run("rejects_refresh_token_as_access_token", func(t *testing.T) {
		token, err := GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		rec := doAuthRequest(setupProtectedRouter(), "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects_missing_header", func(t *testing.T) {
		rec := doAuthRequest(setupProtectedRouter(), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		body := parseBody(t, rec)
		if body["error"] != "인증이 필요합니다" {
			t.Errorf("unexpected error body %v", body["error"])
		}
	})

	t.Run("rejects_malformed_header", func(t *testing.T) {
		rec := doAuthRequest(setupProtectedRouter(), "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects_garbage_token", func(t *testing.T) {
		rec := doAuthRequest(setupProtectedRouter(), "Bearer not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 8}, Email: "refresh@example.com"}

	t.Run("accepts_refresh_token", func(t *testing.T) {
		token, err := GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		claims, err := ValidateRefreshToken(token)
		if err != nil {
			t.Fatalf("expected valid refresh token, got %v", err)
		}
		if claims.UserID != 8 {
			t.Errorf("expected user ID 8, got %d", claims.UserID)
		}
	})

	t.Run("rejects_access_token", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		if _, err := ValidateRefreshToken(token); err == nil {
			t.Error("expected access token to be rejected")
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := ValidateRefreshToken("not-a-jwt"); err == nil {
			t.Error("expected garbage token to be rejected")
		}
	})
}

func TestHashToken(t *testing.T) {
	hash := HashToken("some-token")
	if len(hash) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(hash))
	}
	if hash != HashToken("some-token") {
		t.Error("expected hashing to be deterministic")
	}
	if hash == HashToken("other-token") {
		t.Error("expected different tokens to hash differently")
	}
}
