package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arogyamitra/healthchat/internal/auth"
	"github.com/arogyamitra/healthchat/internal/domain/user"
)

type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// RequireAuth rejects requests that do not carry a valid bearer token for
// an existing account. On success the full user record is attached to the
// gin context for downstream handlers.
func RequireAuth(verifier TokenVerifier, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)

		if !ok {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		claims, err := verifier.VerifyToken(token)

		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortUnauthorized(c, "Token has expired")
				return
			}

			abortUnauthorized(c, "Invalid token")
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)

		if err != nil {
			// a valid token for a deleted account is still unauthorized
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")

	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)

	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])

	if token == "" {
		return "", false
	}

	return token, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)

	if !ok {
		return "", false
	}

	id, ok := v.(string)
	return id, ok && id != ""
}

// UserFromContext returns the authenticated user record, if any.
func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)

	if !ok {
		return user.User{}, false
	}

	u, ok := v.(user.User)
	return u, ok
}
