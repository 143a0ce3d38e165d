// Package middleware holds the gin middleware that authenticates callers and
// enforces the role table.
package middleware

import (
	"context"
	"errors"
	"strings"

	"brgyalert/backend/internal/api/response"
	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/policy"
	"brgyalert/backend/internal/session"
	"brgyalert/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const currentUserKey = "currentUser"

// UserLoader is the storage lookup the middleware needs.
type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// extractToken reads the bearer token. Browsers cannot set headers on a
// WebSocket handshake, so upgrade requests may pass it as ?token= instead.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

// Authenticate validates the token and loads the caller from storage, so role
// and status changes apply to tokens that are already issued.
func Authenticate(sessions *session.Issuer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, apperr.Unauthenticated("authorization token missing"))
			return
		}

		claims, err := sessions.Validate(token)
		if err != nil {
			if errors.Is(err, session.ErrTokenExpired) {
				response.Error(c, apperr.Unauthenticated("token has expired"))
				return
			}
			response.Error(c, apperr.Unauthenticated("invalid token"))
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.Error(c, apperr.Unauthenticated("user not found"))
				return
			}
			response.Error(c, apperr.Internal(err))
			return
		}
		if !user.Active() {
			response.Error(c, apperr.Forbidden("account is deactivated"))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequirePermission rejects callers whose role may not perform op.
func RequirePermission(op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, apperr.Unauthenticated("authentication required"))
			return
		}
		if err := policy.Require(user.Role, op); err != nil {
			response.Error(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the caller loaded by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SetCurrentUser is used by tests that bypass Authenticate.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}
