package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-service/models"
	"marketplace-service/utils"
)

// AccessTokenCookie holds the JWT issued at login.
const AccessTokenCookie = "access_token"

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// AuthMiddleware reads the access token from the cookie, falling back to a
// Bearer header, and stores the caller in the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated, or no token available"})
			return
		}

		claims, err := utils.ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized, token is invalid or expired"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden, admin access is required"})
			return
		}
		c.Next()
	}
}

func CurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func CurrentRole(c *gin.Context) models.Role {
	return models.Role(c.GetString(ctxRole))
}
