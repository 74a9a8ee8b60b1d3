package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resolveit/auth"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// authenticate resolves the bearer token into (userID, role) on the request
// context. Requests without a valid token never reach a handler.
func (h *Handler) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
		return
	}

	userID, role, err := h.Auth.VerifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	c.Set(ctxUserID, userID)
	c.Set(ctxRole, string(role))
	c.Next()
}

// requireRole rejects callers whose role is not in the allow list.
func requireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := currentRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func currentRole(c *gin.Context) auth.Role {
	return auth.Role(c.GetString(ctxRole))
}
