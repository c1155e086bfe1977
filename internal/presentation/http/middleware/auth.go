package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tienda-api/pkg/utils"
)

// Gin context keys set by AuthMiddleware
const (
	OperatorIDKey    = "operator_id"
	OperatorEmailKey = "operator_email"
	OperatorRolesKey = "operator_roles"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, 401, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.AbortWithError(c, 401, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.AbortWithError(c, 401, "Invalid or expired token")
			return
		}

		c.Set(OperatorIDKey, claims.OperatorID)
		c.Set(OperatorEmailKey, claims.Email)
		c.Set(OperatorRolesKey, claims.Roles)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		granted, _ := c.Get(OperatorRolesKey)
		operatorRoles, _ := granted.([]string)

		for _, have := range operatorRoles {
			for _, want := range roles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		response.AbortWithError(c, 403, "Insufficient role privileges")
	}
}

// OperatorID returns the authenticated operator, or uuid.Nil
func OperatorID(c *gin.Context) uuid.UUID {
	value, exists := c.Get(OperatorIDKey)
	if !exists {
		return uuid.Nil
	}
	id, _ := value.(uuid.UUID)
	return id
}
