package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const accountContextKey contextKey = "gogalleryAccount"

// ContextAccount represents the authenticated principal stored in the request context.
type ContextAccount struct {
	ID    string
	Email string
	Role  string
}

// AuthMiddleware validates bearer tokens and injects the authenticated account.
func AuthMiddleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing authorization header"})
			return
		}

		token := extractBearerToken(authHeader)
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := service.ValidateAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(string(accountContextKey), ContextAccount{
			ID:    claims.AccountID.String(),
			Email: claims.Email,
			Role:  claims.Role,
		})

		c.Next()
	}
}

// RequireAdminMiddleware rejects requests whose account lacks the admin role.
// It must run after AuthMiddleware.
func RequireAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
			return
		}
		if account.Role != RoleAdmin {
			c.AbortWithStatusJSON(403, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentAccount extracts the authenticated account from the context.
func CurrentAccount(c *gin.Context) (ContextAccount, bool) {
	value, exists := c.Get(string(accountContextKey))
	if !exists {
		return ContextAccount{}, false
	}
	account, ok := value.(ContextAccount)
	return account, ok
}

// RequireAccount fetches the authenticated account and parses the identifier.
func RequireAccount(c *gin.Context) (uuid.UUID, ContextAccount, bool) {
	account, ok := CurrentAccount(c)
	if !ok {
		return uuid.Nil, ContextAccount{}, false
	}
	id, err := uuid.Parse(account.ID)
	if err != nil {
		return uuid.Nil, ContextAccount{}, false
	}
	return id, account, true
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
