package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-facil/internal/auth"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
)

const (
	ContextUserID    = "userID"
	ContextProfileID = "profileID"
)

func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Autenticação necessária.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Cabeçalho de autorização inválido.")
			c.Abort()
			return
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Sessão inválida ou expirada.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextProfileID, claims.ProfileID)

		c.Next()
	}
}

// ProfileID returns the authenticated provider's profile id.
func ProfileID(c *gin.Context) uint {
	return c.GetUint(ContextProfileID)
}

func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}
