package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-portal-api/internal/models"
	"github.com/noah-isme/university-portal-api/internal/service"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
	"github.com/noah-isme/university-portal-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the validated session.
const ContextSessionKey = "currentSession"

// Session protects routes with the validate-then-refresh rule: the bearer
// token's signature is checked first, then the referenced session must still
// exist in the session store, and only then is its TTL reset to a full
// window. A token with a valid signature whose session is gone is rejected
// as expired; the signature proves the session existed when it was issued.
func Session(auth *service.AuthService, sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		session, err := sessions.Validate(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, appErrors.ErrSessionNotFound) {
				err = appErrors.ErrSessionExpired
			}
			response.Error(c, err)
			c.Abort()
			return
		}
		sessions.Refresh(c.Request.Context(), session.SessionID)

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// RequireRoles enforces that the session role is one of the allowed roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		value, exists := c.Get(ContextSessionKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		session := value.(*models.Session)
		if _, ok := allowed[session.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
