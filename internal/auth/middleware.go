package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	TokenCookie  = "auth-token"
	principalKey = "principal"
)

// RequireRole exige un auth-token válido con el rol indicado.
// Token ausente, inválido o con otro rol responde 403 sin procesar el body.
func RequireRole(verifier Verifier, role string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookie)
		if err != nil || strings.TrimSpace(token) == "" {
			forbid(c)
			return
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			forbid(c)
			return
		}

		if principal.Role != role {
			log.Info("access denied",
				zap.String("subject", principal.Subject),
				zap.String("role", principal.Role),
				zap.String("path", c.Request.URL.Path),
			)
			forbid(c)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom retorna el principal autenticado del request
func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

func forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
}
