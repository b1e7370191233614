package middleware

import (
	"strings"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Cargo  string `json:"cargo"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			e := apierror.NaoAutenticado("autenticacao_requerida", "Autenticação requerida")
			c.AbortWithStatusJSON(e.HTTPStatus(), e)
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			e := apierror.NaoAutenticado("token_invalido", "Token inválido ou expirado")
			c.AbortWithStatusJSON(e.HTTPStatus(), e)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireCargo rejects requests whose JWT cargo is not in the allowed list.
func RequireCargo(cargos ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cargos))
	for _, cargo := range cargos {
		allowed[cargo] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Cargo] {
			e := apierror.Autorizacao("Permissões insuficientes")
			c.AbortWithStatusJSON(e.HTTPStatus(), e)
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}
