package middleware

import (
	"net/http"
	"strings"

	"owl-league/packages/auth/models"
	"owl-league/packages/auth/utils"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey     = "auth_claims"
	weekClaimsKey = "week_claims"

	// WeekTokenHeader carries a week unlock token next to an optional admin
	// bearer token.
	WeekTokenHeader = "X-Week-Token"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// JWTMiddleware requires a valid bearer token.
func JWTMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalJWT records whatever valid tokens the request carries and never
// rejects it. Handlers decide with IsAdmin and CanReportWeek.
func OptionalJWT(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := issuer.Parse(token); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		if token := c.GetHeader(WeekTokenHeader); token != "" {
			if claims, err := issuer.Parse(token); err == nil && claims.Role == models.RoleWeek {
				c.Set(weekClaimsKey, claims)
			}
		}
		c.Next()
	}
}

func GetClaims(c *gin.Context) (*utils.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.Claims)
	return claims, ok
}

func IsAdmin(c *gin.Context) bool {
	claims, ok := GetClaims(c)
	return ok && claims.Role == models.RoleAdmin
}

// CanReportWeek reports whether the caller holds an admin token or an unlock
// token for week issued under its current lock nonce.
func CanReportWeek(c *gin.Context, week, lock string) bool {
	if IsAdmin(c) {
		return true
	}
	for _, key := range []string{claimsKey, weekClaimsKey} {
		if value, exists := c.Get(key); exists {
			if claims, ok := value.(*utils.Claims); ok && claims.Role == models.RoleWeek && claims.Week == week && lock != "" && claims.Lock == lock {
				return true
			}
		}
	}
	return false
}
