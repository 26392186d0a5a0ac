package auth

import (
	"log/slog"

	"owl-league/packages/auth/handlers"
	"owl-league/packages/auth/middleware"
	"owl-league/packages/auth/models"
	"owl-league/packages/auth/utils"
	"owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
)

type Module struct {
	Handler *handlers.AuthHandler
	Issuer  *utils.TokenIssuer
}

func NewModule(admin handlers.AdminCredentials, jwtSecret string, weekLockService *services.WeekLockService, logger *slog.Logger) *Module {
	issuer := utils.NewTokenIssuer(jwtSecret)
	return &Module{
		Handler: handlers.NewAuthHandler(admin, issuer, weekLockService, logger),
		Issuer:  issuer,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", m.Handler.Login)
		auth.POST("/unlock-week", m.Handler.UnlockWeek)
		auth.GET("/me", m.JWTMiddleware(), m.Handler.Me)
	}
}

func (m *Module) JWTMiddleware() gin.HandlerFunc {
	return middleware.JWTMiddleware(m.Issuer)
}

func (m *Module) OptionalJWT() gin.HandlerFunc {
	return middleware.OptionalJWT(m.Issuer)
}

// RequireAdmin chains token validation and the admin role check.
func (m *Module) RequireAdmin() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.JWTMiddleware(), middleware.RequireRole(models.RoleAdmin)}
}
