package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"owl-league/packages/auth/middleware"
	"owl-league/packages/auth/models"
	"owl-league/packages/auth/utils"
	coreModels "owl-league/packages/core/models"
	coreServices "owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
)

// AdminCredentials is the single league administrator password, plain or
// bcrypt hashed.
type AdminCredentials struct {
	Password     string
	PasswordHash string
}

type AuthHandler struct {
	Admin           AdminCredentials
	Issuer          *utils.TokenIssuer
	WeekLockService *coreServices.WeekLockService
	Logger          *slog.Logger
}

func NewAuthHandler(admin AdminCredentials, issuer *utils.TokenIssuer, weekLockService *coreServices.WeekLockService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Admin:           admin,
		Issuer:          issuer,
		WeekLockService: weekLockService,
		Logger:          logger,
	}
}

// @Summary Admin Login
// @Description Exchange the admin password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Admin password"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.CheckAdminPassword(req.Password, h.Admin.Password, h.Admin.PasswordHash) {
		h.Logger.Warn("failed admin login", slog.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Issuer.IssueAdminToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, token)
}

// @Summary Unlock Week
// @Description Check a locked week's results password and get an unlock token for it. Setting a new password revokes earlier tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param unlock body coreModels.UnlockWeekRequest true "Week and password"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/unlock-week [post]
func (h *AuthHandler) UnlockWeek(c *gin.Context) {
	var req coreModels.UnlockWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lock, err := h.WeekLockService.UnlockWeek(c.Request.Context(), req.Week, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, coreServices.ErrWrongWeekPassword):
		h.Logger.Warn("failed week unlock", slog.String("week", req.Week), slog.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case errors.Is(err, coreServices.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, coreServices.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check week password"})
		return
	}

	token, err := h.Issuer.IssueWeekToken(req.Week, lock)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, token)
}

// @Summary Current Token
// @Description Show the role carried by the bearer token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":       claims.Role,
		"week":       claims.Week,
		"expires_at": claims.ExpiresAt,
	})
}
