package handlers

import (
	"net/http"
	"time"

	"owl-league/packages/core/models"
	"owl-league/packages/core/services"
	"owl-league/packages/core/utils"

	"github.com/gin-gonic/gin"
)

type WeekHandler struct {
	weekLockService *services.WeekLockService
}

func NewWeekHandler(weekLockService *services.WeekLockService) *WeekHandler {
	return &WeekHandler{
		weekLockService: weekLockService,
	}
}

// GetCurrentWeek returns the id of the running week
// @Summary Current week
// @Tags weeks
// @Produce json
// @Success 200 {object} map[string]string
// @Router /weeks/current [get]
func (h *WeekHandler) GetCurrentWeek(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"week": utils.CurrentWeekID(time.Now())})
}

// GetWeekStatus tells whether result entry is locked for a week
// @Summary Week lock status
// @Tags weeks
// @Produce json
// @Param week query string false "Week id (default: current week)"
// @Success 200 {object} models.WeekStatus
// @Failure 400 {object} map[string]string
// @Router /weeks/status [get]
func (h *WeekHandler) GetWeekStatus(c *gin.Context) {
	week := c.DefaultQuery("week", utils.CurrentWeekID(time.Now()))

	locked, err := h.weekLockService.IsWeekLocked(c.Request.Context(), week)
	if err != nil {
		respondError(c, err, "Failed to check week lock")
		return
	}

	c.JSON(http.StatusOK, models.WeekStatus{Week: week, Locked: locked})
}

// SetWeekPassword locks a week
// @Summary Set week password
// @Description Set or replace a week's results password; an empty password unlocks the week
// @Tags weeks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param lock body models.SetWeekPasswordRequest true "Week and password"
// @Success 200 {object} models.WeekStatus
// @Failure 400 {object} map[string]string
// @Router /weeks/password [put]
func (h *WeekHandler) SetWeekPassword(c *gin.Context) {
	var req models.SetWeekPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.weekLockService.SetWeekPassword(ctx, req.Week, req.Password); err != nil {
		respondError(c, err, "Failed to set week password")
		return
	}
	locked, err := h.weekLockService.IsWeekLocked(ctx, req.Week)
	if err != nil {
		respondError(c, err, "Failed to check week lock")
		return
	}

	c.JSON(http.StatusOK, models.WeekStatus{Week: req.Week, Locked: locked})
}

// ClearWeekPassword unlocks a week
// @Summary Clear week password
// @Tags weeks
// @Security BearerAuth
// @Produce json
// @Param week query string true "Week id"
// @Success 200 {object} models.WeekStatus
// @Failure 400 {object} map[string]string
// @Router /weeks/password [delete]
func (h *WeekHandler) ClearWeekPassword(c *gin.Context) {
	week := c.Query("week")
	if err := h.weekLockService.ClearWeekPassword(c.Request.Context(), week); err != nil {
		respondError(c, err, "Failed to clear week password")
		return
	}

	c.JSON(http.StatusOK, models.WeekStatus{Week: week, Locked: false})
}
