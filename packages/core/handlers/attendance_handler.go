package handlers

import (
	"net/http"
	"time"

	"owl-league/packages/core/models"
	"owl-league/packages/core/services"
	"owl-league/packages/core/utils"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// GetAttendance retrieves the attendance of a week
// @Summary Get attendance
// @Tags attendance
// @Produce json
// @Param week query string false "Week id (default: current week)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /attendance [get]
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	week := c.DefaultQuery("week", utils.CurrentWeekID(time.Now()))
	ctx := c.Request.Context()

	rows, err := h.attendanceService.GetAttendance(ctx, week)
	if err != nil {
		respondError(c, err, "Failed to retrieve attendance")
		return
	}
	eligible, err := h.attendanceService.EligiblePlayerIDs(ctx, week)
	if err != nil {
		respondError(c, err, "Failed to retrieve attendance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week":                week,
		"attendance":          rows,
		"eligible_player_ids": eligible,
	})
}

// SaveAttendance replaces the attendance of a week
// @Summary Save attendance
// @Description Mark exactly the given players present for the week
// @Tags attendance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param attendance body models.SaveAttendanceRequest true "Week and present players"
// @Success 200 {array} models.Attendance
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /attendance [put]
func (h *AttendanceHandler) SaveAttendance(c *gin.Context) {
	var req models.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.attendanceService.SaveAttendance(c.Request.Context(), req.Week, req.PlayerIDs)
	if err != nil {
		respondError(c, err, "Failed to save attendance")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ClearAttendance drops the attendance of a week
// @Summary Clear attendance
// @Tags attendance
// @Security BearerAuth
// @Produce json
// @Param week query string true "Week id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /attendance [delete]
func (h *AttendanceHandler) ClearAttendance(c *gin.Context) {
	week := c.Query("week")
	if err := h.attendanceService.ClearAttendance(c.Request.Context(), week); err != nil {
		respondError(c, err, "Failed to clear attendance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance cleared"})
}
