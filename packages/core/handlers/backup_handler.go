package handlers

import (
	"fmt"
	"net/http"

	"owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	backupService *services.BackupService
}

func NewBackupHandler(backupService *services.BackupService) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// GetBackup exports every league table
// @Summary Export backup
// @Description Full JSON export of players, matches, attendance and week passwords
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Backup
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/backup [get]
func (h *BackupHandler) GetBackup(c *gin.Context) {
	backup, err := h.backupService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to export backup")
		return
	}

	filename := fmt.Sprintf("league-%s.json", backup.ExportedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, backup)
}
