package handlers

import (
	"net/http"

	"owl-league/packages/core/models"
	"owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats retrieves general statistics
// @Summary Get general statistics
// @Description Get general statistics including total number of players and matches
// @Tags stats
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} map[string]string
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetLeaderboard retrieves the standings
// @Summary Leaderboard
// @Description Players ranked by rating with games played, wins, draws and losses
// @Tags stats
// @Produce json
// @Param includeArchived query bool false "Include archived players (default: false)"
// @Success 200 {array} models.LeaderboardRow
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /leaderboard [get]
func (h *StatsHandler) GetLeaderboard(c *gin.Context) {
	includeArchived, ok := parseBoolQuery(c, "includeArchived")
	if !ok {
		return
	}

	rows, err := h.statsService.Leaderboard(c.Request.Context(), includeArchived)
	if err != nil {
		respondError(c, err, "Failed to retrieve leaderboard")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetFactions lists the factions a player or match may record
// @Summary List factions
// @Tags stats
// @Produce json
// @Success 200 {array} string
// @Router /factions [get]
func (h *StatsHandler) GetFactions(c *gin.Context) {
	c.JSON(http.StatusOK, models.Factions)
}
