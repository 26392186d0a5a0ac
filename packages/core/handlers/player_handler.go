package handlers

import (
	"net/http"
	"strconv"

	"owl-league/packages/core/models"
	"owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
	statsService  *services.StatsService
}

func NewPlayerHandler(playerService *services.PlayerService, statsService *services.StatsService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		statsService:  statsService,
	}
}

// GetAllPlayers retrieves the player registry
// @Summary List players
// @Description List players by rating, highest first
// @Tags players
// @Produce json
// @Param includeArchived query bool false "Include archived players (default: false)"
// @Success 200 {array} models.Player
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players [get]
func (h *PlayerHandler) GetAllPlayers(c *gin.Context) {
	includeArchived, ok := parseBoolQuery(c, "includeArchived")
	if !ok {
		return
	}

	players, err := h.playerService.ListPlayers(c.Request.Context(), includeArchived)
	if err != nil {
		respondError(c, err, "Failed to retrieve players")
		return
	}

	c.JSON(http.StatusOK, players)
}

// GetPlayer retrieves a player by ID
// @Summary Get player by ID
// @Description Get player information by player ID
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := parseID(c, "id", "player ID")
	if !ok {
		return
	}

	player, err := h.playerService.GetPlayerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, player)
}

// GetPlayerRecord retrieves a player's record and favourite faction
// @Summary Get player record
// @Description Win/draw/loss tally and most played faction of a player
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id}/record [get]
func (h *PlayerHandler) GetPlayerRecord(c *gin.Context) {
	id, ok := parseID(c, "id", "player ID")
	if !ok {
		return
	}

	record, err := h.statsService.GetPlayerRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve player record")
		return
	}
	faction, err := h.statsService.GetMostPlayedFaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve player record")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id":           id,
		"wins":                record.Wins,
		"draws":               record.Draws,
		"losses":              record.Losses,
		"games_played":        record.GamesPlayed(),
		"most_played_faction": faction,
	})
}

// GetTopPlayers retrieves top N players by rating
// @Summary Get top players by rating
// @Description Get top N active players ordered by rating (highest first)
// @Tags players
// @Produce json
// @Param limit query int false "Number of players to retrieve (default: 10, max: 100)"
// @Success 200 {array} models.Player
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/top [get]
func (h *PlayerHandler) GetTopPlayers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid limit parameter",
		})
		return
	}

	// Cap the limit to prevent excessive queries
	if limit > 100 {
		limit = 100
	}

	players, err := h.playerService.GetTopPlayers(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve top players")
		return
	}

	c.JSON(http.StatusOK, players)
}

// CreatePlayer registers a player
// @Summary Create player
// @Description Register a player with an optional starting rating (400-3000, default 1000) and faction
// @Tags players
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param player body models.CreatePlayerRequest true "Player"
// @Success 201 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.playerService.CreatePlayer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create player")
		return
	}

	c.JSON(http.StatusCreated, player)
}

// UpdateFaction sets or clears a player's default faction
// @Summary Update player faction
// @Tags players
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Player ID"
// @Param faction body models.UpdatePlayerFactionRequest true "Faction, null to clear"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /players/{id}/faction [patch]
func (h *PlayerHandler) UpdateFaction(c *gin.Context) {
	id, ok := parseID(c, "id", "player ID")
	if !ok {
		return
	}

	var req models.UpdatePlayerFactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.playerService.UpdateFaction(c.Request.Context(), id, req.Faction)
	if err != nil {
		respondError(c, err, "Failed to update player")
		return
	}

	c.JSON(http.StatusOK, player)
}

// ArchivePlayer hides a player from pairing and the leaderboard
// @Summary Archive player
// @Tags players
// @Security BearerAuth
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]string
// @Router /players/{id}/archive [patch]
func (h *PlayerHandler) ArchivePlayer(c *gin.Context) {
	id, ok := parseID(c, "id", "player ID")
	if !ok {
		return
	}

	player, err := h.playerService.ArchivePlayer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to archive player")
		return
	}

	c.JSON(http.StatusOK, player)
}

// RestorePlayer brings an archived player back
// @Summary Restore player
// @Tags players
// @Security BearerAuth
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]string
// @Router /players/{id}/restore [patch]
func (h *PlayerHandler) RestorePlayer(c *gin.Context) {
	id, ok := parseID(c, "id", "player ID")
	if !ok {
		return
	}

	player, err := h.playerService.RestorePlayer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to restore player")
		return
	}

	c.JSON(http.StatusOK, player)
}

// DeletePlayer removes a player
// @Summary Delete player
// @Description Delete a player. Refused with 409 while matches or attendance reference the player, unless cascade=true
// @Tags players
// @Security BearerAuth
// @Produce json
// @Param id path int true "Player ID"
// @Param cascade query bool false "Also delete the player's matches and attendance"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /players/{id} [delete]
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	id, ok := parseID(c, "id", "player ID")
	if !ok {
		return
	}
	cascade, ok := parseBoolQuery(c, "cascade")
	if !ok {
		return
	}

	if err := h.playerService.DeletePlayer(c.Request.Context(), id, cascade); err != nil {
		respondError(c, err, "Failed to delete player")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Player deleted successfully"})
}
