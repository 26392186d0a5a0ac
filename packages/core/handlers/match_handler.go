package handlers

import (
	"net/http"
	"time"

	authMiddleware "owl-league/packages/auth/middleware"
	"owl-league/packages/core/models"
	"owl-league/packages/core/services"
	"owl-league/packages/core/utils"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService    *services.MatchService
	weekLockService *services.WeekLockService
}

func NewMatchHandler(matchService *services.MatchService, weekLockService *services.WeekLockService) *MatchHandler {
	return &MatchHandler{
		matchService:    matchService,
		weekLockService: weekLockService,
	}
}

// GetMatches retrieves the match history
// @Summary List matches
// @Description Matches by week (most recent first), optionally for one week only
// @Tags matches
// @Produce json
// @Param week query string false "Week id, DD/MM/YYYY Wednesday"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	matches, err := h.matchService.ListMatches(c.Request.Context(), c.Query("week"))
	if err != nil {
		respondError(c, err, "Failed to retrieve matches")
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetWeekMatches retrieves the pairings of one week
// @Summary Week pairings
// @Description Pairings of a week in board order; the current week when none is given
// @Tags matches
// @Produce json
// @Param week query string false "Week id, DD/MM/YYYY Wednesday"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string
// @Router /matches/week [get]
func (h *MatchHandler) GetWeekMatches(c *gin.Context) {
	week := c.DefaultQuery("week", utils.CurrentWeekID(time.Now()))

	matches, err := h.matchService.GetWeekMatches(c.Request.Context(), week)
	if err != nil {
		respondError(c, err, "Failed to retrieve matches")
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetMatch retrieves a match by ID
// @Summary Get match by ID
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /matches/{id} [get]
func (h *MatchHandler) GetMatch(c *gin.Context) {
	id, ok := parseID(c, "id", "match ID")
	if !ok {
		return
	}

	match, err := h.matchService.GetMatchByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, match)
}

// SuggestFactions returns the faction picker defaults of a match
// @Summary Suggest factions
// @Description Stored faction, else most played faction, else the player's default, per side
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} models.FactionSuggestion
// @Failure 404 {object} map[string]string
// @Router /matches/{id}/factions [get]
func (h *MatchHandler) SuggestFactions(c *gin.Context) {
	id, ok := parseID(c, "id", "match ID")
	if !ok {
		return
	}

	suggestion, err := h.matchService.SuggestFactions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to suggest factions")
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// RecordResult reports a pending match
// @Summary Record match result
// @Description Report a pending match and update both ratings. A locked week needs an admin token or an unlock token (Authorization or X-Week-Token). Byes ignore result and k_factor
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param result body models.RecordResultRequest true "Result, K-factor (10 or 40) and factions"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /matches/{id}/result [post]
func (h *MatchHandler) RecordResult(c *gin.Context) {
	id, ok := parseID(c, "id", "match ID")
	if !ok {
		return
	}

	var req models.RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	match, err := h.matchService.GetMatchByID(ctx, id)
	if err != nil {
		respondError(c, err, "Internal server error")
		return
	}

	lock, locked, err := h.weekLockService.CurrentLock(ctx, match.Week)
	if err != nil {
		respondError(c, err, "Failed to check week lock")
		return
	}
	if locked && !authMiddleware.CanReportWeek(c, match.Week, lock) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Week is locked",
			"week":  match.Week,
		})
		return
	}

	recorded, err := h.matchService.RecordResult(ctx, id, services.ResultInput{
		Result:   req.Result,
		KFactor:  utils.KFactor(req.KFactor),
		AFaction: req.AFaction,
		BFaction: req.BFaction,
	})
	if err != nil {
		respondError(c, err, "Failed to record result")
		return
	}

	c.JSON(http.StatusOK, recorded)
}

// CreateAdHocMatch records a game played outside the pairings
// @Summary Create ad-hoc match
// @Description Create a two-sided match and report it in one step
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param match body models.AdHocMatchRequest true "Match"
// @Success 201 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /matches [post]
func (h *MatchHandler) CreateAdHocMatch(c *gin.Context) {
	var req models.AdHocMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, err := h.matchService.CreateAdHocMatch(c.Request.Context(), services.AdHocInput{
		Week:      req.Week,
		PlayerAID: req.PlayerAID,
		PlayerBID: req.PlayerBID,
		ResultInput: services.ResultInput{
			Result:   req.Result,
			KFactor:  utils.KFactor(req.KFactor),
			AFaction: req.AFaction,
			BFaction: req.BFaction,
		},
	})
	if err != nil {
		respondError(c, err, "Failed to create match")
		return
	}

	c.JSON(http.StatusCreated, match)
}

// ResetWeek deletes the pairings of a week
// @Summary Reset week
// @Description Delete a week's pending matches, and reported ones with include_reported. Ratings are not reverted
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param reset body models.ResetWeekRequest true "Week"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /matches/reset-week [post]
func (h *MatchHandler) ResetWeek(c *gin.Context) {
	var req models.ResetWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.matchService.ResetWeek(c.Request.Context(), req.Week, req.IncludeReported)
	if err != nil {
		respondError(c, err, "Failed to reset week")
		return
	}

	c.JSON(http.StatusOK, gin.H{"week": req.Week, "deleted": deleted})
}

// DeleteMatches removes selected pairings
// @Summary Delete matches
// @Description Delete selected matches; reported ones are skipped unless allow_reported
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param matches body models.DeleteMatchesRequest true "Match ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /matches/delete [post]
func (h *MatchHandler) DeleteMatches(c *gin.Context) {
	var req models.DeleteMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.matchService.DeleteMatches(c.Request.Context(), req.MatchIDs, req.AllowReported)
	if err != nil {
		respondError(c, err, "Failed to delete matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
