package handlers

import (
	"net/http"

	"owl-league/packages/core/models"
	"owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
)

type PairingHandler struct {
	pairingService *services.PairingService
}

func NewPairingHandler(pairingService *services.PairingService) *PairingHandler {
	return &PairingHandler{
		pairingService: pairingService,
	}
}

// GeneratePairings pairs a week
// @Summary Generate pairings
// @Description Pair the given players, or the week's eligible pool when player_ids is omitted, avoiding rematches. 409 when the week already has matches
// @Tags pairings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param pairing body models.GeneratePairingsRequest true "Week and optional player ids"
// @Success 201 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /pairings/generate [post]
func (h *PairingHandler) GeneratePairings(c *gin.Context) {
	var req models.GeneratePairingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matches, err := h.pairingService.GeneratePairings(c.Request.Context(), req.Week, req.PlayerIDs)
	if err != nil {
		respondError(c, err, "Failed to generate pairings")
		return
	}

	c.JSON(http.StatusCreated, matches)
}

// ApplyManualPairings stores an explicit round
// @Summary Manual pairings
// @Description Pair players in the given order ("4,2,9,BYE"). clear_pending drops the week's pending matches first
// @Tags pairings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param pairing body models.ManualPairingsRequest true "Week and order"
// @Success 201 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /pairings/manual [post]
func (h *PairingHandler) ApplyManualPairings(c *gin.Context) {
	var req models.ManualPairingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clearPending := req.ClearPending != nil && *req.ClearPending
	matches, err := h.pairingService.ApplyManualPairings(c.Request.Context(), req.Week, req.Order, clearPending)
	if err != nil {
		respondError(c, err, "Failed to apply pairings")
		return
	}

	c.JSON(http.StatusCreated, matches)
}
