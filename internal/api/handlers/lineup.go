package handlers

import (
	"errors"
	"strconv"

	"github.com/cricketdfs/dream11-optimizer/internal/predictor"
	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
	"github.com/gin-gonic/gin"
)

type LineupHandler struct {
	predictor *predictor.Service
}

func NewLineupHandler(p *predictor.Service) *LineupHandler {
	return &LineupHandler{predictor: p}
}

// GetLineupByMatch predicts the lineup for a direct match id.
func (h *LineupHandler) GetLineupByMatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid match ID", err.Error())
		return
	}

	prediction, err := h.predictor.PredictByMatch(c.Request.Context(), uint(matchID))
	if err != nil {
		h.sendPredictionError(c, err)
		return
	}
	utils.SendSuccess(c, prediction)
}

// GetLineupByEncounter resolves (year, team1, team2, encounter) to a
// match and predicts its lineup.
func (h *LineupHandler) GetLineupByEncounter(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		utils.SendValidationError(c, "Invalid or missing year")
		return
	}
	team1 := c.Query("team1")
	team2 := c.Query("team2")
	if team1 == "" || team2 == "" {
		utils.SendValidationError(c, "Both team1 and team2 are required")
		return
	}
	encounterNo, err := strconv.Atoi(c.DefaultQuery("encounter", "1"))
	if err != nil {
		utils.SendValidationError(c, "Invalid encounter number")
		return
	}

	ctx := c.Request.Context()
	matchID, total, err := h.predictor.ResolveEncounter(ctx, year, team1, team2, encounterNo)
	if err != nil {
		h.sendPredictionError(c, err)
		return
	}

	prediction, err := h.predictor.PredictByMatch(ctx, matchID)
	if err != nil {
		h.sendPredictionError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, prediction, &utils.Meta{Total: int64(total)})
}

func (h *LineupHandler) sendPredictionError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		utils.SendValidationError(c, validationErr.Message)
		return
	}
	utils.SendInternalError(c, "Failed to predict lineup")
}
