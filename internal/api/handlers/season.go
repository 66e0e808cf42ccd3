package handlers

import (
	"strconv"

	"github.com/cricketdfs/dream11-optimizer/internal/predictor"
	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
	"github.com/gin-gonic/gin"
)

type SeasonHandler struct {
	predictor *predictor.Service
}

func NewSeasonHandler(p *predictor.Service) *SeasonHandler {
	return &SeasonHandler{predictor: p}
}

// GetSeasonTeams lists the teams that played in a season.
func (h *SeasonHandler) GetSeasonTeams(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		utils.SendValidationError(c, "Invalid year")
		return
	}

	teams, err := h.predictor.TeamsInSeason(c.Request.Context(), year)
	if err != nil {
		utils.SendInternalError(c, "Failed to list season teams")
		return
	}
	if len(teams) == 0 {
		utils.SendNotFound(c, "No matches found for season")
		return
	}
	utils.SendSuccess(c, gin.H{"year": year, "teams": teams})
}
