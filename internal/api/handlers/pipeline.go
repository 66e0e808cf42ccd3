package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/cricketdfs/dream11-optimizer/internal/services"
	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PipelineHandler struct {
	runner  services.PipelineRunner
	log     *logrus.Logger
	running atomic.Bool
}

func NewPipelineHandler(runner services.PipelineRunner, log *logrus.Logger) *PipelineHandler {
	return &PipelineHandler{runner: runner, log: log}
}

// RebuildPipeline triggers a full feature rebuild in the background.
// A second trigger while one is in flight is rejected.
func (h *PipelineHandler) RebuildPipeline(c *gin.Context) {
	if !h.running.CompareAndSwap(false, true) {
		utils.SendError(c, http.StatusConflict,
			utils.NewAppError(utils.ErrCodeValidation, "Pipeline rebuild already in progress"))
		return
	}

	go func() {
		defer h.running.Store(false)
		if err := h.runner.Run(context.Background()); err != nil {
			h.log.WithError(err).Error("Pipeline rebuild failed")
			return
		}
		h.log.Info("Pipeline rebuild completed")
	}()

	c.JSON(http.StatusAccepted, utils.Response{
		Success: true,
		Data:    gin.H{"status": "rebuild started"},
	})
}
