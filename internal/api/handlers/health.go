package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHealth returns basic liveness status.
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"service": "dream11-optimizer",
	})
}
