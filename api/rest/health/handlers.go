package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /api/health [get]
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   serviceName,
		Version:   serviceVersion,
	})
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
