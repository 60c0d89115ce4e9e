package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"naval-chess/internal/config"
)

// GetConfigHandler returns the rules clients need to build a layout
// @Summary Get game rules
// @Description Board size, fleet and presence settings of this server
// @Tags Config
// @Produce json
// @Success 200 {object} ConfigResponse
// @Router /api/config [get]
func GetConfigHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ConfigResponse{
			BoardSize:       cfg.BoardSize,
			Fleet:           cfg.Fleet,
			AllowTouching:   cfg.AllowTouching,
			DisconnectGrace: int(cfg.DisconnectGrace.Seconds()),
			RatingBand:      cfg.RatingBand,
		})
	}
}
