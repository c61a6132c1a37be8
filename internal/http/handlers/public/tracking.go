package public

import (
	"errors"

	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackShipment 按运单号公开查询（无需登录）
func (h *Handler) TrackShipment(c *gin.Context) {
	result, err := h.TrackingService.Track(c.Request.Context(), c.Param("tracking_number"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.tracking_not_found", nil)
			return
		}
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
