package api

import (
	"net/http"
	"time"

	reqdto "library-circulation/internal/handler/dto/request"
	resdto "library-circulation/internal/handler/dto/response"
	"library-circulation/internal/handler/httperr"
	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SweepHandler struct {
	sweeper   commands.ExpirySweeper
	clock     clock.Clock
	threshold time.Duration
}

func NewSweepHandler(sweeper commands.ExpirySweeper, clk clock.Clock, threshold time.Duration) *SweepHandler {
	return &SweepHandler{sweeper: sweeper, clock: clk, threshold: threshold}
}

// @Summary Expire stale pending requests
// @Description Cancels pending requests older than the threshold, releasing their copies
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param threshold_minutes query int false "Override the configured expiry threshold"
// @Success 200 {object} resdto.SweepResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /circulation/sweep [post]
func (h *SweepHandler) Sweep(c *gin.Context) {
	var query reqdto.SweepQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	result, err := h.sweeper.Sweep(c.Request.Context(), h.clock.Now(), query.Threshold(h.threshold))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}
