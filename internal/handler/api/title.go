package api

import (
	"net/http"

	resdto "library-circulation/internal/handler/dto/response"
	"library-circulation/internal/handler/httperr"
	"library-circulation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TitleHandler struct {
	q queries.CirculationQueries
}

func NewTitleHandler(q queries.CirculationQueries) *TitleHandler {
	return &TitleHandler{q: q}
}

// @Summary Title availability
// @Description Total copies, copies held by in-flight requests, and copies still available
// @Tags titles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Title ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /titles/{id}/availability [get]
func (h *TitleHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.Availability(c.Request.Context(), id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
