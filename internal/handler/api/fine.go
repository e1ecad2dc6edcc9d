package api

import (
	"net/http"

	reqdto "library-circulation/internal/handler/dto/request"
	resdto "library-circulation/internal/handler/dto/response"
	"library-circulation/internal/handler/httperr"
	"library-circulation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type FineHandler struct {
	q queries.CirculationQueries
}

func NewFineHandler(q queries.CirculationQueries) *FineHandler {
	return &FineHandler{q: q}
}

// @Summary Preview a fine
// @Description Late days and fine for a due date and an optional return date (today when omitted)
// @Tags fines
// @Produce json
// @Security BearerAuth
// @Param due_date query string true "Due date (YYYY-MM-DD or RFC 3339)"
// @Param return_date query string false "Return date (YYYY-MM-DD or RFC 3339)"
// @Success 200 {object} resdto.FinePreviewResponse
// @Failure 400 {object} httperr.Response
// @Router /fines/preview [get]
func (h *FineHandler) Preview(c *gin.Context) {
	var query reqdto.FinePreviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	view, err := h.q.FinePreview(c.Request.Context(), query.DueDate, query.ReturnDate)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFinePreviewView(view))
}
