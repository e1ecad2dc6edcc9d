package api

import (
	"context"
	"io"
	"net/http"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"
	reqdto "library-circulation/internal/handler/dto/request"
	resdto "library-circulation/internal/handler/dto/response"
	"library-circulation/internal/handler/httperr"
	"library-circulation/internal/handler/middleware"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/commands"
	"library-circulation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingActor = errs.New("actor missing from context")

type CirculationHandler struct {
	cmds  commands.CirculationCommands
	q     queries.CirculationQueries
	fines *circulation.FineCalculator
}

func NewCirculationHandler(cmds commands.CirculationCommands, q queries.CirculationQueries, fines *circulation.FineCalculator) *CirculationHandler {
	return &CirculationHandler{cmds: cmds, q: q, fines: fines}
}

// @Summary Request to borrow a title
// @Description Create a pending borrow request; fails when no copy is available
// @Tags borrow-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBorrowRequest true "Borrow request"
// @Success 201 {object} resdto.BorrowRequestResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /borrow-requests [post]
func (h *CirculationHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req reqdto.CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.RequestBorrow(c.Request.Context(), actor, req.TitleID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBorrowRequestView(view))
}

// @Summary Get borrow request
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Success 200 {object} resdto.BorrowRequestResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /borrow-requests/{id} [get]
func (h *CirculationHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	view, err := h.q.GetRequest(c.Request.Context(), actor, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowRequestView(view))
}

// @Summary List my borrow requests
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 200)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.BorrowRequestListResponse
// @Failure 400 {object} httperr.Response
// @Router /borrow-requests/mine [get]
func (h *CirculationHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var query reqdto.ListBorrowRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	views, next, err := h.q.ListMine(c.Request.Context(), actor, &queries.Cursor{After: query.After}, query.Limit)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowRequestList(views, next))
}

// @Summary List borrow requests by status
// @Description Staff view of the circulation desk; an empty status lists every request
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param limit query int false "Page size (max 200)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.BorrowRequestListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /borrow-requests [get]
func (h *CirculationHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var query reqdto.ListBorrowRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	views, next, err := h.q.ListByStatus(c.Request.Context(), actor, query.Status, &queries.Cursor{After: query.After}, query.Limit)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowRequestList(views, next))
}

// @Summary Borrow request history
// @Description Audit trail of every applied transition, oldest first
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Success 200 {array} resdto.CirculationEventResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /borrow-requests/{id}/history [get]
func (h *CirculationHandler) History(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	events, err := h.q.History(c.Request.Context(), actor, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEventViews(events))
}

// @Summary Approve borrow request
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Success 200 {object} resdto.BorrowRequestResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /borrow-requests/{id}/approve [post]
func (h *CirculationHandler) Approve(c *gin.Context) {
	h.transition(c, h.cmds.Approve)
}

// @Summary Mark borrow request picked up
// @Description Starts the loan; the due date is the pickup date plus the loan period
// @Tags borrow-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Param request body reqdto.PickupRequest false "Pickup date, defaults to today"
// @Success 200 {object} resdto.BorrowRequestResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /borrow-requests/{id}/pickup [post]
func (h *CirculationHandler) Pickup(c *gin.Context) {
	var req reqdto.PickupRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	pickup, err := req.ToDomain(h.fines.Location())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	h.transition(c, func(ctx context.Context, actor user.Actor, id uuid.UUID) (*queries.BorrowRequestView, error) {
		return h.cmds.MarkPickedUp(ctx, actor, id, pickup)
	})
}

// @Summary Request return
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Success 200 {object} resdto.BorrowRequestResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /borrow-requests/{id}/return-request [post]
func (h *CirculationHandler) RequestReturn(c *gin.Context) {
	h.transition(c, h.cmds.RequestReturn)
}

// @Summary Confirm return
// @Description Closes the loan today and records late days and fine
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Success 200 {object} resdto.BorrowRequestResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /borrow-requests/{id}/return-confirm [post]
func (h *CirculationHandler) ConfirmReturn(c *gin.Context) {
	h.transition(c, h.cmds.ConfirmReturn)
}

// @Summary Cancel borrow request
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Success 200 {object} resdto.BorrowRequestResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /borrow-requests/{id}/cancel [post]
func (h *CirculationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cmds.Cancel)
}

// @Summary Reject borrow request
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow request ID"
// @Success 200 {object} resdto.BorrowRequestResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /borrow-requests/{id}/reject [post]
func (h *CirculationHandler) Reject(c *gin.Context) {
	h.transition(c, h.cmds.Reject)
}

type transitionFunc func(ctx context.Context, actor user.Actor, id uuid.UUID) (*queries.BorrowRequestView, error)

func (h *CirculationHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	view, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowRequestView(view))
}

func currentActor(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return user.Actor{}, false
	}
	return actor, true
}

func requestIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON binds a JSON body when one is sent. Chunked bodies have no length up front,
// so only an absent or empty body leaves obj untouched.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errs.Is(err, io.EOF) {
		return err
	}
	return nil
}
