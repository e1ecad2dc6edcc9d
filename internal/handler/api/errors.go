package api

import (
	"net/http"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/handler/httperr"
	"library-circulation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	kind    error
	status  int
	message string
}

// First match wins; not-found kinds are checked before the broader input kind.
var errorMappings = []errorMapping{
	{kind: errs.ErrRequestNotFound, status: http.StatusNotFound, message: "Borrow request not found"},
	{kind: errs.ErrTitleNotFound, status: http.StatusNotFound, message: "Title not found"},
	{kind: errs.ErrInvalidInput, status: http.StatusBadRequest, message: "Invalid request"},
	{kind: errs.ErrUnauthorized, status: http.StatusForbidden, message: "Action not permitted"},
	{kind: errs.ErrInvalidTransition, status: http.StatusConflict, message: "Invalid status transition"},
	{kind: errs.ErrOutOfStock, status: http.StatusConflict, message: "No copies available"},
	{kind: errs.ErrInconsistentStock, status: http.StatusInternalServerError, message: "Inconsistent stock"},
	{kind: errs.ErrStorageTimeout, status: http.StatusGatewayTimeout, message: "Storage timeout"},
	{kind: errs.ErrStorageFailure, status: http.StatusInternalServerError, message: "Internal server error"},
}

type transitionDetail struct {
	Action   string   `json:"action"`
	Expected []string `json:"expected"`
	Actual   string   `json:"actual"`
}

type stockDetail struct {
	TotalCopies int `json:"total_copies"`
	InFlight    int `json:"in_flight"`
}

func abortWithDomainError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"
	for _, m := range errorMappings {
		if errs.Is(err, m.kind) {
			status, msg = m.status, m.message
			break
		}
	}
	httperr.AbortWithError(c, status, err, msg, errorDetail(err))
}

func errorDetail(err error) any {
	var te *circulation.TransitionError
	if errs.As(err, &te) {
		expected := make([]string, len(te.Expected))
		for i, s := range te.Expected {
			expected[i] = s.String()
		}
		return transitionDetail{Action: te.Action.String(), Expected: expected, Actual: te.Actual.String()}
	}
	var se *circulation.StockError
	if errs.As(err, &se) {
		return stockDetail{TotalCopies: se.Total, InFlight: se.InFlight}
	}
	return nil
}
