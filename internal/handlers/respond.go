package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order_ledger/internal/apperrors"
)

// respondError maps the ledger error taxonomy onto HTTP statuses. Anything
// without a kind is an internal failure.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.NotFound:
		status = http.StatusNotFound
	case apperrors.InvalidArgument:
		status = http.StatusBadRequest
	case apperrors.InvalidState:
		status = http.StatusUnprocessableEntity
	case apperrors.Conflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
