package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workhive-api/internal/apperr"
)

// respondError maps a typed error to its HTTP status and JSON body.
func respondError(c *gin.Context, err error) {
	ae := apperr.From(err)
	c.JSON(ae.Status(), gin.H{"error": ae.Message})
}

// storeError translates gorm errors into the typed taxonomy. notFoundMsg
// is used when the record is absent.
func storeError(err error, notFoundMsg string) *apperr.Error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("Email already in use")
	default:
		return apperr.StoreUnavailable("store operation failed")
	}
}
