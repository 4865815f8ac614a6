package httppresentation

import (
	"errors"
	"net/http"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

func writeOK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func writeError(c *gin.Context, status int, message string, kind apperr.Kind) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message, "kind": kind})
}

func writeBindError(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, "malformed request: "+err.Error(), apperr.KindValidation)
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInsufficientStock:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError maps err's kind to a status. Internal failures are logged and reported
// without their cause.
func (h *Handler) writeDomainError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		requestLogger(c, h.log).Error("http_internal_error", observability.F("error", err))
		writeError(c, status, "internal error", apperr.KindInternal)
		return
	}

	var short *catalog.InsufficientStockError
	if errors.As(err, &short) {
		c.AbortWithStatusJSON(status, gin.H{
			"success":    false,
			"message":    err.Error(),
			"kind":       kind,
			"product_id": short.ProductID,
			"requested":  short.Requested,
			"available":  short.Available,
			"shortfall":  short.Shortfall(),
		})
		return
	}
	writeError(c, status, err.Error(), kind)
}
