package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibeni-li/khronos/internal/common"
	"github.com/sibeni-li/khronos/internal/profile"
	"github.com/sibeni-li/khronos/internal/server/services"
)

var (
	errMissingToken      = errors.New("missing token")
	errTooLarge          = errors.New("file too large")
	errInvalidRequest    = errors.New("invalid request")
	errUsernameTaken     = errors.New("username already exists")
	errBadCredentials    = errors.New("invalid username and/or password")
	errAnalysisNotFound  = errors.New("analysis not found")
	errLibraryNotPresent = errors.New("library not available")
	errInternal          = errors.New("internal error")
)

func abortWithError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// writeError maps service errors onto status codes. Unknown errors are
// logged and reported as a bare 500.
func (h *handler) writeError(c *gin.Context, err error) {
	var (
		structural *profile.StructuralError
		value      *profile.ValueError
		tooLarge   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooLarge):
		abortWithError(c, http.StatusRequestEntityTooLarge, errTooLarge)
	case errors.As(err, &structural), errors.As(err, &value):
		abortWithError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrMissingFile),
		errors.Is(err, services.ErrNotJSONFile),
		errors.Is(err, services.ErrMissingUsername),
		errors.Is(err, services.ErrMissingPassword),
		errors.Is(err, services.ErrPasswordMismatch):
		abortWithError(c, http.StatusBadRequest, err)
	case errors.Is(err, common.ErrorAlreadyExists):
		abortWithError(c, http.StatusConflict, errUsernameTaken)
	case errors.Is(err, common.ErrorUnauthorized):
		abortWithError(c, http.StatusUnauthorized, errBadCredentials)
	case errors.Is(err, common.ErrorNotFound):
		abortWithError(c, http.StatusNotFound, errAnalysisNotFound)
	case errors.Is(err, common.ErrorStorage):
		abortWithError(c, http.StatusInternalServerError, common.ErrorStorage)
	default:
		h.log.Error(c.Request.Context(), "unhandled error",
			"request_id", c.GetString(requestIDKey), "error", err)
		abortWithError(c, http.StatusInternalServerError, errInternal)
	}
}
