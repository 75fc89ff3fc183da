package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/logger"
)

// ErrorBody maps err to a status code and the JSON error envelope. Errors that
// are not an *AppError become a generic internal error so details never leak.
func ErrorBody(err error) (int, gin.H) {
	appErr := apperrors.ErrInternalServer
	var target *apperrors.AppError
	if errors.As(err, &target) {
		appErr = target
	}
	return appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
}

// ErrorHandler returns a Gin middleware that logs errors attached to the
// context with c.Error and writes the error envelope when the handler has not
// written a body yet. Bind errors are reported as INVALID_INPUT.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		err := last.Err
		if last.IsType(gin.ErrorTypeBind) {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				err = apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
			}
		}

		log := logger.Named("http").With(
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		var appErr *apperrors.AppError
		switch {
		case !errors.As(err, &appErr):
			log.Errorw("unexpected error", "error", err.Error())
		case appErr.Internal != nil:
			log.Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
			)
		}

		// BindJSON aborts with a bare 400 header, so only a written body counts.
		if c.Writer.Size() > 0 {
			return
		}
		status, body := ErrorBody(err)
		c.AbortWithStatusJSON(status, body)
	}
}
