package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// Body builds the JSON error payload, logging server-side causes.
func Body(c *gin.Context, err error) (int, gin.H) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err.Error(),
		}).Error("Request failed")
	}
	body := gin.H{"error": Message(err)}
	if fields := Fields(err); len(fields) > 0 {
		body["fields"] = fields
	}
	return status, body
}

// Fields returns the per-field details carried by err, if any.
func Fields(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Respond writes err as a JSON response.
func Respond(c *gin.Context, err error) {
	status, body := Body(c, err)
	c.JSON(status, body)
}

// Abort writes err as a JSON response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := Body(c, err)
	c.AbortWithStatusJSON(status, body)
}
