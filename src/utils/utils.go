package utils

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SendJSONError sends a standardized JSON error response and logs the
// internal error. For 5xx errors the client gets a generic public message
// while the actual internalError is only logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error) {
	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', path='%s'",
			statusCode, publicMsg, internalError, c.Request.URL.Path)
	} else {
		log.Printf("INFO: Handler response: status_code=%d, public_message='%s', path='%s'",
			statusCode, publicMsg, c.Request.URL.Path)
	}

	if statusCode >= http.StatusInternalServerError {
		if publicMsg == "" || (internalError != nil && publicMsg == internalError.Error()) {
			publicMsg = "An unexpected error occurred. Please try again later."
		}
	}

	c.AbortWithStatusJSON(statusCode, gin.H{"message": publicMsg})
}

// ParseCoordinate parses an optional lat/lng query value. An empty string
// yields (0, false, nil); a malformed value is an error.
func ParseCoordinate(raw string) (float64, bool, error) {
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
