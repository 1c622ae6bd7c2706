// requestid.go tags every portal request with a correlation identifier so a
// single admin action (issue, reissue, revoke) or a customer's validation call
// can be traced through the structured logs.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request identifier on both request and response.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key the identifier is stored under.
	RequestIDKey = "request_id"
)

// RequestIDMiddleware assigns each request an identifier. An inbound
// X-Request-ID set by a reverse proxy in front of the portal is reused
// unchanged; otherwise a UUID is generated. The value is stored in the
// context for the request logger and echoed on the response so a customer
// reporting a failed validation can quote it.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
