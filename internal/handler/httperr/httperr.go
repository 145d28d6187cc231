// Package httperr shapes handler failures into the one JSON envelope every
// endpoint returns.
package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error envelope. Status travels out of band as the HTTP
// status code; Detail carries optional machine-readable context such as a
// stock shortage breakdown.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError writes the envelope and records err on the context so the
// error middleware can log the cause. msg is the client-facing message; err
// is the internal one and must be non-nil.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("httperr: AbortWithError called with nil error")
	}

	resp := Response{Status: status, Detail: detail}
	resp.Error.Message = msg

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
