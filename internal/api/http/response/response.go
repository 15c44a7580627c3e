// Package response writes the JSON envelopes shared by every endpoint.
package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

type successEnvelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type errorBody struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339Nano)
}

// OK writes {success:true, data, timestamp}.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, successEnvelope{Success: true, Data: data, Timestamp: timestamp()})
}

// Error writes {error:{message,status,timestamp}} and aborts the chain.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: errorBody{
		Message:   message,
		Status:    status,
		Timestamp: timestamp(),
	}})
}
