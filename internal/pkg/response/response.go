package response

import "github.com/gin-gonic/gin"

// Message writes the {statusCode, message} body every endpoint returns.
// The HTTP status and the embedded statusCode are always the same value.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"statusCode": status, "message": message})
}

// Payload writes a body with extra fields merged next to statusCode/message
// (used by the upload endpoint's per-file listing).
func Payload(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"statusCode": status, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
