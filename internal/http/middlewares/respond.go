package middlewares

import "github.com/gin-gonic/gin"

// abortWithError writes the same error envelope as the handlers package.
func abortWithError(c *gin.Context, status int, code, message string) {
	requestID, _ := c.Get(CtxRequestID)

	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   message,
			"requestId": requestID,
		},
	})
}
