package utils

import "github.com/gin-gonic/gin"

// RespondWithError aborts the request with a {"error": message} body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func RespondWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
