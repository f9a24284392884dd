package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipevault/backend/config"
)

// Recovery converts panics into a generic 500 response. Outside production
// the response carries the stack trace to ease debugging; in production only
// "Server error" ever leaves the process.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				body := gin.H{"error": "Server error"}
				if !config.IsProduction() {
					body["stack"] = string(debug.Stack())
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
