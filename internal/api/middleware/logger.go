package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		log.Printf("[HTTP] %s %s -> %d (%v, %s)",
			c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
		if len(c.Errors) > 0 {
			log.Printf("[HTTP] errors: %s", c.Errors.String())
		}
	}
}
