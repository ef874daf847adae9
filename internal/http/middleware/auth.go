// README: Auth middleware (stub while sessions are anonymous).
package middleware

import "github.com/gin-gonic/gin"

// Sessions are anonymous for now; quota enforcement keys on session id.
// [TODO] Verify an API key header once client registration exists.

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
