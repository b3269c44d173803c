package middleware

import (
	"ngosocial/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler turns the last error recorded with c.Error into the JSON
// failure envelope. Internal causes are logged, never sent to the client.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		ae := apperr.From(err)

		msg := ae.Message
		if !ae.Kind.Exposed() {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.String("kind", string(ae.Kind)),
				zap.Error(err),
			)
			msg = "something went wrong, please try again later"
		}
		c.JSON(ae.Kind.Status(), gin.H{"success": false, "message": msg})
	}
}
