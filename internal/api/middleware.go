package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// corsMiddleware wraps rs/cors (the teacher's CAPEX-free CORS choice,
// cmd/api/main.go) as gin middleware, permissive by default since the
// LCOE/ensemble endpoints carry no credentials.
func corsMiddleware() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

// recoveryMiddleware mirrors the teacher's internal/api/middleware/error.go
// gin.CustomRecovery: a panicking handler (a *types.DispatchInvariant
// surfacing as a programming error, spec §7) becomes a structured JSON
// 500 instead of a bare stack trace.
func recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		msg := "an unexpected error occurred"
		if err, ok := recovered.(error); ok {
			msg = err.Error()
		} else if s, ok := recovered.(string); ok {
			msg = s
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Kind: "DispatchInvariant", Message: msg},
		})
		c.Abort()
	})
}
