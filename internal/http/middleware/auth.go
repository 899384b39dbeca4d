package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/services/auth"
)

// Auth validates the bearer token and stamps the request context with the
// caller's user and tenant before any handler runs.
func Auth(authSvc auth.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.RespondError(c, pkgerr.ErrUnauthorized)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		ctx, err := authSvc.SetContextFromToken(c.Request.Context(), token)
		if err != nil {
			log.Warn("token rejected", "path", c.FullPath())
			response.RespondError(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
