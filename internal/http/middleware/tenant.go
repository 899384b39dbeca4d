package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
	"github.com/recallerhq/recaller-backend/internal/services/tenant"
)

const TenantHeader = "X-Tenant-ID"

// Tenant resolves the X-Tenant-ID header (slug or UUID) and overrides the
// token's tenant for this request. Without the header the token's tenant
// stands; without a token tenant either, the default tenant is used.
func Tenant(tenantSvc tenant.TenantService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		rd := requestdata.GetRequestData(ctx)
		if rd == nil {
			rd = &requestdata.RequestData{}
			ctx = requestdata.WithRequestData(ctx, rd)
			c.Request = c.Request.WithContext(ctx)
		}

		identifier := c.GetHeader(TenantHeader)
		if identifier == "" && rd.TenantID != uuid.Nil {
			c.Next()
			return
		}

		resolved, err := tenantSvc.Resolve(ctx, identifier)
		if err != nil {
			log.Warn("tenant resolution failed", "identifier", identifier)
			response.RespondError(c, err)
			return
		}
		rd.TenantID = resolved.ID
		c.Next()
	}
}
