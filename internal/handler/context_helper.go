package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/gatepass-api/internal/middleware"
	"github.com/campusgate/gatepass-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// bearerToken returns the raw bearer token so services can forward the
// caller's credentials to the upstream backend.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
