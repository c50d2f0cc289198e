package middleware

import (
	"net/http"
	"strings"

	"github.com/danghm/docqa-be/types"
	"github.com/danghm/docqa-be/utils"
	"github.com/gin-gonic/gin"
)

const UserClaimsKey = "user_claims"

func AuthMiddleware(c *gin.Context) {
	claims, ok := parseBearer(c)
	if !ok {
		return
	}
	c.Set(UserClaimsKey, claims)
	c.Next()
}

func AdminAuthMiddleware(c *gin.Context) {
	claims, ok := parseBearer(c)
	if !ok {
		return
	}
	if claims.Role != types.USER_ROLE_ADMIN {
		c.AbortWithStatusJSON(http.StatusForbidden, types.DataResponse{
			Status:  false,
			Message: "Admin role required",
		})
		return
	}
	c.Set(UserClaimsKey, claims)
	c.Next()
}

func parseBearer(c *gin.Context) (*utils.UserClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header is required",
		})
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header format must be Bearer {token}",
		})
		return nil, false
	}

	claims, err := utils.ParseUserToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Invalid token",
		})
		return nil, false
	}
	return claims, true
}
