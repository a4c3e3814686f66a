package middleware

import (
	"net/http"
	"strings"

	"notebin-app/notebin/services"
	"notebin-app/notebin/utils/token"

	"github.com/gin-gonic/gin"
)

// adminAuthMessage is deliberately the same for every failure mode so a
// caller cannot tell a bad credential from a blocked address.
const adminAuthMessage = "Admin authentication required"

// AdminAuthMiddleware gates the admin surface behind a bearer credential and
// an optional caller-address allow-list. The acting identity is stored in
// the context as "actor".
func AdminAuthMiddleware(authService services.AuthServiceInterface, allowedIPs string) gin.HandlerFunc {
	allowList := parseAllowList(allowedIPs)

	return func(c *gin.Context) {
		if len(allowList) > 0 && !allowList[c.ClientIP()] {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": adminAuthMessage})
			return
		}

		credential, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": adminAuthMessage})
			return
		}

		actor, err := authService.ValidateCredential(credential)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": adminAuthMessage})
			return
		}

		c.Set("actor", actor)
		c.Next()
	}
}

func parseAllowList(allowedIPs string) map[string]bool {
	allowList := make(map[string]bool)
	for _, ip := range strings.Split(allowedIPs, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			allowList[ip] = true
		}
	}
	return allowList
}
