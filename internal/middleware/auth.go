package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/modelcatalog/internal/auth"
	"github.com/user/modelcatalog/internal/utils"
)

// LoginPath 后台登录页
const LoginPath = "/admin/login"

// RequireAdmin 后台权限中间件：Cookie 会话或 Bearer 令牌任一有效即可
func RequireAdmin(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := gate.Resolve(c)
		if s == nil {
			// 页面请求跳转登录页
			if strings.Contains(c.GetHeader("Accept"), "text/html") {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		auth.Attach(c, s)
		c.Next()
	}
}

// RequireAdminAPI 资源写接口的权限中间件，未登录返回 401 {"error": "Unauthorized"}
func RequireAdminAPI(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := gate.Resolve(c)
		if s == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		auth.Attach(c, s)
		c.Next()
	}
}
