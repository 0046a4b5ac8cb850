package auth

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// 会话 Cookie 中的键
const (
	sessionUserKey = "adminAuth"
	sessionTimeKey = "adminAuthAt"
)

// contextKey gin 上下文中保存 *Session 的键
const contextKey = "adminSession"

// Start 把登录标记写入 Cookie 会话
func Start(c *gin.Context, s *Session) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, s.Username)
	session.Set(sessionTimeKey, s.LoggedInAt.Unix())
	return session.Save()
}

// End 清除登录标记
func End(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// fromCookie 从 Cookie 会话还原 Session
func fromCookie(c *gin.Context) *Session {
	session := sessions.Default(c)
	username, ok := session.Get(sessionUserKey).(string)
	if !ok || username == "" {
		return nil
	}
	s := &Session{Username: username}
	if at, ok := session.Get(sessionTimeKey).(int64); ok {
		s.LoggedInAt = time.Unix(at, 0)
	}
	return s
}

// Attach 把会话放入请求上下文
func Attach(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// FromContext 取当前请求的会话，未登录返回 nil
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}

// Resolve 依次尝试 Cookie 会话与 Bearer 令牌
func (g *Gate) Resolve(c *gin.Context) *Session {
	if s := fromCookie(c); s != nil {
		return s
	}
	if token := bearerToken(c); token != "" {
		if s, err := g.Verify(token); err == nil {
			return s
		}
	}
	return nil
}

// StateOf 当前请求的登录状态
func (g *Gate) StateOf(c *gin.Context) State {
	if g.Resolve(c) != nil {
		return LoggedIn
	}
	return LoggedOut
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
