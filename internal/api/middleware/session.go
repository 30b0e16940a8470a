package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hunter-sfcb/iceapp/internal/access"
	"github.com/Hunter-sfcb/iceapp/internal/auth"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/session"
	"github.com/Hunter-sfcb/iceapp/pkg/logger"
	"github.com/Hunter-sfcb/iceapp/pkg/response"
)

const sessionKey = "iceapp.session"

// BearerToken 从 Authorization 头取出 token
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Session 为每个请求创建独立的会话上下文；携带 token 时恢复会话。
// token 无效或未携带 token 都以匿名身份继续，由 RequireAuth 决定是否拒绝。
func Session(newSession session.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := newSession()
		if token := BearerToken(c); token != "" {
			if err := sess.Initialize(c.Request.Context(), token); err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					logger.Debug("stale token ignored", zap.Error(err))
					c.Set(sessionKey, sess)
					c.Next()
					return
				}
				logger.Error("restore session failed", zap.Error(err))
				response.InternalError(c, err)
				c.Abort()
				return
			}
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession 取出 Session 中间件放入的会话
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// CurrentProfile 当前请求者的 Profile，匿名或尚未创建 Profile 时为 nil
func CurrentProfile(c *gin.Context) *model.Profile {
	if sess := CurrentSession(c); sess != nil {
		return sess.Profile()
	}
	return nil
}

// RequireAuth 需要已登录且存在 Profile
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentProfile(c) == nil {
			response.Unauthorized(c, "sign in required")
			return
		}
		c.Next()
	}
}

// RequireOwner 管理面板入口检查：非站长直接 403，不会触发任何管理端查询
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.IsOwner(CurrentProfile(c)) {
			response.Forbidden(c, access.ErrForbidden.Error())
			return
		}
		c.Next()
	}
}
