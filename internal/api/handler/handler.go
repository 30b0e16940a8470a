package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Hunter-sfcb/iceapp/internal/access"
	"github.com/Hunter-sfcb/iceapp/internal/auth"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/internal/session"
	"github.com/Hunter-sfcb/iceapp/pkg/response"
)

// EmptyFeedMessage feed 为空时的提示
const EmptyFeedMessage = "no posts yet, be the first to share something"

// Handler 聚合所有 HTTP 处理函数依赖
type Handler struct {
	newSession   session.Factory
	feedService  service.FeedService
	postService  service.PostService
	adminService service.AdminService
	relService   service.RelationshipService
}

func New(newSession session.Factory, feed service.FeedService, posts service.PostService, admin service.AdminService, rel service.RelationshipService) *Handler {
	return &Handler{
		newSession:   newSession,
		feedService:  feed,
		postService:  posts,
		adminService: admin,
		relService:   rel,
	}
}

// writeError 按错误类型映射 HTTP 状态
func writeError(c *gin.Context, err error) {
	var authErr *session.AuthError
	switch {
	case errors.As(err, &authErr):
		if errors.Is(err, auth.ErrEmailTaken) || errors.Is(err, repository.ErrDuplicate) {
			response.Conflict(c, authErr.Message)
			return
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(c, authErr.Message)
			return
		}
		if authErr.Message == session.GenericAuthMessage {
			response.InternalError(c, err)
			return
		}
		response.BadRequest(c, authErr.Message)
	case errors.Is(err, session.ErrPasswordMismatch),
		errors.Is(err, session.ErrPasswordTooShort),
		errors.Is(err, session.ErrUsernameRequired),
		errors.Is(err, session.ErrDisplayNameNeeded),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrEmptyRankName),
		errors.Is(err, service.ErrInvalidRankColor),
		errors.Is(err, service.ErrFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, session.ErrNotSignedIn), errors.Is(err, auth.ErrInvalidToken):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, access.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, repository.ErrDuplicate):
		response.Conflict(c, "already exists")
	default:
		response.InternalError(c, err)
	}
}
