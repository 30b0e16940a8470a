package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/pkg/response"
)

type feedResponse struct {
	Posts   []*model.Post `json:"posts"`
	Empty   bool          `json:"empty"`
	Message string        `json:"message,omitempty"`
}

func newFeedResponse(f *service.Feed) feedResponse {
	res := feedResponse{Posts: f.Posts, Empty: f.Empty()}
	if res.Empty {
		res.Message = EmptyFeedMessage
	}
	return res
}

// loadFeed 写操作之后的整体重新拉取
func (h *Handler) loadFeed(c *gin.Context) (*feedResponse, error) {
	feed, err := h.feedService.FetchFeed(c.Request.Context(), middleware.CurrentProfile(c))
	if err != nil {
		return nil, err
	}
	res := newFeedResponse(feed)
	return &res, nil
}

// Feed 最新 50 条帖子
// @Summary 首页 feed
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=feedResponse}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	res, err := h.loadFeed(c)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}
