package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/pkg/response"
)

type createPostRequest struct {
	Content  string `json:"content" binding:"required"`
	MediaURL string `json:"media_url" binding:"omitempty,url"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

type likeResponse struct {
	Liked bool          `json:"liked"`
	Feed  *feedResponse `json:"feed"`
}

type commentResponse struct {
	Comments []*model.Comment `json:"comments"`
	Feed     *feedResponse    `json:"feed,omitempty"`
}

// CreatePost 发帖，成功后返回重新拉取的 feed
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "帖子内容（最多 500 字）"
// @Success 201 {object} response.Response{data=feedResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	viewer := middleware.CurrentProfile(c)
	if _, err := h.postService.CreatePost(c.Request.Context(), service.CreatePostInput{
		AuthorID: viewer.ID,
		Content:  req.Content,
		MediaURL: req.MediaURL,
	}); err != nil {
		writeError(c, err)
		return
	}
	feed, err := h.loadFeed(c)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, feed)
}

// ToggleLike 点赞/取消点赞
// @Summary 切换点赞
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=likeResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	viewer := middleware.CurrentProfile(c)
	liked, err := h.postService.ToggleLike(c.Request.Context(), c.Param("id"), viewer.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	feed, err := h.loadFeed(c)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, likeResponse{Liked: liked, Feed: feed})
}

// CreateComment 评论
// @Summary 发表评论
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 201 {object} response.Response{data=commentResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	postID := c.Param("id")
	viewer := middleware.CurrentProfile(c)
	if _, err := h.postService.CreateComment(c.Request.Context(), postID, viewer.ID, req.Content); err != nil {
		writeError(c, err)
		return
	}
	comments, err := h.postService.ListComments(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	feed, err := h.loadFeed(c)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, commentResponse{Comments: comments, Feed: feed})
}

// ListComments 帖子评论列表
// @Summary 评论列表
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=commentResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.postService.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, commentResponse{Comments: comments})
}
