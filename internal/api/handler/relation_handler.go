package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/pkg/response"
)

type followRequest struct {
	ProfileID string `json:"profile_id" binding:"required"`
}

type followResponse struct {
	Following bool `json:"following"`
	// Changed 为 false 表示关系本来就是该状态
	Changed bool `json:"changed"`
}

type profilePage struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	List     []*model.Profile `json:"list"`
}

// Follow 关注
// @Summary 关注用户
// @Tags 关注
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "被关注者 Profile ID"
// @Success 200 {object} response.Response{data=followResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	created, err := h.relService.Follow(c.Request.Context(), middleware.CurrentProfile(c).ID, req.ProfileID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, followResponse{Following: true, Changed: created})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关注
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "被取消关注者 Profile ID"
// @Success 200 {object} response.Response{data=followResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	removed, err := h.relService.Unfollow(c.Request.Context(), middleware.CurrentProfile(c).ID, req.ProfileID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, followResponse{Following: false, Changed: removed})
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, size
}

// ListFollowing 某用户关注的人
// @Summary 关注列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=profilePage}
// @Router /api/v1/profiles/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, size := pageParams(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, profilePage{Page: page, PageSize: size, List: list})
}

// ListFollowers 某用户的粉丝
// @Summary 粉丝列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=profilePage}
// @Router /api/v1/profiles/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, size := pageParams(c)
	list, err := h.relService.ListFollowers(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, profilePage{Page: page, PageSize: size, List: list})
}

// FollowStats 关注数与粉丝数
// @Summary 关注统计
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} response.Response{data=repository.FollowStats}
// @Failure 404 {object} response.Response
// @Router /api/v1/profiles/{id}/follow-stats [get]
func (h *Handler) FollowStats(c *gin.Context) {
	stats, err := h.relService.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, stats)
}
