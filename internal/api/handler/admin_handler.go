package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/pkg/response"
)

type createRankRequest struct {
	Name     string `json:"name" binding:"required"`
	Color    string `json:"color"`
	Priority int    `json:"priority"`
}

type setRankRequest struct {
	// RankID 为空或 null 表示移除等级
	RankID *string `json:"rank_id"`
}

type toggleRequest struct {
	// Current 调用方当前展示的状态，服务端写入其取反值
	Current bool `json:"current"`
}

// AdminData 管理面板数据
// @Summary 管理面板：用户与等级
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.AdminData}
// @Failure 403 {object} response.Response
// @Router /api/v1/admin [get]
func (h *Handler) AdminData(c *gin.Context) {
	data, err := h.adminService.FetchAdminData(c.Request.Context(), middleware.CurrentProfile(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, data)
}

// CreateRank 新建等级
// @Summary 新建等级
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createRankRequest true "等级"
// @Success 201 {object} response.Response{data=service.AdminData}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/ranks [post]
func (h *Handler) CreateRank(c *gin.Context) {
	var req createRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	data, err := h.adminService.CreateRank(c.Request.Context(), middleware.CurrentProfile(c), service.CreateRankInput{
		Name:     req.Name,
		Color:    req.Color,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, data)
}

// SetUserRank 设置用户等级
// @Summary 设置用户等级
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param request body setRankRequest true "等级ID，null 表示无等级"
// @Success 200 {object} response.Response{data=service.AdminData}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/users/{id}/rank [put]
func (h *Handler) SetUserRank(c *gin.Context) {
	var req setRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	data, err := h.adminService.SetUserRank(c.Request.Context(), middleware.CurrentProfile(c), c.Param("id"), req.RankID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, data)
}

// ToggleVerified 切换认证标记
// @Summary 切换认证
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param request body toggleRequest true "当前状态"
// @Success 200 {object} response.Response{data=service.AdminData}
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/users/{id}/verified [post]
func (h *Handler) ToggleVerified(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	data, err := h.adminService.ToggleVerified(c.Request.Context(), middleware.CurrentProfile(c), c.Param("id"), req.Current)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, data)
}

// TogglePremium 切换会员（开通 30 天）
// @Summary 切换会员
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param request body toggleRequest true "当前状态"
// @Success 200 {object} response.Response{data=service.AdminData}
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/users/{id}/premium [post]
func (h *Handler) TogglePremium(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	data, err := h.adminService.TogglePremium(c.Request.Context(), middleware.CurrentProfile(c), c.Param("id"), req.Current)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, data)
}
