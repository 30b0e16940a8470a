package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/session"
	"github.com/Hunter-sfcb/iceapp/pkg/response"
)

type signUpRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Username        string `json:"username" binding:"required"`
	DisplayName     string `json:"display_name" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token     string        `json:"token,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
	State     session.State `json:"session"`
}

func newSessionResponse(st session.State) sessionResponse {
	res := sessionResponse{Token: st.Token, State: st}
	if !st.ExpiresAt.IsZero() {
		exp := st.ExpiresAt
		res.ExpiresAt = &exp
	}
	return res
}

// SignUp 注册并创建默认资料
// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body signUpRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sess := h.newSession()
	err := sess.SignUp(c.Request.Context(), session.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Username:        req.Username,
		DisplayName:     req.DisplayName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, newSessionResponse(sess.State()))
}

// SignIn 登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body signInRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/signin [post]
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sess := h.newSession()
	if err := sess.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, newSessionResponse(sess.State()))
}

// SignOut 登出，当前 token 随即失效
// @Summary 登出
// @Tags 认证
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/signout [post]
func (h *Handler) SignOut(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		response.Unauthorized(c, session.ErrNotSignedIn.Error())
		return
	}
	if err := sess.SignOut(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// CurrentSession 当前会话（身份 + 资料）
// @Summary 当前会话
// @Tags 认证
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/auth/session [get]
func (h *Handler) CurrentSession(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		response.Success(c, newSessionResponse(session.State{}))
		return
	}
	st := sess.State()
	st.Token = ""
	response.Success(c, newSessionResponse(st))
}
