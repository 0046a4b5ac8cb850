package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/auth"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/utils"
)

const (
	adminPath   = "/admin"
	loginPath   = "/admin/login"
	loginFailed = "Неверный логин или пароль"
)

// ==================== 登录 ====================

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// LoginPage 登录页，已登录直接进入后台
func (h *Handler) LoginPage(c *gin.Context) {
	if h.Gate.StateOf(c) == auth.LoggedIn {
		c.Redirect(http.StatusFound, adminPath)
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "Вход в админ-панель",
		"Username": "",
	}))
}

// Login 处理登录，表单请求跳转，JSON 请求返回会话与令牌
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "invalid login request")
		return
	}

	session, err := h.Gate.Login(req.Username, req.Password)
	if err != nil {
		h.log.Warn().Str("username", req.Username).Str("ip", c.ClientIP()).Msg("后台登录失败")
		if isForm(c) {
			c.HTML(http.StatusUnauthorized, "login.html", h.RenderData(c, gin.H{
				"Title":    "Вход в админ-панель",
				"Error":    loginFailed,
				"Username": req.Username,
			}))
			return
		}
		utils.FromError(c, apperr.ErrAuth.WithMessage(loginFailed))
		return
	}

	if err := auth.Start(c, session); err != nil {
		h.log.Error().Err(err).Msg("保存会话失败")
		utils.InternalServerError(c, "")
		return
	}

	if isForm(c) {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	utils.Success(c, session)
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	if err := auth.End(c); err != nil {
		h.log.Error().Err(err).Msg("清除会话失败")
	}
	if isForm(c) || strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}
	utils.SuccessWithMessage(c, "logged out", nil)
}

// ==================== 管理后台 ====================

// AdminDashboard 后台首页：模特列表与筛选分类
func (h *Handler) AdminDashboard(c *gin.Context) {
	h.renderAdmin(c, http.StatusOK, "")
}

func (h *Handler) renderAdmin(c *gin.Context, status int, errMsg string) {
	models, filters := h.Catalog.Snapshot()
	c.HTML(status, "admin.html", h.RenderData(c, gin.H{
		"Title":    "Админ-панель",
		"Session":  auth.FromContext(c),
		"Models":   models,
		"Total":    len(models),
		"Controls": filterControls(filters, nil),
		"Error":    errMsg,
	}))
}

// adminError 表单请求回到后台页面显示错误，其余返回 JSON
func (h *Handler) adminError(c *gin.Context, err error) {
	if isForm(c) {
		h.renderAdmin(c, apperr.Code(err), apperr.Message(err))
		return
	}
	utils.FromError(c, err)
}

// AdminModelCreate 添加模特，接受 JSON 草稿或表单
func (h *Handler) AdminModelCreate(c *gin.Context) {
	draft, err := bindDraft(c)
	if err != nil {
		h.adminError(c, err)
		return
	}

	created, err := h.Admin.AddModel(c.Request.Context(), draft)
	if err != nil {
		h.adminError(c, err)
		return
	}

	if isForm(c) {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	utils.Success(c, created)
}

// bindDraft 表单中 photos 可多值，也可在一个文本框中每行一个
func bindDraft(c *gin.Context) (*model.Draft, error) {
	if !isForm(c) {
		draft := model.NewDraft()
		if err := c.ShouldBindJSON(draft); err != nil {
			return nil, apperr.Validation("invalid model body")
		}
		return draft, nil
	}

	draft := model.NewDraft()
	for _, raw := range c.PostFormArray("photos") {
		for _, line := range strings.Split(raw, "\n") {
			if p := strings.TrimSpace(line); p != "" {
				draft.AddPhoto(p)
			}
		}
	}
	for _, cat := range model.Categories {
		draft.With(cat, c.PostForm(string(cat)))
	}
	return draft, nil
}

// AdminModelDelete 删除模特，必须带 confirm=true
func (h *Handler) AdminModelDelete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "invalid model id")
		return
	}
	if c.Query("confirm") != "true" {
		utils.BadRequest(c, "deletion requires confirm=true")
		return
	}

	if err := h.Admin.DeleteModel(c.Request.Context(), id); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "deleted", gin.H{"id": id})
}

type filterValueRequest struct {
	Value string `form:"value" json:"value"`
}

func filterCategory(c *gin.Context) (model.Category, error) {
	cat, ok := model.ParseCategory(c.Param("category"))
	if !ok {
		return "", apperr.Validation("unknown category: " + c.Param("category"))
	}
	return cat, nil
}

// AdminFilterAdd 向分类追加筛选值
func (h *Handler) AdminFilterAdd(c *gin.Context) {
	cat, err := filterCategory(c)
	if err != nil {
		h.adminError(c, err)
		return
	}

	var req filterValueRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		h.adminError(c, apperr.Validation("invalid filter value"))
		return
	}

	filters, err := h.Admin.AddFilterValue(c.Request.Context(), cat, req.Value)
	if err != nil {
		h.adminError(c, err)
		return
	}

	if isForm(c) {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	utils.Success(c, filters.Normalize())
}

// AdminFilterRemove 删除分类中的筛选值
func (h *Handler) AdminFilterRemove(c *gin.Context) {
	cat, err := filterCategory(c)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	filters, err := h.Admin.RemoveFilterValue(c.Request.Context(), cat, c.Query("value"))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, filters.Normalize())
}

// AdminReload 从后端重新加载目录
func (h *Handler) AdminReload(c *gin.Context) {
	models, filters, err := h.Catalog.Load(c.Request.Context())
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "reloaded", gin.H{
		"models":  len(models),
		"filters": filters.Normalize(),
	})
}
