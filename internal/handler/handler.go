package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user/modelcatalog/internal/auth"
	"github.com/user/modelcatalog/internal/config"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/repository"
	"github.com/user/modelcatalog/internal/service"
)

const siteName = "Каталог моделей"

// Handler HTTP 处理器
type Handler struct {
	Catalog *service.Catalog
	Admin   *service.Admin
	Gate    *auth.Gate
	Store   repository.Store
	Config  *config.Config
	log     zerolog.Logger
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, catalog *service.Catalog, admin *service.Admin, gate *auth.Gate, store repository.Store, log zerolog.Logger) *Handler {
	return &Handler{
		Catalog: catalog,
		Admin:   admin,
		Gate:    gate,
		Store:   store,
		Config:  cfg,
		log:     log.With().Str("component", "handler").Logger(),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName": siteName,
		"Path":     c.Request.URL.Path,
		"LoggedIn": h.Gate.StateOf(c) == auth.LoggedIn,
	}
	for k, v := range data {
		res[k] = v
	}
	return res
}

// filterControl 页面上一个分类的筛选控件
type filterControl struct {
	Category model.Category
	Label    string
	Values   []string
	Selected string
}

func filterControls(filters model.FilterCategories, sel model.Selection) []filterControl {
	controls := make([]filterControl, 0, len(model.Categories))
	for _, c := range model.Categories {
		controls = append(controls, filterControl{
			Category: c,
			Label:    c.Label(),
			Values:   filters.Values(c),
			Selected: sel[c],
		})
	}
	return controls
}

// isForm 请求体是否为 HTML 表单
func isForm(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}
