package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/service"
	"github.com/user/modelcatalog/internal/utils"
)

// ==================== 公开页面 ====================

// Home 目录页，按查询参数筛选
func (h *Handler) Home(c *gin.Context) {
	sel := model.ParseSelection(c.Request.URL.Query())
	models, filters := h.Catalog.Snapshot()
	items := service.Filter(models, sel)
	active := service.CountActiveFilters(sel)

	c.HTML(http.StatusOK, "catalog.html", h.RenderData(c, gin.H{
		"Title":    siteName,
		"Controls": filterControls(filters, sel),
		"Models":   items,
		"Total":    len(items),
		"Active":   active,
	}))
}

// CatalogResult 目录接口返回
type CatalogResult struct {
	Items         []model.Model          `json:"items"`
	Total         int                    `json:"total"`
	ActiveFilters int                    `json:"activeFilters"`
	Filters       model.FilterCategories `json:"filters"`
}

// CatalogAPI 目录 JSON 接口
func (h *Handler) CatalogAPI(c *gin.Context) {
	sel := model.ParseSelection(c.Request.URL.Query())
	models, filters := h.Catalog.Snapshot()
	items := service.Filter(models, sel)
	if items == nil {
		items = []model.Model{}
	}

	utils.Success(c, CatalogResult{
		Items:         items,
		Total:         len(items),
		ActiveFilters: service.CountActiveFilters(sel),
		Filters:       filters.Normalize(),
	})
}
