package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/repository"
)

// ==================== 后端资源 ====================
// 与 RemoteStore 对接的 models / filters 资源，返回裸 JSON，错误为 {"error": "..."}

func resourceError(c *gin.Context, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}
	c.JSON(apperr.Code(err), gin.H{"error": apperr.Message(err)})
}

func modelID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return 0, false
	}
	return id, true
}

// refresh 资源被直接修改后刷新本实例的目录
func (h *Handler) refresh(c *gin.Context) {
	if _, _, err := h.Catalog.Reload(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Msg("资源写入后刷新目录失败")
	}
}

// listView 最新的在前，最多 ListLimit 条，照片只保留数量
func listView(models []model.Model) []model.Model {
	out := make([]model.Model, len(models))
	copy(out, models)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > repository.ListLimit {
		out = out[:repository.ListLimit]
	}
	for i := range out {
		if len(out[i].Photos) > 0 {
			out[i].PhotosCount = len(out[i].Photos)
			out[i].Photos = nil
		}
	}
	return out
}

// ModelsGet GET /api/models，带 id 时返回详情
func (h *Handler) ModelsGet(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("id") != "" {
		id, ok := modelID(c)
		if !ok {
			return
		}
		m, err := h.Store.GetModel(ctx, id)
		if err != nil {
			resourceError(c, err)
			return
		}
		m.PhotosCount = 0
		c.JSON(http.StatusOK, m)
		return
	}

	models, err := h.Store.ListModels(ctx)
	if err != nil {
		resourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listView(models))
}

// ModelsCreate POST /api/models
func (h *Handler) ModelsCreate(c *gin.Context) {
	draft := model.NewDraft()
	if err := c.ShouldBindJSON(draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	m, err := draft.Build(0)
	if err != nil {
		resourceError(c, err)
		return
	}

	created, err := h.Store.CreateModel(c.Request.Context(), m)
	if err != nil {
		resourceError(c, err)
		return
	}
	h.Catalog.Forget(created.ID)
	h.refresh(c)
	c.JSON(http.StatusCreated, gin.H{"id": created.ID})
}

// ModelsDelete DELETE /api/models?id=，ID 不存在同样返回成功
func (h *Handler) ModelsDelete(c *gin.Context) {
	id, ok := modelID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteModel(c.Request.Context(), id); err != nil {
		resourceError(c, err)
		return
	}
	h.Catalog.Forget(id)
	h.refresh(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FiltersGet GET /api/filters，未保存过时各分类为空列表
func (h *Handler) FiltersGet(c *gin.Context) {
	f, err := h.Store.GetFilters(c.Request.Context())
	if err != nil {
		resourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, f.Normalize())
}

// FiltersPut PUT /api/filters，整体替换，缺失的分类保存为空列表
func (h *Handler) FiltersPut(c *gin.Context) {
	var f model.FilterCategories
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := h.Store.SaveFilters(c.Request.Context(), f.Normalize()); err != nil {
		resourceError(c, err)
		return
	}
	h.refresh(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
