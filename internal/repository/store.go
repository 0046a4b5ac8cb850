package repository

import (
	"context"

	"github.com/user/modelcatalog/internal/model"
)

// Store 持久化端口，目录与后台只依赖该接口
//
// 实现：KVStore（go-cache / Redis 键值）、RemoteStore（远程 HTTP 资源）、
// Repositories（Postgres）。
type Store interface {
	// ListModels 列出模特；可只返回 PhotosCount 而不内联照片
	ListModels(ctx context.Context) ([]model.Model, error)
	// GetModel 取单个模特的完整数据，不存在返回 apperr.ErrNotFound
	GetModel(ctx context.Context, id int) (*model.Model, error)
	// CreateModel 以 max(ID)+1 分配 ID 并保存，忽略传入的 ID
	CreateModel(ctx context.Context, m model.Model) (model.Model, error)
	// DeleteModel 删除模特，ID 不存在时不报错
	DeleteModel(ctx context.Context, id int) error
	// GetFilters 读取筛选分类，未保存过的分类为 nil
	GetFilters(ctx context.Context) (model.FilterCategories, error)
	// SaveFilters 整体替换筛选分类
	SaveFilters(ctx context.Context, f model.FilterCategories) error
}
