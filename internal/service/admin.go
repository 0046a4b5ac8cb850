package service

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/repository"
)

// Admin 后台修改操作，先写后端，成功后再更新内存目录
type Admin struct {
	store            repository.Store
	catalog          *Catalog
	loader           *Loader
	reloadAfterWrite bool
	log              zerolog.Logger

	mu sync.Mutex
}

// NewAdmin 创建后台管理器；reloadAfterWrite 为 true 时每次写成功后从后端重新加载
func NewAdmin(store repository.Store, catalog *Catalog, loader *Loader, log zerolog.Logger, reloadAfterWrite bool) *Admin {
	return &Admin{
		store:            store,
		catalog:          catalog,
		loader:           loader,
		reloadAfterWrite: reloadAfterWrite,
		log:              log.With().Str("component", "admin").Logger(),
	}
}

func (a *Admin) commit(ctx context.Context, fn func([]model.Model, model.FilterCategories) ([]model.Model, model.FilterCategories)) {
	if !a.reloadAfterWrite {
		a.catalog.Update(fn)
		return
	}
	if _, _, err := a.catalog.Reload(ctx); err != nil {
		a.log.Warn().Err(err).Msg("写入后重新加载失败")
	}
}

// AddModel 校验草稿并创建模特，ID 为 max(现有 ID)+1
func (a *Admin) AddModel(ctx context.Context, d *model.Draft) (model.Model, error) {
	m, err := d.Build(0)
	if err != nil {
		return model.Model{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	created, err := a.store.CreateModel(ctx, m)
	if err != nil {
		a.log.Error().Err(err).Msg("创建模特失败")
		return model.Model{}, err
	}

	a.catalog.DropDemo()
	a.commit(ctx, func(models []model.Model, f model.FilterCategories) ([]model.Model, model.FilterCategories) {
		return append(models, created), f
	})
	a.log.Info().Int("id", created.ID).Int("photos", len(created.Photos)).Msg("模特已创建")
	return created, nil
}

// DeleteModel 删除模特，ID 不存在时为空操作。调用方须已取得用户确认
func (a *Admin) DeleteModel(ctx context.Context, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.DeleteModel(ctx, id); err != nil {
		a.log.Error().Err(err).Int("id", id).Msg("删除模特失败")
		return err
	}
	a.loader.Forget(id)

	a.commit(ctx, func(models []model.Model, f model.FilterCategories) ([]model.Model, model.FilterCategories) {
		return model.WithoutID(models, id), f
	})
	a.log.Info().Int("id", id).Msg("模特已删除")
	return nil
}

// AddFilterValue 向分类末尾追加值，不去重
func (a *Admin) AddFilterValue(ctx context.Context, c model.Category, value string) (model.FilterCategories, error) {
	if !c.Valid() {
		return model.FilterCategories{}, apperr.Validation("unknown category: " + string(c))
	}
	if strings.TrimSpace(value) == "" {
		return model.FilterCategories{}, apperr.Validation("value must not be empty")
	}

	return a.saveFilters(ctx, func(f model.FilterCategories) model.FilterCategories {
		return f.WithValue(c, value)
	})
}

// RemoveFilterValue 删除分类中所有等于 value 的值；已引用该值的模特不做修改
func (a *Admin) RemoveFilterValue(ctx context.Context, c model.Category, value string) (model.FilterCategories, error) {
	if !c.Valid() {
		return model.FilterCategories{}, apperr.Validation("unknown category: " + string(c))
	}

	return a.saveFilters(ctx, func(f model.FilterCategories) model.FilterCategories {
		return f.WithoutValue(c, value)
	})
}

func (a *Admin) saveFilters(ctx context.Context, change func(model.FilterCategories) model.FilterCategories) (model.FilterCategories, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := change(a.catalog.Filters())
	if err := a.store.SaveFilters(ctx, next); err != nil {
		a.log.Error().Err(err).Msg("保存筛选分类失败")
		return model.FilterCategories{}, err
	}

	a.commit(ctx, func(models []model.Model, _ model.FilterCategories) ([]model.Model, model.FilterCategories) {
		return models, next
	})
	if a.reloadAfterWrite {
		return a.catalog.Filters(), nil
	}
	return next, nil
}
