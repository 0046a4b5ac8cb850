package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/repository"
	"github.com/user/modelcatalog/internal/utils"
	"golang.org/x/sync/errgroup"
)

// LoaderOptions 加载器参数
type LoaderOptions struct {
	Concurrency int           // 照片详情并发请求上限
	CacheSize   int           // 照片详情缓存条数
	CacheTTL    time.Duration // 照片详情缓存有效期
}

// photoKey 照片缓存键。ID 删除后会被复用，只凭 ID 无法区分新旧模特，
// 所以连同属性和照片数一起作为键
type photoKey struct {
	id         int
	attributes model.Attributes
	count      int
}

func keyOf(m *model.Model) photoKey {
	return photoKey{id: m.ID, attributes: m.Attributes, count: m.PhotosCount}
}

// Loader 从 Store 加载目录，并补齐列表中未内联的照片
type Loader struct {
	store       repository.Store
	defaults    model.FilterCategories
	concurrency int
	photos      *utils.TTLCache[photoKey, []string]
	log         zerolog.Logger
}

// NewLoader 创建加载器
func NewLoader(store repository.Store, log zerolog.Logger, opts LoaderOptions) *Loader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 512
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	return &Loader{
		store:       store,
		defaults:    model.DefaultFilters(),
		concurrency: opts.Concurrency,
		photos:      utils.NewTTLCache[photoKey, []string](opts.CacheSize, opts.CacheTTL),
		log:         log.With().Str("component", "loader").Logger(),
	}
}

// LoadCatalog 并发获取模特列表与筛选分类，再并发补齐照片
// 任一主请求失败则整体失败；单个照片详情失败只让该模特没有照片
func (l *Loader) LoadCatalog(ctx context.Context) ([]model.Model, model.FilterCategories, error) {
	var (
		models  []model.Model
		filters model.FilterCategories
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		models, err = l.store.ListModels(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		filters, err = l.store.GetFilters(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, model.FilterCategories{}, fmt.Errorf("加载目录失败: %w", err)
	}

	l.prune(models)
	l.resolvePhotos(ctx, models)

	return models, filters.MergeDefaults(l.defaults), nil
}

// resolvePhotos 结果按下标写回，各 goroutine 互不重叠
func (l *Loader) resolvePhotos(ctx context.Context, models []model.Model) {
	var g errgroup.Group
	g.SetLimit(l.concurrency)

	pending := 0
	for i := range models {
		if !models[i].NeedsPhotos() {
			continue
		}
		pending++
		m := &models[i]
		g.Go(func() error {
			m.Photos = l.Photos(ctx, m)
			return nil
		})
	}
	_ = g.Wait()

	if pending > 0 {
		l.log.Debug().Int("models", len(models)).Int("details", pending).Msg("照片详情已补齐")
	}
}

// Photos 取列表中某个模特的照片，带缓存；失败时记录日志并返回空列表
func (l *Loader) Photos(ctx context.Context, m *model.Model) []string {
	key := keyOf(m)
	if photos, ok := l.photos.Get(key); ok {
		return photos
	}

	full, err := l.store.GetModel(ctx, m.ID)
	if err != nil {
		l.log.Warn().Err(err).Int("id", m.ID).Msg("获取照片详情失败，按无照片处理")
		return []string{}
	}

	l.photos.Set(key, full.Photos)
	return full.Photos
}

// prune 丢弃本次列表中已不存在的 ID 的缓存
func (l *Loader) prune(models []model.Model) {
	live := make(map[int]bool, len(models))
	for i := range models {
		live[models[i].ID] = true
	}
	for _, k := range l.photos.Keys() {
		if !live[k.id] {
			l.photos.Delete(k)
		}
	}
}

// Forget 使某个模特的照片缓存失效
func (l *Loader) Forget(id int) {
	for _, k := range l.photos.Keys() {
		if k.id == id {
			l.photos.Delete(k)
		}
	}
}
