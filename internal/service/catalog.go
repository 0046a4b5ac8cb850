package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/user/modelcatalog/internal/model"
	"golang.org/x/sync/singleflight"
)

// Filter 返回满足全部非空条件的模特，保持原顺序；无条件时原样返回
func Filter(models []model.Model, sel model.Selection) []model.Model {
	if sel.Active() == 0 {
		return models
	}
	out := make([]model.Model, 0, len(models))
	for i := range models {
		if sel.Matches(&models[i]) {
			out = append(out, models[i])
		}
	}
	return out
}

// CountActiveFilters 已选条件个数
func CountActiveFilters(sel model.Selection) int {
	return sel.Active()
}

// loadTimeout 合并后的单次加载上限，与调用方的取消无关
const loadTimeout = 30 * time.Second

// Catalog 当前会话的目录状态
type Catalog struct {
	loader   *Loader
	seedDemo bool
	log      zerolog.Logger
	sf       singleflight.Group

	mu      sync.RWMutex
	models  []model.Model
	filters model.FilterCategories
	demo    bool // 当前模特是未持久化的演示数据

	// 加载序号：started 为已发起的最大序号，installed 为当前状态对应的序号。
	// 序号小于 installed 的加载结果一律丢弃
	started   uint64
	installed uint64
}

// NewCatalog 创建目录；seedDemo 为 true 时后端没有模特则生成演示数据
func NewCatalog(loader *Loader, log zerolog.Logger, seedDemo bool) *Catalog {
	return &Catalog{
		loader:   loader,
		seedDemo: seedDemo,
		log:      log.With().Str("component", "catalog").Logger(),
		models:   []model.Model{},
		filters:  model.DefaultFilters(),
	}
}

type catalogState struct {
	models  []model.Model
	filters model.FilterCategories
}

// Load 从后端刷新；失败时记录日志并保留原状态。并发调用合并为一次请求
func (c *Catalog) Load(ctx context.Context) ([]model.Model, model.FilterCategories, error) {
	v, err, _ := c.sf.Do("load", func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return c.load(lctx)
	})
	if err != nil {
		return nil, model.FilterCategories{}, err
	}
	st := v.(catalogState)
	return st.models, st.filters, nil
}

// Reload 写入成功后使用，不与写入前已开始的加载合并
func (c *Catalog) Reload(ctx context.Context) ([]model.Model, model.FilterCategories, error) {
	c.sf.Forget("load")
	return c.Load(ctx)
}

func (c *Catalog) load(ctx context.Context) (interface{}, error) {
	c.mu.Lock()
	c.started++
	gen := c.started
	c.mu.Unlock()

	models, filters, err := c.loader.LoadCatalog(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("加载目录失败，保留当前数据")
		return nil, err
	}

	demo := false
	if len(models) == 0 && c.seedDemo {
		rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		models = model.GenerateDemo(model.DemoSize, rnd, filters)
		demo = true
		c.log.Info().Int("models", len(models)).Msg("后端无数据，使用演示目录")
	}

	if !c.install(gen, models, filters, demo) {
		c.log.Debug().Uint64("gen", gen).Msg("加载期间目录已更新，丢弃本次结果")
		models, filters = c.Snapshot()
		return catalogState{models: models, filters: filters}, nil
	}
	c.log.Info().Int("models", len(models)).Msg("目录已加载")
	return catalogState{models: models, filters: filters}, nil
}

func (c *Catalog) install(gen uint64, models []model.Model, filters model.FilterCategories, demo bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen < c.installed {
		return false
	}
	c.models = append([]model.Model(nil), models...)
	c.filters = filters.Clone()
	c.demo = demo
	c.installed = gen
	return true
}

// bump 本地修改占用一个新序号，使此前发起、尚未完成的加载失效。调用方持有写锁
func (c *Catalog) bump() {
	c.started++
	c.installed = c.started
}

// Replace 整体替换目录状态
func (c *Catalog) Replace(models []model.Model, filters model.FilterCategories) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = append([]model.Model(nil), models...)
	c.filters = filters.Clone()
	c.demo = false
	c.bump()
}

// Update 在写锁内变换目录状态
func (c *Catalog) Update(fn func([]model.Model, model.FilterCategories) ([]model.Model, model.FilterCategories)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models, c.filters = fn(append([]model.Model(nil), c.models...), c.filters.Clone())
	c.bump()
}

// DropDemo 丢弃演示模特。第一次真实创建模特时调用，演示数据的 ID 不能与后端分配的 ID 并存
func (c *Catalog) DropDemo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.demo {
		return
	}
	c.models = []model.Model{}
	c.demo = false
	c.bump()
}

// Demo 当前是否为演示数据
func (c *Catalog) Demo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.demo
}

// Forget 资源被直接修改时使该 ID 的照片缓存失效
func (c *Catalog) Forget(id int) {
	c.loader.Forget(id)
}

// Snapshot 当前模特与筛选分类的副本
func (c *Catalog) Snapshot() ([]model.Model, model.FilterCategories) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Model(nil), c.models...), c.filters.Clone()
}

// Models 当前模特副本
func (c *Catalog) Models() []model.Model {
	models, _ := c.Snapshot()
	return models
}

// Filters 当前筛选分类副本
func (c *Catalog) Filters() model.FilterCategories {
	_, filters := c.Snapshot()
	return filters
}

// Query 按条件筛选当前目录
func (c *Catalog) Query(sel model.Selection) []model.Model {
	return Filter(c.Models(), sel)
}
