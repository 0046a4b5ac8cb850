package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher 定时从后端重新加载目录，多个实例共享同一后端时可看到彼此的修改
type Refresher struct {
	catalog  *Catalog
	interval time.Duration
	log      zerolog.Logger
}

// NewRefresher 创建刷新任务，interval <= 0 时 Start 不做任何事
func NewRefresher(catalog *Catalog, interval time.Duration, log zerolog.Logger) *Refresher {
	return &Refresher{
		catalog:  catalog,
		interval: interval,
		log:      log.With().Str("component", "refresher").Logger(),
	}
}

// Start 启动定时刷新，ctx 取消后退出
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.run(ctx)
			}
		}
	}()
}

func (r *Refresher) run(ctx context.Context) {
	// 单次刷新不超过一个周期
	runCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	models, _, err := r.catalog.Load(runCtx)
	if err != nil {
		// Load 已记录失败原因
		return
	}
	r.log.Debug().Int("models", len(models)).Msg("目录定时刷新完成")
}
