package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/repository"
	"github.com/user/modelcatalog/internal/service"
)

// flakyStore 包装 KVStore，可注入失败并统计调用
type flakyStore struct {
	*repository.KVStore

	mu           sync.Mutex
	failList     bool
	failFilters  bool
	failWrites   bool
	hidePhotos   bool
	failDetailID map[int]bool

	detailCalls atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	gate        chan struct{}
}

func newFlakyStore() *flakyStore {
	return &flakyStore{
		KVStore:      repository.NewKVStore(repository.NewMemoryKV()),
		failDetailID: map[int]bool{},
	}
}

var errBackend = apperr.Network(errors.New("backend down"))

func (s *flakyStore) ListModels(ctx context.Context) ([]model.Model, error) {
	s.mu.Lock()
	fail, hide := s.failList, s.hidePhotos
	s.mu.Unlock()
	if fail {
		return nil, errBackend
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	models, err := s.KVStore.ListModels(ctx)
	if hide {
		for i := range models {
			models[i].Photos = nil
		}
	}
	return models, err
}

func (s *flakyStore) GetModel(ctx context.Context, id int) (*model.Model, error) {
	s.detailCalls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		old := s.maxInFlight.Load()
		if n <= old || s.maxInFlight.CompareAndSwap(old, n) {
			break
		}
	}
	if s.gate != nil {
		<-s.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	fail := s.failDetailID[id]
	s.mu.Unlock()
	if fail {
		return nil, errBackend
	}
	return s.KVStore.GetModel(ctx, id)
}

func (s *flakyStore) GetFilters(ctx context.Context) (model.FilterCategories, error) {
	s.mu.Lock()
	fail := s.failFilters
	s.mu.Unlock()
	if fail {
		return model.FilterCategories{}, errBackend
	}
	return s.KVStore.GetFilters(ctx)
}

func (s *flakyStore) CreateModel(ctx context.Context, m model.Model) (model.Model, error) {
	if s.writesFail() {
		return model.Model{}, errBackend
	}
	return s.KVStore.CreateModel(ctx, m)
}

func (s *flakyStore) DeleteModel(ctx context.Context, id int) error {
	if s.writesFail() {
		return errBackend
	}
	return s.KVStore.DeleteModel(ctx, id)
}

func (s *flakyStore) SaveFilters(ctx context.Context, f model.FilterCategories) error {
	if s.writesFail() {
		return errBackend
	}
	return s.KVStore.SaveFilters(ctx, f)
}

func (s *flakyStore) writesFail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failWrites
}

func (s *flakyStore) set(fn func(s *flakyStore)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

type fixture struct {
	store   *flakyStore
	loader  *service.Loader
	catalog *service.Catalog
	admin   *service.Admin
}

func newFixture(reload bool) *fixture {
	store := newFlakyStore()
	log := zerolog.Nop()
	loader := service.NewLoader(store, log, service.LoaderOptions{Concurrency: 4})
	catalog := service.NewCatalog(loader, log, false)
	return &fixture{
		store:   store,
		loader:  loader,
		catalog: catalog,
		admin:   service.NewAdmin(store, catalog, loader, log, reload),
	}
}

func draft(photo string, hairColor string) *model.Draft {
	d := model.NewDraft().AddPhoto(photo)
	for _, c := range model.Categories {
		d.With(c, "v-"+string(c))
	}
	return d.With(model.HairColor, hairColor)
}
