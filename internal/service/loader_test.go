package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/service"
)

func seed(t *testing.T, s *flakyStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.CreateModel(context.Background(), model.Model{Photos: []string{"p.jpg"}})
		require.NoError(t, err)
	}
}

func TestLoader_ResolvesMissingPhotos(t *testing.T) {
	store := newFlakyStore()
	seed(t, store, 3)
	store.set(func(s *flakyStore) { s.hidePhotos = true })
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})

	models, _, err := loader.LoadCatalog(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 3)
	for _, m := range models {
		assert.Equal(t, []string{"p.jpg"}, m.Photos)
	}
	assert.Equal(t, int32(3), store.detailCalls.Load())
}

func TestLoader_SkipsInlinedPhotos(t *testing.T) {
	store := newFlakyStore()
	seed(t, store, 2)
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})

	_, _, err := loader.LoadCatalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(0), store.detailCalls.Load())
}

func TestLoader_DetailFailureDegradesToNoPhotos(t *testing.T) {
	store := newFlakyStore()
	seed(t, store, 3)
	store.set(func(s *flakyStore) {
		s.hidePhotos = true
		s.failDetailID[2] = true
	})
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})

	models, _, err := loader.LoadCatalog(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 3)
	assert.Equal(t, []string{"p.jpg"}, models[0].Photos)
	assert.Empty(t, models[1].Photos)
	assert.Equal(t, 2, models[1].ID)
	assert.Equal(t, []string{"p.jpg"}, models[2].Photos)
}

func TestLoader_BoundsDetailConcurrency(t *testing.T) {
	store := newFlakyStore()
	seed(t, store, 10)
	store.set(func(s *flakyStore) { s.hidePhotos = true })
	store.gate = make(chan struct{})
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{Concurrency: 3})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = loader.LoadCatalog(context.Background())
	}()
	for i := 0; i < 10; i++ {
		store.gate <- struct{}{}
	}
	<-done

	assert.LessOrEqual(t, store.maxInFlight.Load(), int32(3))
	assert.Equal(t, int32(10), store.detailCalls.Load())
}

func TestLoader_CachesPhotosUntilForgotten(t *testing.T) {
	store := newFlakyStore()
	seed(t, store, 1)
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})
	ctx := context.Background()
	entry := &model.Model{ID: 1, PhotosCount: 1}

	assert.Equal(t, []string{"p.jpg"}, loader.Photos(ctx, entry))
	assert.Equal(t, []string{"p.jpg"}, loader.Photos(ctx, entry))
	assert.Equal(t, int32(1), store.detailCalls.Load())

	loader.Forget(1)
	loader.Photos(ctx, entry)
	assert.Equal(t, int32(2), store.detailCalls.Load())
}

// 删除后 ID 被复用，新模特不能拿到旧模特的照片
func TestLoader_ReusedIDDoesNotServeStalePhotos(t *testing.T) {
	store := newFlakyStore()
	ctx := context.Background()
	old, err := draft("old.jpg", "Блонд").Build(0)
	require.NoError(t, err)
	_, err = store.KVStore.CreateModel(ctx, old)
	require.NoError(t, err)
	store.set(func(s *flakyStore) { s.hidePhotos = true })
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})

	models, _, err := loader.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, []string{"old.jpg"}, models[0].Photos)

	// 绕过加载器删除并重建，新模特仍得到 ID 1
	require.NoError(t, store.KVStore.DeleteModel(ctx, 1))
	fresh, err := draft("new.jpg", "Рыжий").Build(0)
	require.NoError(t, err)
	created, err := store.KVStore.CreateModel(ctx, fresh)
	require.NoError(t, err)
	require.Equal(t, 1, created.ID)

	models, _, err = loader.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "Рыжий", models[0].HairColor)
	assert.Equal(t, []string{"new.jpg"}, models[0].Photos)
}

func TestLoader_PrunesCacheForRemovedModels(t *testing.T) {
	store := newFlakyStore()
	ctx := context.Background()
	m, err := draft("a.jpg", "Блонд").Build(0)
	require.NoError(t, err)
	_, err = store.KVStore.CreateModel(ctx, m)
	require.NoError(t, err)
	store.set(func(s *flakyStore) { s.hidePhotos = true })
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})

	_, _, err = loader.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), store.detailCalls.Load())

	// 中间有一次加载看不到它，缓存被清掉，再次出现时重新取详情
	require.NoError(t, store.KVStore.DeleteModel(ctx, 1))
	_, _, err = loader.LoadCatalog(ctx)
	require.NoError(t, err)
	_, err = store.KVStore.CreateModel(ctx, m)
	require.NoError(t, err)
	_, _, err = loader.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), store.detailCalls.Load())
}

func TestLoader_FillsMissingCategoriesFromDefaults(t *testing.T) {
	store := newFlakyStore()
	require.NoError(t, store.KVStore.SaveFilters(context.Background(), model.FilterCategories{
		HairColors: []string{"Синий"},
	}))
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})

	_, filters, err := loader.LoadCatalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Синий"}, filters.HairColors)
	// SaveFilters 写入了空列表，空列表不算缺失
	assert.Empty(t, filters.EyeColors)
}

func TestLoader_NoStoredFiltersUsesDefaults(t *testing.T) {
	loader := service.NewLoader(newFlakyStore(), zerolog.Nop(), service.LoaderOptions{})

	_, filters, err := loader.LoadCatalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.DefaultFilters(), filters)
}

func TestLoader_ListFailureFailsLoad(t *testing.T) {
	store := newFlakyStore()
	store.set(func(s *flakyStore) { s.failList = true })
	loader := service.NewLoader(store, zerolog.Nop(), service.LoaderOptions{})

	_, _, err := loader.LoadCatalog(context.Background())

	assert.ErrorIs(t, err, apperr.ErrNetwork)
}
