package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"github.com/user/modelcatalog/internal/repository"
)

func sampleModel(photos ...string) model.Model {
	return model.Model{
		Photos: photos,
		Attributes: model.Attributes{
			FaceType:   "Овальное",
			EyeColor:   "Карие",
			SkinColor:  "Светлая",
			BodyType:   "Стройное",
			HairColor:  "Блонд",
			HairLength: "Длинные",
			HairType:   "Прямые",
		},
	}
}

func ids(models []model.Model) []int {
	out := make([]int, 0, len(models))
	for _, m := range models {
		out = append(out, m.ID)
	}
	return out
}

// runStoreContract 所有 Store 实现共同遵守的行为，store 须为空
func runStoreContract(t *testing.T, store repository.Store) {
	ctx := context.Background()

	t.Run("starts empty", func(t *testing.T) {
		models, err := store.ListModels(ctx)
		require.NoError(t, err)
		assert.Empty(t, models)
	})

	t.Run("assigns max plus one", func(t *testing.T) {
		first, err := store.CreateModel(ctx, sampleModel("a.jpg"))
		require.NoError(t, err)
		assert.Equal(t, 1, first.ID)

		second, err := store.CreateModel(ctx, sampleModel("b.jpg", "c.jpg"))
		require.NoError(t, err)
		assert.Equal(t, 2, second.ID)
	})

	t.Run("get returns photos", func(t *testing.T) {
		m, err := store.GetModel(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"b.jpg", "c.jpg"}, m.Photos)
		assert.Equal(t, "Блонд", m.HairColor)
	})

	t.Run("list reports photo counts", func(t *testing.T) {
		models, err := store.ListModels(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{1, 2}, ids(models))
		for _, m := range models {
			assert.Equal(t, m.ID, m.PhotosCount)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := store.GetModel(ctx, 99)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteModel(ctx, 1))
		require.NoError(t, store.DeleteModel(ctx, 99))

		models, err := store.ListModels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, ids(models))
	})

	t.Run("id after delete", func(t *testing.T) {
		m, err := store.CreateModel(ctx, sampleModel("d.jpg"))
		require.NoError(t, err)
		assert.Equal(t, 3, m.ID)
	})

	t.Run("filters round trip", func(t *testing.T) {
		f := model.FilterCategories{
			HairColors: []string{"Блонд", "Блонд"},
			EyeColors:  []string{},
		}
		require.NoError(t, store.SaveFilters(ctx, f))

		got, err := store.GetFilters(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Блонд", "Блонд"}, got.HairColors)
		assert.Empty(t, got.EyeColors)
		assert.Empty(t, got.FaceTypes)
	})
}
