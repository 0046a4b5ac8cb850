package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/modelcatalog/internal/service"
)

func TestRefresherPicksUpExternalWrites(t *testing.T) {
	f := newFixture(false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, _, err := f.catalog.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, f.catalog.Models())

	service.NewRefresher(f.catalog, 10*time.Millisecond, zerolog.Nop()).Start(ctx)

	// 绕过管理器直接写后端，相当于另一个实例的修改
	m, err := draft("p.jpg", "Рыжий").Build(0)
	require.NoError(t, err)
	_, err = f.store.KVStore.CreateModel(ctx, m)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(f.catalog.Models()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRefresherDisabled(t *testing.T) {
	f := newFixture(false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service.NewRefresher(f.catalog, 0, zerolog.Nop()).Start(ctx)

	m, err := draft("p.jpg", "Рыжий").Build(0)
	require.NoError(t, err)
	_, err = f.store.KVStore.CreateModel(ctx, m)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, f.catalog.Models())
}
