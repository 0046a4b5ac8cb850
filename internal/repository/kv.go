package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
)

// 键值存储中的两个键，值均为整体读写的 JSON
const (
	KeyModels  = "models"
	KeyFilters = "filters"
)

// KV 只支持整值读写的键值存储
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryKV 进程内键值存储，数据随进程结束丢失
type MemoryKV struct {
	c *cache.Cache
}

// NewMemoryKV 创建进程内键值存储
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{c: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.c.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

// RedisKV Redis 键值存储，键名带前缀
type RedisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisKV 创建 Redis 键值存储
func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperr.Network(err)
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return apperr.Network(err)
	}
	return nil
}

// KVStore 基于键值存储的 Store，每次修改都整体写回 models / filters
type KVStore struct {
	kv KV
	mu sync.Mutex
}

// NewKVStore 创建键值 Store
func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) readModels(ctx context.Context) ([]model.Model, error) {
	raw, ok, err := s.kv.Get(ctx, KeyModels)
	if err != nil || !ok {
		return []model.Model{}, err
	}
	var models []model.Model
	if err := json.Unmarshal(raw, &models); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", KeyModels, err)
	}
	for i := range models {
		models[i].PhotosCount = len(models[i].Photos)
	}
	return models, nil
}

func (s *KVStore) writeModels(ctx context.Context, models []model.Model) error {
	raw, err := json.Marshal(models)
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", KeyModels, err)
	}
	return s.kv.Set(ctx, KeyModels, raw)
}

// ListModels 照片全部内联返回
func (s *KVStore) ListModels(ctx context.Context) ([]model.Model, error) {
	return s.readModels(ctx)
}

func (s *KVStore) GetModel(ctx context.Context, id int) (*model.Model, error) {
	models, err := s.readModels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range models {
		if models[i].ID == id {
			return &models[i], nil
		}
	}
	return nil, apperr.ErrNotFound.WithMessage("Model not found")
}

func (s *KVStore) CreateModel(ctx context.Context, m model.Model) (model.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	models, err := s.readModels(ctx)
	if err != nil {
		return model.Model{}, err
	}
	m.ID = model.NextID(models)
	m.PhotosCount = len(m.Photos)
	if err := s.writeModels(ctx, append(models, m)); err != nil {
		return model.Model{}, err
	}
	return m, nil
}

func (s *KVStore) DeleteModel(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	models, err := s.readModels(ctx)
	if err != nil {
		return err
	}
	kept := model.WithoutID(models, id)
	if len(kept) == len(models) {
		return nil
	}
	return s.writeModels(ctx, kept)
}

func (s *KVStore) GetFilters(ctx context.Context) (model.FilterCategories, error) {
	var f model.FilterCategories
	raw, ok, err := s.kv.Get(ctx, KeyFilters)
	if err != nil || !ok {
		return f, err
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("解析 %s 失败: %w", KeyFilters, err)
	}
	return f, nil
}

func (s *KVStore) SaveFilters(ctx context.Context, f model.FilterCategories) error {
	raw, err := json.Marshal(f.Normalize())
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", KeyFilters, err)
	}
	return s.kv.Set(ctx, KeyFilters, raw)
}
