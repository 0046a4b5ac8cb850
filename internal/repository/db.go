package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/user/modelcatalog/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("初始化 gorm 失败: %w", err)
	}
	return db, nil
}

// Migrate 建表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Model{}, &filterRow{})
}

// Repositories Postgres 仓库集合，实现 Store
type Repositories struct {
	DB     *gorm.DB
	Model  *ModelRepository
	Filter *FilterRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:     db,
		Model:  NewModelRepository(db),
		Filter: NewFilterRepository(db),
	}
}

func (r *Repositories) ListModels(ctx context.Context) ([]model.Model, error) {
	return r.Model.List(ctx, ListLimit)
}

func (r *Repositories) GetModel(ctx context.Context, id int) (*model.Model, error) {
	return r.Model.Get(ctx, id)
}

func (r *Repositories) CreateModel(ctx context.Context, m model.Model) (model.Model, error) {
	return r.Model.Create(ctx, m)
}

func (r *Repositories) DeleteModel(ctx context.Context, id int) error {
	return r.Model.Delete(ctx, id)
}

func (r *Repositories) GetFilters(ctx context.Context) (model.FilterCategories, error) {
	return r.Filter.Get(ctx)
}

func (r *Repositories) SaveFilters(ctx context.Context, f model.FilterCategories) error {
	return r.Filter.Save(ctx, f)
}
