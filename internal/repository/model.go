package repository

import (
	"context"
	"errors"

	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"gorm.io/gorm"
)

// ListLimit 列表接口最多返回的条数
const ListLimit = 50

// ModelRepository 模特仓库
type ModelRepository struct {
	db *gorm.DB
}

// NewModelRepository 创建模特仓库
func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

// modelSummary 列表行，只带照片数量
type modelSummary struct {
	ID          int
	PhotosCount int
	model.Attributes
}

// List 按 ID 倒序列出，不含照片
func (r *ModelRepository) List(ctx context.Context, limit int) ([]model.Model, error) {
	var rows []modelSummary
	err := r.db.WithContext(ctx).
		Model(&model.Model{}).
		Select("id, face_type, eye_color, skin_color, body_type, hair_color, hair_length, hair_type, " +
			"COALESCE(jsonb_array_length(photos), 0) AS photos_count").
		Order("id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Network(err)
	}

	models := make([]model.Model, 0, len(rows))
	for _, row := range rows {
		models = append(models, model.Model{
			ID:          row.ID,
			PhotosCount: row.PhotosCount,
			Attributes:  row.Attributes,
		})
	}
	return models, nil
}

// Get 获取完整模特数据
func (r *ModelRepository) Get(ctx context.Context, id int) (*model.Model, error) {
	var m model.Model
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound.WithMessage("Model not found")
	}
	if err != nil {
		return nil, apperr.Network(err)
	}
	m.PhotosCount = len(m.Photos)
	return &m, nil
}

// Create 在表锁内取 max(id)+1 后插入
func (r *ModelRepository) Create(ctx context.Context, m model.Model) (model.Model, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("LOCK TABLE models IN EXCLUSIVE MODE").Error; err != nil {
			return err
		}
		var maxID int
		if err := tx.Model(&model.Model{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		m.ID = maxID + 1
		return tx.Create(&m).Error
	})
	if err != nil {
		return model.Model{}, apperr.Network(err)
	}
	m.PhotosCount = len(m.Photos)
	return m, nil
}

// Delete 物理删除，ID 不存在时不报错
func (r *ModelRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.WithContext(ctx).Delete(&model.Model{}, id).Error; err != nil {
		return apperr.Network(err)
	}
	return nil
}
