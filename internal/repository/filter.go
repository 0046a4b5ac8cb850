package repository

import (
	"context"
	"time"

	"github.com/user/modelcatalog/internal/apperr"
	"github.com/user/modelcatalog/internal/model"
	"gorm.io/gorm"
)

// filterRow filters 表只使用最新一行
type filterRow struct {
	ID          uint     `gorm:"primaryKey"`
	FaceTypes   []string `gorm:"type:jsonb;serializer:json"`
	EyeColors   []string `gorm:"type:jsonb;serializer:json"`
	SkinColors  []string `gorm:"type:jsonb;serializer:json"`
	BodyTypes   []string `gorm:"type:jsonb;serializer:json"`
	HairColors  []string `gorm:"type:jsonb;serializer:json"`
	HairLengths []string `gorm:"type:jsonb;serializer:json"`
	HairTypes   []string `gorm:"type:jsonb;serializer:json"`
	UpdatedAt   time.Time
}

func (filterRow) TableName() string {
	return "filters"
}

func (row filterRow) categories() model.FilterCategories {
	return model.FilterCategories{
		FaceTypes:   row.FaceTypes,
		EyeColors:   row.EyeColors,
		SkinColors:  row.SkinColors,
		BodyTypes:   row.BodyTypes,
		HairColors:  row.HairColors,
		HairLengths: row.HairLengths,
		HairTypes:   row.HairTypes,
	}.Normalize()
}

func (row *filterRow) assign(f model.FilterCategories) {
	f = f.Normalize()
	row.FaceTypes = f.FaceTypes
	row.EyeColors = f.EyeColors
	row.SkinColors = f.SkinColors
	row.BodyTypes = f.BodyTypes
	row.HairColors = f.HairColors
	row.HairLengths = f.HairLengths
	row.HairTypes = f.HairTypes
}

// FilterRepository 筛选分类仓库
type FilterRepository struct {
	db *gorm.DB
}

// NewFilterRepository 创建筛选分类仓库
func NewFilterRepository(db *gorm.DB) *FilterRepository {
	return &FilterRepository{db: db}
}

// Get 读取最新一行，没有数据时各分类为空列表
func (r *FilterRepository) Get(ctx context.Context) (model.FilterCategories, error) {
	var rows []filterRow
	err := r.db.WithContext(ctx).Order("id DESC").Limit(1).Find(&rows).Error
	if err != nil {
		return model.FilterCategories{}, apperr.Network(err)
	}
	if len(rows) == 0 {
		return model.FilterCategories{}.Normalize(), nil
	}
	return rows[0].categories(), nil
}

// Save 整体覆盖最新一行，表为空时插入
func (r *FilterRepository) Save(ctx context.Context, f model.FilterCategories) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []filterRow
		if err := tx.Order("id DESC").Limit(1).Find(&rows).Error; err != nil {
			return err
		}
		row := filterRow{}
		if len(rows) > 0 {
			row = rows[0]
		}
		row.assign(f)
		return tx.Save(&row).Error
	})
	if err != nil {
		return apperr.Network(err)
	}
	return nil
}
