package model

// Category 筛选分类（即模特的一个属性字段）
type Category string

const (
	FaceType   Category = "faceType"
	EyeColor   Category = "eyeColor"
	SkinColor  Category = "skinColor"
	BodyType   Category = "bodyType"
	HairColor  Category = "hairColor"
	HairLength Category = "hairLength"
	HairType   Category = "hairType"
)

// Categories 全部分类，顺序即页面展示顺序
var Categories = []Category{FaceType, EyeColor, SkinColor, BodyType, HairColor, HairLength, HairType}

// Plural 筛选资源 JSON 中使用的复数键名，如 hairColors
func (c Category) Plural() string {
	return string(c) + "s"
}

var categoryLabels = map[Category]string{
	FaceType:   "Тип лица",
	EyeColor:   "Цвет глаз",
	SkinColor:  "Цвет кожи",
	BodyType:   "Телосложение",
	HairColor:  "Цвет волос",
	HairLength: "Длина волос",
	HairType:   "Тип волос",
}

// Label 页面上显示的分类名
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid 是否为已知分类
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory 解析分类名，单复数均可
func ParseCategory(s string) (Category, bool) {
	for _, k := range Categories {
		if s == string(k) || s == k.Plural() {
			return k, true
		}
	}
	return "", false
}

// Attributes 模特的分类属性
type Attributes struct {
	FaceType   string `json:"faceType" validate:"required"`
	EyeColor   string `json:"eyeColor" validate:"required"`
	SkinColor  string `json:"skinColor" validate:"required"`
	BodyType   string `json:"bodyType" validate:"required"`
	HairColor  string `json:"hairColor" validate:"required"`
	HairLength string `json:"hairLength" validate:"required"`
	HairType   string `json:"hairType" validate:"required"`
}

// Get 按分类取属性值
func (a *Attributes) Get(c Category) string {
	if p := a.field(c); p != nil {
		return *p
	}
	return ""
}

// Set 按分类设置属性值，未知分类忽略
func (a *Attributes) Set(c Category, v string) {
	if p := a.field(c); p != nil {
		*p = v
	}
}

func (a *Attributes) field(c Category) *string {
	switch c {
	case FaceType:
		return &a.FaceType
	case EyeColor:
		return &a.EyeColor
	case SkinColor:
		return &a.SkinColor
	case BodyType:
		return &a.BodyType
	case HairColor:
		return &a.HairColor
	case HairLength:
		return &a.HairLength
	case HairType:
		return &a.HairType
	}
	return nil
}

// Model 目录中的模特卡片
type Model struct {
	ID     int      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Photos []string `json:"photos,omitempty" gorm:"type:jsonb;serializer:json;not null"`
	// PhotosCount 列表接口只返回照片数量，不内联照片
	PhotosCount int `json:"photosCount,omitempty" gorm:"-"`
	Attributes  `gorm:"embedded"`
}

// TableName 数据表名
func (Model) TableName() string {
	return "models"
}

// NeedsPhotos 列表结果中有照片但未内联，需要再取详情
func (m *Model) NeedsPhotos() bool {
	return m.PhotosCount > 0 && len(m.Photos) == 0
}

// NextID 下一个模特 ID：max(现有 ID) + 1，空列表为 1
func NextID(models []Model) int {
	max := 0
	for _, m := range models {
		if m.ID > max {
			max = m.ID
		}
	}
	return max + 1
}

// WithoutID 删除指定 ID 的模特，其余保持原顺序；ID 不存在时原样返回
func WithoutID(models []Model, id int) []Model {
	out := make([]Model, 0, len(models))
	for _, m := range models {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
