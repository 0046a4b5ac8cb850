package model

import "strings"

// FilterCategories 各分类的可选值列表
// 分类集合在编译期固定，值列表可增删，允许为空，不做去重
type FilterCategories struct {
	FaceTypes   []string `json:"faceTypes"`
	EyeColors   []string `json:"eyeColors"`
	SkinColors  []string `json:"skinColors"`
	BodyTypes   []string `json:"bodyTypes"`
	HairColors  []string `json:"hairColors"`
	HairLengths []string `json:"hairLengths"`
	HairTypes   []string `json:"hairTypes"`
}

func (f *FilterCategories) list(c Category) *[]string {
	switch c {
	case FaceType:
		return &f.FaceTypes
	case EyeColor:
		return &f.EyeColors
	case SkinColor:
		return &f.SkinColors
	case BodyType:
		return &f.BodyTypes
	case HairColor:
		return &f.HairColors
	case HairLength:
		return &f.HairLengths
	case HairType:
		return &f.HairTypes
	}
	return nil
}

// Values 分类的可选值
func (f FilterCategories) Values(c Category) []string {
	if p := f.list(c); p != nil {
		return *p
	}
	return nil
}

// Clone 深拷贝
func (f FilterCategories) Clone() FilterCategories {
	var out FilterCategories
	for _, c := range Categories {
		if v := f.Values(c); v != nil {
			*out.list(c) = append(make([]string, 0, len(v)), v...)
		}
	}
	return out
}

// WithValue 追加一个值（去除首尾空白），返回新副本
func (f FilterCategories) WithValue(c Category, value string) FilterCategories {
	out := f.Clone()
	if p := out.list(c); p != nil {
		*p = append(*p, strings.TrimSpace(value))
	}
	return out
}

// WithoutValue 删除分类中所有等于 value 的项，返回新副本
func (f FilterCategories) WithoutValue(c Category, value string) FilterCategories {
	out := f.Clone()
	p := out.list(c)
	if p == nil || *p == nil {
		return out
	}
	kept := make([]string, 0, len(*p))
	for _, v := range *p {
		if v != value {
			kept = append(kept, v)
		}
	}
	*p = kept
	return out
}

// MergeDefaults 缺失（nil）的分类用默认值补齐；空列表视为有效值保留
func (f FilterCategories) MergeDefaults(defaults FilterCategories) FilterCategories {
	out := f.Clone()
	for _, c := range Categories {
		if p := out.list(c); *p == nil {
			*p = append([]string{}, defaults.Values(c)...)
		}
	}
	return out
}

// Normalize 把 nil 列表换成空列表，保证 JSON 输出为 []
func (f FilterCategories) Normalize() FilterCategories {
	out := f.Clone()
	for _, c := range Categories {
		if p := out.list(c); *p == nil {
			*p = []string{}
		}
	}
	return out
}
