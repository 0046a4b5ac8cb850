package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user/modelcatalog/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息里使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Draft 新模特的表单草稿，所有必填项齐全后才能生成 Model
type Draft struct {
	Photos     []string `json:"photos" validate:"required,min=1,dive,required"`
	Attributes
}

// NewDraft 创建空草稿
func NewDraft() *Draft {
	return &Draft{}
}

// AddPhoto 追加一张照片引用（data URL 或远程 URL）
func (d *Draft) AddPhoto(ref string) *Draft {
	d.Photos = append(d.Photos, ref)
	return d
}

// With 设置一个属性
func (d *Draft) With(c Category, value string) *Draft {
	d.Set(c, value)
	return d
}

// Validate 检查照片与全部属性均已填写
func (d *Draft) Validate() error {
	for _, c := range Categories {
		d.Set(c, strings.TrimSpace(d.Get(c)))
	}

	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if strings.HasPrefix(name, "photos[") {
			name = "photos"
		}
		fields = append(fields, name)
	}
	return apperr.Validation("required fields missing: " + strings.Join(dedup(fields), ", "))
}

// Build 校验通过后以给定 ID 生成 Model
func (d *Draft) Build(id int) (Model, error) {
	if err := d.Validate(); err != nil {
		return Model{}, err
	}
	return Model{
		ID:          id,
		Photos:      append([]string(nil), d.Photos...),
		PhotosCount: len(d.Photos),
		Attributes:  d.Attributes,
	}, nil
}

func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
