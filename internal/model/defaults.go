package model

import "math/rand/v2"

// DefaultFilters 内置的默认分类值
func DefaultFilters() FilterCategories {
	return FilterCategories{
		FaceTypes:   []string{"Овальное", "Круглое", "Квадратное", "Сердцевидное"},
		EyeColors:   []string{"Голубые", "Зелёные", "Карие", "Серые"},
		SkinColors:  []string{"Светлая", "Оливковая", "Смуглая", "Тёмная"},
		BodyTypes:   []string{"Стройное", "Спортивное", "Пышное", "Среднее"},
		HairColors:  []string{"Блонд", "Брюнет", "Рыжий", "Русый", "Чёрный"},
		HairLengths: []string{"Короткие", "Средние", "Длинные", "Очень длинные"},
		HairTypes:   []string{"Прямые", "Волнистые", "Кудрявые"},
	}
}

// DemoSize 演示目录的模特数量
const DemoSize = 100

// GenerateDemo 生成 n 个属性随机的演示模特，ID 从 1 开始，无照片
func GenerateDemo(n int, rnd *rand.Rand, filters FilterCategories) []Model {
	models := make([]Model, 0, n)
	for i := 1; i <= n; i++ {
		m := Model{ID: i}
		for _, c := range Categories {
			if values := filters.Values(c); len(values) > 0 {
				m.Set(c, values[rnd.IntN(len(values))])
			}
		}
		models = append(models, m)
	}
	return models
}
