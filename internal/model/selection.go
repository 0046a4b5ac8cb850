package model

import "net/url"

// Selection 用户当前的筛选条件，每个分类至多一个值，空值表示不限
type Selection map[Category]string

// ParseSelection 从查询参数解析筛选条件，参数名为属性名（如 hairColor）
func ParseSelection(q url.Values) Selection {
	sel := Selection{}
	for _, c := range Categories {
		if v := q.Get(string(c)); v != "" {
			sel[c] = v
		}
	}
	return sel
}

// Matches 模特是否满足全部非空条件
func (s Selection) Matches(m *Model) bool {
	for c, v := range s {
		if v == "" {
			continue
		}
		if m.Get(c) != v {
			return false
		}
	}
	return true
}

// Active 非空条件个数
func (s Selection) Active() int {
	n := 0
	for _, c := range Categories {
		if s[c] != "" {
			n++
		}
	}
	return n
}

// Query 编码为查询参数
func (s Selection) Query() url.Values {
	q := url.Values{}
	for _, c := range Categories {
		if v := s[c]; v != "" {
			q.Set(string(c), v)
		}
	}
	return q
}
