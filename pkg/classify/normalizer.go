// Package classify 按命名约定把动画片段归类到移动角色
package classify

import (
	"regexp"
	"sort"
	"strings"
)

var numericSuffix = regexp.MustCompile(`_?\d+$`)

// NameNormalizer 在匹配规则前清理动画名
//
// 先去掉末尾数字编号（Walk_01 -> Walk），再反复去掉可忽略后缀（忽略大小写，长的优先），
// 两步交替直到名称不再变化，因此 Normalize 是幂等的。
type NameNormalizer struct {
	suffixes []string
}

// NewNameNormalizer 创建名称规范化器
//
// 参数:
//   - suffixes: 可忽略后缀列表，空字符串会被忽略
func NewNameNormalizer(suffixes []string) *NameNormalizer {
	sorted := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s != "" {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return &NameNormalizer{suffixes: sorted}
}

// Normalize 返回规范化后的名称，可能为空字符串
func (n *NameNormalizer) Normalize(name string) string {
	for {
		prev := name
		name = numericSuffix.ReplaceAllString(name, "")
		name = n.stripSuffixes(name)
		if name == prev {
			return name
		}
	}
}

func (n *NameNormalizer) stripSuffixes(name string) string {
	for {
		stripped := false
		for _, s := range n.suffixes {
			if len(name) >= len(s) && strings.EqualFold(name[len(name)-len(s):], s) {
				name = name[:len(name)-len(s)]
				stripped = true
				break
			}
		}
		if !stripped {
			return name
		}
	}
}
