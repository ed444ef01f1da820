package skeletal

import "strings"

// IsIKBone 判断骨骼名是否像 IK 目标骨骼
//
// IK 骨骼没有制作的动画，查找脚骨骼时会被跳过。
func IsIKBone(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "ik_") ||
		strings.Contains(lower, "_ik") ||
		strings.HasPrefix(name, "IK")
}

// FindFootBone 按索引顺序查找第一根名称包含任一模式（忽略大小写）的非 IK 骨骼
//
// 参数:
//   - skeleton: 骨架，可为 nil
//   - patterns: 名称匹配模式
//
// 返回:
//   - string: 骨骼名，骨架为 nil 或没有命中时返回空字符串
func FindFootBone(skeleton Skeleton, patterns []string) string {
	if skeleton == nil {
		return ""
	}
	for i := 0; i < skeleton.BoneCount(); i++ {
		name := skeleton.BoneName(i)
		if IsIKBone(name) {
			continue
		}
		lower := strings.ToLower(name)
		for _, p := range patterns {
			if p != "" && strings.Contains(lower, strings.ToLower(p)) {
				return name
			}
		}
	}
	return ""
}

// ChainToRoot 返回从 bone 到根骨骼的索引链（bone 在前）
//
// 父索引数据有环时在 BoneCount 步后截断。
func ChainToRoot(skeleton Skeleton, bone int) []int {
	if skeleton == nil || bone < 0 || bone >= skeleton.BoneCount() {
		return nil
	}
	chain := make([]int, 0, 8)
	for cur := bone; cur != IndexNone && len(chain) <= skeleton.BoneCount(); cur = skeleton.ParentIndex(cur) {
		chain = append(chain, cur)
	}
	return chain
}
