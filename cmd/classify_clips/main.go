// cmd/classify_clips/main.go
// 按命名规则归类骨架下的所有动画，输出每个角色的候选与推荐
//
// 用法：
//   go run cmd/classify_clips/main.go --skeleton=SK_Hero
//   go run cmd/classify_clips/main.go --anims=data/anims --config=data/builder_config.yaml --skeleton=/Game/Hero/SK_Hero

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/decker502/blendspace-builder/internal/animdata"
	"github.com/decker502/blendspace-builder/pkg/classify"
	"github.com/decker502/blendspace-builder/pkg/config"
)

var (
	animsDir     = flag.String("anims", "data/anims", "动画库目录")
	configPath   = flag.String("config", "data/builder_config.yaml", "构建器配置文件路径")
	skeletonName = flag.String("skeleton", "", "骨架路径或名称（为空时列出所有骨架）")
)

func main() {
	flag.Parse()

	lib, err := animdata.LoadLibrary(*animsDir)
	if err != nil {
		log.Fatalf("加载动画库失败: %v", err)
	}

	if *skeletonName == "" {
		fmt.Println("可用骨架:")
		for _, p := range lib.SkeletonPaths() {
			fmt.Printf("  %s\n", p)
		}
		return
	}

	skeleton, ok := lib.FindSkeleton(*skeletonName)
	if !ok {
		log.Fatalf("骨架不存在: %s", *skeletonName)
	}

	cfg := config.LoadBuilderConfigOrDefault(*configPath)
	classifier := classify.NewClassifier(cfg)
	result := classifier.ClassifySkeleton(lib, skeleton)

	fmt.Printf("骨架: %s\n", skeleton.Path())
	fmt.Printf("规则数量: %d\n", classifier.Rules().Len())
	fmt.Printf("已归类: %d，未归类: %d\n\n", result.ClassifiedCount(), len(result.Unclassified))

	for _, role := range result.Roles() {
		rc := result.ByRole[role]
		best, _ := rc.Recommended(cfg.PreferRootMotion)
		fmt.Printf("%-22s 推荐: %s\n", role.DisplayName(), best.Clip.Name)
		for _, c := range rc.Candidates {
			rm := ""
			if c.HasRootMotion {
				rm = " [RM]"
			}
			fmt.Printf("    %-32s 优先级 %3d  位置 (%.0f, %.0f)%s\n",
				c.Clip.Name, c.MatchPriority, c.Position.X(), c.Position.Y(), rm)
		}
	}

	if len(result.Unclassified) > 0 {
		fmt.Println("\n未归类:")
		for _, ref := range result.Unclassified {
			fmt.Printf("    %s\n", ref.Name)
		}
	}
}
