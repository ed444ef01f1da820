// cmd/convert_gait/main.go
// 把已保存的速度型混合空间转换为步态型（方向 × 步态索引）
//
// 用法：
//   go run cmd/convert_gait/main.go --list
//   go run cmd/convert_gait/main.go --path=/Game/Hero/SK_Hero_Locomotion
//   go run cmd/convert_gait/main.go --path=/Game/Hero/SK_Hero_Locomotion --analyze-only
//   go run cmd/convert_gait/main.go --path=/Game/Hero/SK_Hero_Locomotion --anims=""   # 不检查已删除的动画

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/blendspace-builder/internal/animdata"
	"github.com/decker502/blendspace-builder/pkg/blendspace"
	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/store"
)

var (
	configPath  = flag.String("config", "data/builder_config.yaml", "构建器配置文件路径")
	animsDir    = flag.String("anims", "data/anims", "动画库目录，用于移除引用已删除动画的样本；为空时不检查")
	appName     = flag.String("app", "blendspace_builder", "gdata 存储的应用名")
	assetPath   = flag.String("path", "", "要转换的混合空间路径")
	list        = flag.Bool("list", false, "列出已保存的混合空间")
	inPlace     = flag.Bool("in-place", false, "原地转换（不创建副本）")
	analyzeOnly = flag.Bool("analyze-only", false, "只输出分析结果，不转换")
)

func main() {
	flag.Parse()

	manager, err := gdata.Open(gdata.Config{AppName: *appName})
	if err != nil {
		log.Fatalf("无法打开存储: %v", err)
	}
	assets, err := store.NewAssetStore(manager)
	if err != nil {
		log.Fatalf("无法读取存储索引: %v", err)
	}

	if *list {
		for _, p := range assets.List() {
			kind := "?"
			if bs, err := assets.Load(p); err == nil {
				kind = string(bs.Metadata.LocomotionType)
			}
			fmt.Printf("  %-48s %s\n", p, kind)
		}
		return
	}

	if *assetPath == "" {
		fmt.Println("用法: go run cmd/convert_gait/main.go --path=<混合空间路径> | --list")
		os.Exit(1)
	}

	bs, err := assets.Load(*assetPath)
	if err != nil {
		log.Fatalf("加载失败: %v", err)
	}

	if *animsDir != "" {
		lib, err := animdata.LoadLibrary(*animsDir)
		if err != nil {
			log.Printf("[ConvertGait] Warning: cannot load animation library, dangling samples are kept: %v", err)
		} else {
			for _, ref := range bs.PruneDangling(lib) {
				log.Printf("[ConvertGait] Warning: sample '%s' references a deleted animation, removed", ref.Path)
			}
		}
	}

	gaitCfg := config.LoadBuilderConfigOrDefault(*configPath).Gait
	if *inPlace {
		gaitCfg.CreateCopy = false
	}
	converter := blendspace.NewGaitConverter(gaitCfg, assets)

	var result blendspace.ConversionAnalysis
	if *analyzeOnly {
		result, err = converter.Analyze(bs)
	} else {
		var out *blendspace.BlendSpace
		out, result, err = converter.Convert(bs)
		if err == nil && !gaitCfg.CreateCopy {
			// 原地转换由调用方保存
			err = assets.Save(out)
		}
		if err == nil {
			fmt.Printf("输出: %s\n", out.Path)
		}
	}
	if err != nil {
		log.Fatalf("转换失败: %v", err)
	}

	fmt.Printf("\n%-32s %-16s %-22s %s\n", "动画", "速度", "角色", "步态坐标")
	for _, m := range result.Samples {
		fmt.Printf("%-32s (%6.1f, %6.1f) %-22s (%.0f, %.0f)\n",
			m.Clip.Name, m.Speed.X(), m.Speed.Y(), m.Role.DisplayName(), m.GaitPosition.X(), m.GaitPosition.Y())
	}

	th := result.RecommendedThresholds()
	fmt.Printf("\n步行速度: %.0f  跑步速度: %.0f\n", result.MaxWalkSpeed, result.MaxRunSpeed)
	fmt.Printf("推荐阈值: IdleToWalk %.0f | WalkToRun %.0f\n", th.IdleToWalk, th.WalkToRun)
}
