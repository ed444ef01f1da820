// cmd/build_blendspace/main.go
// 为骨架自动构建 2D 移动混合空间：归类 -> 选择推荐动画 -> 速度分析 -> 轴范围 -> 保存
//
// 用法：
//   go run cmd/build_blendspace/main.go --skeleton=SK_Hero
//   go run cmd/build_blendspace/main.go --skeleton=SK_Hero --analysis=stride --auto-range --print

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/blendspace-builder/internal/animdata"
	"github.com/decker502/blendspace-builder/pkg/blendspace"
	"github.com/decker502/blendspace-builder/pkg/classify"
	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/store"
	"github.com/decker502/blendspace-builder/pkg/types"
)

var (
	animsDir     = flag.String("anims", "data/anims", "动画库目录")
	configPath   = flag.String("config", "data/builder_config.yaml", "构建器配置文件路径")
	skeletonName = flag.String("skeleton", "", "骨架路径或名称")
	name         = flag.String("name", "", "混合空间名称（默认为 骨架名 + 输出后缀）")
	outDir       = flag.String("out", "", "输出目录（默认为骨架所在目录）")
	analysisName = flag.String("analysis", "", "分析方式: root / simple / stride / contact（默认取配置）")
	leftFoot     = flag.String("left-foot", "", "左脚骨骼名（默认按配置匹配）")
	rightFoot    = flag.String("right-foot", "", "右脚骨骼名（默认按配置匹配）")
	autoRange    = flag.Bool("auto-range", false, "根据分析结果计算轴范围")
	noAnalysis   = flag.Bool("no-analysis", false, "不做速度分析，使用角色默认坐标")
	appName      = flag.String("app", "blendspace_builder", "gdata 存储的应用名")
	printYAML    = flag.Bool("print", false, "输出混合空间的 YAML")
)

func main() {
	flag.Parse()

	if *skeletonName == "" {
		fmt.Println("用法: go run cmd/build_blendspace/main.go --skeleton=<骨架路径或名称>")
		os.Exit(1)
	}

	lib, err := animdata.LoadLibrary(*animsDir)
	if err != nil {
		log.Fatalf("加载动画库失败: %v", err)
	}
	skeleton, ok := lib.FindSkeleton(*skeletonName)
	if !ok {
		log.Fatalf("骨架不存在: %s", *skeletonName)
	}

	cfg := config.LoadBuilderConfigOrDefault(*configPath)
	if err := cfg.Validate(); err != nil {
		log.Printf("[BuildBlendSpace] Warning: config has problems:\n%v", err)
	}

	// 归类并为每个角色选出推荐动画
	result := classify.NewClassifier(cfg).ClassifySkeleton(lib, skeleton)
	selection := classify.DefaultSelection(result, cfg.PreferRootMotion)
	if len(selection) == 0 {
		log.Fatalf("骨架 %s 下没有可识别的移动动画", skeleton.Path())
	}

	dir := *outDir
	if dir == "" {
		dir = path.Dir(skeleton.Path())
	}
	bc := blendspace.NewBuildConfig(cfg, skeleton.Path(), *name, dir)
	bc.AutoRange = *autoRange
	bc.ApplyAnalysis = !*noAnalysis
	for _, ca := range selection {
		bc.SelectClassified(ca)
	}

	analysisType := cfg.Analysis.Type
	if *analysisName != "" {
		analysisType, err = types.ParseAnalysisType(*analysisName)
		if err != nil {
			log.Fatalf("无效的分析方式: %v", err)
		}
	}
	bc.SetAnalysis(analysisType, *leftFoot, *rightFoot)

	assets, err := store.NewAssetStore(openGdata(*appName))
	if err != nil {
		log.Printf("[BuildBlendSpace] Warning: %v", err)
	}

	bs, err := blendspace.NewFactory(cfg, lib, assets).CreateLocomotionBlendSpace(bc)
	if err != nil {
		log.Fatalf("构建失败: %v", err)
	}

	x, y := bs.Axis(blendspace.AxisX), bs.Axis(blendspace.AxisY)
	fmt.Printf("混合空间: %s\n", bs.Path)
	fmt.Printf("ID: %s\n", bs.ID)
	fmt.Printf("分析方式: %s\n", bs.Metadata.AnalysisType)
	fmt.Printf("%s: %.0f ~ %.0f (%d 格)\n", x.Name, x.Min, x.Max, x.GridDivisions)
	fmt.Printf("%s: %.0f ~ %.0f (%d 格)\n\n", y.Name, y.Min, y.Max, y.GridDivisions)
	for _, s := range bs.Samples() {
		fmt.Printf("  %-22s %-32s (%.1f, %.1f)\n",
			bs.Metadata.SampleRoles[s.Clip.Path].DisplayName(), s.Clip.Name, s.Position.X(), s.Position.Y())
	}

	if *printYAML {
		data, err := yaml.Marshal(bs)
		if err != nil {
			log.Fatalf("序列化失败: %v", err)
		}
		fmt.Printf("\n%s", data)
	}
}

// openGdata 打开 gdata 存储，失败时返回 nil（存储进入降级模式）
func openGdata(app string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		log.Printf("[BuildBlendSpace] Warning: gdata not available: %v (results kept in memory)", err)
		return nil
	}
	return m
}
