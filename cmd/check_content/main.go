// check_content 检查内容目录：加载全部 YAML、报告公式语法错误并求值每个关卡前几波的生成数量
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/arena/internal/rpn"
	"github.com/decker502/arena/pkg/config"
)

var (
	dataDir = flag.String("data", "data", "内容目录")
	waves   = flag.Int("waves", 5, "每个关卡预览的波数")
	verbose = flag.Bool("verbose", false, "显示加载日志")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	content, err := config.LoadContent(os.ReadFile, *dataDir)
	if err != nil {
		fmt.Printf("❌ 内容加载失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 内容加载成功: %d 个关卡, %d 种敌人, %d 个职业, %d 个遗物, %d 个法术\n",
		len(content.Levels.Levels), len(content.Enemies.Enemies), len(content.Classes.Classes),
		len(content.Relics.Relics), len(content.Spells.Spells))

	issues := content.CheckFormulas()
	for _, issue := range issues {
		fmt.Printf("❌ %s\n", issue)
	}
	if len(issues) == 0 {
		fmt.Printf("✅ 所有公式语法正确\n")
	}

	for _, level := range content.Levels.Levels {
		fmt.Printf("\n关卡 %s（%s）\n", level.Name, waveCountLabel(level))
		for wave := 1; wave <= *waves; wave++ {
			fmt.Printf("  第 %d 波:", wave)
			for _, rule := range level.Spawns {
				kind, ok := content.Enemies.Get(rule.Enemy)
				if !ok {
					fmt.Printf(" %s=?", rule.Enemy)
					continue
				}
				vars := rpn.Vars{config.VarBase: float64(kind.HP), config.VarWave: float64(wave)}
				fmt.Printf(" %s=%d", rule.Enemy, rpn.SafeEvaluateInt(rule.Count, vars, 0))
			}
			fmt.Println()
		}
	}

	if len(issues) > 0 {
		os.Exit(1)
	}
}

func waveCountLabel(level config.LevelDefinition) string {
	if level.IsEndless() {
		return "无尽"
	}
	return fmt.Sprintf("%d 波", level.Waves)
}
