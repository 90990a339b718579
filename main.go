package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/linereveal/pkg/app"
	"github.com/gonewx/linereveal/pkg/embedded"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认使用内置 data/reveal.yaml）")
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	sample := flag.Int("sample", -1, "启动时显示的示例序号（-1 表示上次的序号）")
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	demo, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Sample:     *sample,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	width, height := demo.ScreenSize()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("逐行显示文字")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(demo.Fullscreen())

	if err := ebiten.RunGame(demo); err != nil {
		log.Fatal(err)
	}
	demo.SaveOnExit()
}
