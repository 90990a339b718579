// Package main 离线渲染逐行显示动画为 PNG 序列
//
// Usage:
//
//	go run ./cmd/reveal_snapshot [flags]
//
// Flags:
//
//	--config <path>   配置文件路径（默认 data/reveal.yaml，不存在时使用默认配置）
//	--sample <n>      渲染的示例序号（默认 0）
//	--text <s>        渲染这一段文字，忽略配置中的示例
//	--out <dir>       输出目录（默认 reveal_frames）
//	--fps <n>         帧率（默认 10）
//	--at <ms>         只渲染该时刻的一帧到 <out>/frame.png
//	--verbose         启用详细日志
//
// Purpose:
//   - 在没有窗口的环境里预览动画
//   - 检查遮罩颜色和每行时长的配置效果
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gonewx/linereveal/pkg/config"
	"github.com/gonewx/linereveal/pkg/snapshot"
)

var (
	configFlag  = flag.String("config", "", "Config file path (default: data/reveal.yaml if present)")
	sampleFlag  = flag.Int("sample", 0, "Index of the sample to render")
	textFlag    = flag.String("text", "", "Render this text instead of a configured sample")
	outFlag     = flag.String("out", "reveal_frames", "Output directory")
	fpsFlag     = flag.Int("fps", 10, "Frames per second")
	atFlag      = flag.Int("at", -1, "Render a single frame at this time in milliseconds")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reveal_snapshot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadRevealConfigOrDefault(*configFlag)
	if err != nil {
		return err
	}

	var fontData []byte
	if cfg.FontPath != "" {
		if fontData, err = os.ReadFile(cfg.FontPath); err != nil {
			return fmt.Errorf("failed to read font: %w", err)
		}
	}

	content := cfg.Sample(*sampleFlag)
	if *textFlag != "" {
		content = *textFlag
	}

	renderer, err := snapshot.New(content, snapshot.Options{
		Width:        cfg.ScreenWidth,
		Height:       cfg.ScreenHeight,
		Margin:       cfg.Margin,
		FontData:     fontData,
		FontSize:     cfg.FontSize,
		TextColor:    cfg.TextColor,
		MaskColor:    cfg.MaskColor,
		Background:   cfg.BackgroundColor,
		LineDuration: cfg.LineDuration(),
	})
	if err != nil {
		return err
	}

	if *atFlag >= 0 {
		if err := os.MkdirAll(*outFlag, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
		dc, err := renderer.RenderAt(time.Duration(*atFlag) * time.Millisecond)
		if err != nil {
			return err
		}
		defer dc.Close()
		path := filepath.Join(*outFlag, "frame.png")
		if err := dc.SavePNG(path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		fmt.Println(path)
		return nil
	}

	paths, err := renderer.WriteSequence(*outFlag, *fpsFlag)
	if err != nil {
		return err
	}
	fmt.Printf("%d frames (%v) written to %s\n", len(paths), renderer.TotalDuration(), *outFlag)
	return nil
}
