// Package main 在终端里演示逐行显示文字
//
// Usage:
//
//	go run ./cmd/reveal_term [flags]
//
// Flags:
//
//	--config <path>   配置文件路径（默认 data/reveal.yaml，不存在时使用默认配置）
//	--sample <n>      第一个显示的示例序号（默认 0）
//	--text <s>        只显示这一段文字，忽略配置中的示例
//	--fps <n>         帧率（默认 30）
//	--verbose         启用详细日志（写到 stderr 会打乱画面，建议重定向）
//
// Controls:
//
//	Space     - 下一个示例
//	D         - 分离 / 重新创建控件
//	Esc, Q    - 退出
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/linereveal/pkg/config"
	"github.com/gonewx/linereveal/pkg/reveal"
	"github.com/gonewx/linereveal/pkg/termhost"
)

var (
	configFlag  = flag.String("config", "", "Config file path (default: data/reveal.yaml if present)")
	sampleFlag  = flag.Int("sample", 0, "Index of the first sample to show")
	textFlag    = flag.String("text", "", "Show only this text instead of the configured samples")
	fpsFlag     = flag.Int("fps", 30, "Frames per second")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadRevealConfigOrDefault(*configFlag)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to load config: %v", err)
	}

	samples := cfg.Samples
	if *textFlag != "" {
		samples = []string{*textFlag}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to create screen: %v", err)
	}

	host := termhost.NewHost(screen, reveal.NewMonotonicClock(), termhost.Options{
		Margin:       1,
		MaskColor:    cfg.MaskColor,
		TextColor:    cfg.TextColor,
		Background:   cfg.BackgroundColor,
		LineDuration: cfg.LineDuration(),
	})
	demo := termhost.NewDemo(host, samples, *sampleFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interval := termhost.DefaultFrameInterval
	if *fpsFlag > 0 {
		interval = time.Second / time.Duration(*fpsFlag)
	}
	if err := demo.Run(ctx, interval); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Terminal demo failed: %v", err)
	}
}
