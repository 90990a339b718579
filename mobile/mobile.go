//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。手动构建：
//
//	# Android
//	go generate -tags mobile ./mobile && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.linereveal -o build/android/linereveal.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	go generate -tags mobile ./mobile && ebitenmobile bind -target ios -tags mobile -o build/ios/LineReveal.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/gonewx/linereveal/pkg/app"
	"github.com/gonewx/linereveal/pkg/embedded"
)

func init() {
	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	// 使用内置配置，示例序号沿用上次保存的值
	demo, err := app.NewApp(app.Config{
		Verbose: true,
		Sample:  -1,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	// 注册到 ebitenmobile
	mobile.SetGame(demo)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
