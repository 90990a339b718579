// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TapZone 点击位置所在的水平区域
type TapZone int

const (
	// TapLeft 左侧三分之一
	TapLeft TapZone = iota - 1
	// TapCenter 中间三分之一
	TapCenter
	// TapRight 右侧三分之一
	TapRight
)

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置，触摸优先
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// ZoneOf 把横坐标 x 划分到宽度为 width 的屏幕的左/中/右三个区域
// width <= 0 时总是返回 TapCenter
func ZoneOf(x, width int) TapZone {
	if width <= 0 {
		return TapCenter
	}
	switch {
	case x*3 < width:
		return TapLeft
	case x*3 >= width*2:
		return TapRight
	default:
		return TapCenter
	}
}
