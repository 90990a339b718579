package components

import (
	"image/color"

	"github.com/gonewx/linereveal/pkg/reveal"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// LineRevealTextComponent 逐行显示文本组件
// 保存控件的文本、布局结果和显示控制器
//
// 由 LineRevealSystem 负责布局和帧更新，LineRevealRenderSystem 负责绘制
type LineRevealTextComponent struct {
	// Text 绑定的文本内容
	Text string

	// Lines 布局后的行（按 Width 折行）
	Lines []string

	// X, Y 控件左上角在屏幕上的位置
	X, Y float64

	// Width 控件宽度 W（像素），折行宽度也使用它
	Width int

	// Face 字体
	Face text.Face

	// TextColor 文字颜色
	TextColor color.Color

	// Reveal 显示控制器
	Reveal *reveal.Controller

	// NeedsLayout 文本或宽度变化后置为 true，下一次布局时重新折行并测量
	NeedsLayout bool
}

// Height 控件高度 H = 行数 × 行高
func (c *LineRevealTextComponent) Height() int {
	if c.Reveal == nil {
		return 0
	}
	return len(c.Lines) * c.Reveal.LineHeight()
}
