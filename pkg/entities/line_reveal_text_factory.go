package entities

import (
	"image/color"
	"math"
	"time"

	"github.com/gonewx/linereveal/pkg/components"
	"github.com/gonewx/linereveal/pkg/ecs"
	"github.com/gonewx/linereveal/pkg/reveal"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// LineRevealTextOptions 创建逐行显示文本实体的参数
type LineRevealTextOptions struct {
	X, Y  float64
	Width int

	TextColor color.Color

	// MaskColor 遮罩颜色，nil 时为不透明白色
	MaskColor color.Color

	// LineDuration 每行时长，0 时为 1500ms
	LineDuration time.Duration
}

// NewLineRevealTextEntity 创建逐行显示文本实体
//
// 行高在创建时从字体度量中读取一次。
// 实体创建后处于 idle 状态，调用 LineRevealSystem.BindText 绑定文本后开始动画。
//
// 参数：
//   - em: 实体管理器
//   - clock: 单调时钟
//   - face: 字体
//   - opts: 位置、宽度和颜色
//
// 返回：
//   - ecs.EntityID: 新实体ID
func NewLineRevealTextEntity(em *ecs.EntityManager, clock reveal.Clock, face text.Face, opts LineRevealTextOptions) ecs.EntityID {
	revealOpts := []reveal.Option{
		reveal.WithLineDuration(opts.LineDuration),
		reveal.WithMaskColor(opts.MaskColor),
	}

	textColor := opts.TextColor
	if textColor == nil {
		textColor = color.Black
	}

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, &components.LineRevealTextComponent{
		X:         opts.X,
		Y:         opts.Y,
		Width:     opts.Width,
		Face:      face,
		TextColor: textColor,
		Reveal:    reveal.NewController(clock, LineHeightOf(face), revealOpts...),
	})

	return entityID
}

// LineHeightOf 字体的统一行高 L（上升 + 下降 + 行距，向上取整）
// face 为 nil 时返回 0
func LineHeightOf(face text.Face) int {
	if face == nil {
		return 0
	}
	m := face.Metrics()
	return int(math.Ceil(m.HAscent + m.HDescent + m.HLineGap))
}
