package systems

import (
	"image"
	"image/color"
	"log"

	"github.com/gonewx/linereveal/pkg/components"
	"github.com/gonewx/linereveal/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// LineRevealRenderSystem 逐行显示文本渲染系统
// 先按默认方式绘制文字，再由控制器决定遮罩矩形
type LineRevealRenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewLineRevealRenderSystem 创建渲染系统
func NewLineRevealRenderSystem(em *ecs.EntityManager) *LineRevealRenderSystem {
	return &LineRevealRenderSystem{
		entityManager: em,
	}
}

// Draw 绘制所有逐行显示文本（按实体创建顺序）
func (s *LineRevealRenderSystem) Draw(screen *ebiten.Image) {
	entities := ecs.GetEntitiesWith1[*components.LineRevealTextComponent](s.entityManager)

	for _, id := range entities {
		comp, ok := ecs.GetComponent[*components.LineRevealTextComponent](s.entityManager, id)
		if !ok || comp.Reveal == nil {
			continue
		}

		canvas := &imageCanvas{dst: screen, originX: comp.X, originY: comp.Y}
		err := comp.Reveal.Draw(canvas, func() error {
			drawLines(screen, comp)
			return nil
		})
		if err != nil {
			log.Printf("[LineRevealRenderSystem] Entity %d draw failed: %v", id, err)
		}
	}
}

// drawLines 默认文字绘制：每行左上角对齐，行距为控制器的行高
func drawLines(screen *ebiten.Image, comp *components.LineRevealTextComponent) {
	lineHeight := float64(comp.Reveal.LineHeight())
	for i, line := range comp.Lines {
		if line == "" {
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(comp.X, comp.Y+float64(i)*lineHeight)
		op.ColorScale.ScaleWithColor(comp.TextColor)
		text.Draw(screen, line, comp.Face, op)
	}
}

// imageCanvas 把控件坐标系的矩形填充到屏幕上
type imageCanvas struct {
	dst              *ebiten.Image
	originX, originY float64
}

// FillRect 实现 reveal.Canvas
func (c *imageCanvas) FillRect(r image.Rectangle, clr color.NRGBA) {
	x, y, w, h := c.screenRect(r)
	vector.DrawFilledRect(c.dst, x, y, w, h, clr, false)
}

// screenRect 控件坐标转屏幕坐标
func (c *imageCanvas) screenRect(r image.Rectangle) (x, y, w, h float32) {
	return float32(c.originX + float64(r.Min.X)),
		float32(c.originY + float64(r.Min.Y)),
		float32(r.Dx()),
		float32(r.Dy())
}
