// Package snapshot 离线渲染逐行显示动画
//
// 使用 gogpu/gg 的软件光栅化在内存画布上绘制指定时刻的帧，
// 时间由手动时钟驱动，因此同样的参数总是得到同样的图像。
// 主要用于生成预览 PNG 序列和在没有窗口的环境里检查渲染结果。
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/linereveal/pkg/reveal"
)

// Options 离线渲染参数
type Options struct {
	// Width / Height 画布尺寸（像素）
	Width, Height int
	// Margin 控件距画布边缘的距离
	Margin int
	// FontData TTF/OTF 字体数据，nil 时使用内置 Go Regular
	FontData []byte
	// FontSize 字号（像素）
	FontSize float64

	TextColor  color.Color
	MaskColor  color.Color
	Background color.Color

	// LineDuration 每行时长，0 时为 1500ms
	LineDuration time.Duration
}

// Renderer 离线渲染器
// 创建时完成布局并启动动画，之后按非递减的时间渲染帧
type Renderer struct {
	opts  Options
	clock *reveal.ManualClock

	face       text.Face
	ascent     float64
	lines      []string
	controller *reveal.Controller
}

// New 布局文本并在时刻 0 启动动画
func New(content string, opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}
	if opts.FontSize <= 0 {
		return nil, fmt.Errorf("invalid font size %.1f", opts.FontSize)
	}
	if opts.TextColor == nil {
		opts.TextColor = color.Black
	}
	opts.MaskColor = reveal.OpaqueMaskColor(opts.MaskColor)
	if opts.Background == nil {
		opts.Background = opts.MaskColor
	}

	fontData := opts.FontData
	if fontData == nil {
		fontData = goregular.TTF
	}
	source, err := text.NewFontSource(fontData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := source.Face(opts.FontSize)
	metrics := face.Metrics()

	r := &Renderer{
		opts:   opts,
		clock:  reveal.NewManualClock(),
		face:   face,
		ascent: metrics.Ascent,
	}

	width := opts.Width - 2*opts.Margin
	r.lines = reveal.WrapLines(content, float64(width), func(s string) float64 {
		w, _ := text.Measure(s, face)
		return w
	})

	lineHeight := int(math.Ceil(metrics.LineHeight()))
	r.controller = reveal.NewController(r.clock, lineHeight,
		reveal.WithMaskColor(opts.MaskColor),
		reveal.WithLineDuration(opts.LineDuration),
	)
	r.controller.Arm()
	r.controller.Measure(width, len(r.lines)*lineHeight, len(r.lines))
	if r.controller.Start() {
		log.Printf("[Snapshot] Started: %d lines, L=%d, %v", len(r.lines), lineHeight, r.controller.TotalDuration())
	}
	return r, nil
}

// Controller 底层控制器
func (r *Renderer) Controller() *reveal.Controller {
	return r.controller
}

// Lines 布局得到的行
func (r *Renderer) Lines() []string {
	return r.lines
}

// TotalDuration 动画总时长，没有可显示的行时为 0
func (r *Renderer) TotalDuration() time.Duration {
	return r.controller.TotalDuration()
}

// RenderAt 渲染时刻 t 的帧
// t 不能早于上一次渲染的时刻
func (r *Renderer) RenderAt(t time.Duration) (*gg.Context, error) {
	if t < r.clock.Now() {
		return nil, fmt.Errorf("frame time %v is before previous frame %v", t, r.clock.Now())
	}
	r.clock.Set(t)
	r.controller.OnFrame()

	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.ClearWithColor(gg.FromColor(r.opts.Background))

	canvas := &contextCanvas{dc: dc, offset: float64(r.opts.Margin)}
	if err := r.controller.Draw(canvas, func() error { return r.drawText(dc) }); err != nil {
		dc.Close()
		return nil, err
	}
	if canvas.err != nil {
		dc.Close()
		return nil, fmt.Errorf("failed to fill mask: %w", canvas.err)
	}
	return dc, nil
}

// Image 渲染时刻 t 的帧并返回图像
func (r *Renderer) Image(t time.Duration) (image.Image, error) {
	dc, err := r.RenderAt(t)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// WriteSequence 以 fps 帧率渲染整个动画并保存为 PNG 序列
//
// 最后一帧总是动画结束后的完整文字。文件名为 frame_0000.png, frame_0001.png ...
//
// 返回：
//   - []string: 写出的文件路径
//   - error: 渲染或写文件失败
func (r *Renderer) WriteSequence(dir string, fps int) ([]string, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid fps %d", fps)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	total := r.TotalDuration()
	step := time.Second / time.Duration(fps)
	start := r.clock.Now()

	var paths []string
	for i := 0; ; i++ {
		t := start + time.Duration(i)*step
		last := t >= start+total
		if last {
			t = start + total
		}

		dc, err := r.RenderAt(t)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		err = dc.SavePNG(path)
		dc.Close()
		if err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)

		if last {
			break
		}
	}

	log.Printf("[Snapshot] Wrote %d frames to %s", len(paths), dir)
	return paths, nil
}

func (r *Renderer) drawText(dc *gg.Context) error {
	dc.SetFont(r.face)
	dc.SetColor(r.opts.TextColor)

	lineHeight := float64(r.controller.LineHeight())
	x := float64(r.opts.Margin)
	for i, line := range r.lines {
		y := float64(r.opts.Margin) + float64(i)*lineHeight + r.ascent
		dc.DrawString(line, x, y)
	}
	return nil
}

// contextCanvas 在 gg 画布上填充遮罩矩形
// 记录第一次填充失败，Draw 结束后由 RenderAt 返回
type contextCanvas struct {
	dc     *gg.Context
	offset float64
	err    error
}

func (c *contextCanvas) FillRect(rect image.Rectangle, clr color.NRGBA) {
	if c.err != nil {
		return
	}
	// 非预乘分量，gg 负责混合
	c.dc.SetRGBA(float64(clr.R)/255, float64(clr.G)/255, float64(clr.B)/255, float64(clr.A)/255)
	c.dc.DrawRectangle(
		c.offset+float64(rect.Min.X),
		c.offset+float64(rect.Min.Y),
		float64(rect.Dx()),
		float64(rect.Dy()),
	)
	c.err = c.dc.Fill()
}
