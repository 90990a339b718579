// Package termhost 在终端里承载逐行显示控件
//
// 一个字符行就是一行文字（L = 1），宽度以列计。遮罩没有真正的透明度，
// 渲染时把遮罩颜色按 alpha 混合进被覆盖单元格的前景色和背景色。
package termhost

import (
	"image"
	"image/color"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/gonewx/linereveal/pkg/reveal"
)

// Screen 宿主需要的终端能力，tcell.Screen 直接满足
type Screen interface {
	Init() error
	Fini()
	Size() (int, int)
	Clear()
	Show()
	Sync()
	HideCursor()
	PollEvent() tcell.Event
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	GetContent(x, y int) (rune, []rune, tcell.Style, int)
}

// Options 终端宿主参数
type Options struct {
	// Margin 控件距终端边缘的列数/行数
	Margin int
	// MaskColor 遮罩颜色，nil 时为白色
	MaskColor color.Color
	// TextColor 文字颜色，nil 时为黑色
	TextColor color.Color
	// Background 背景颜色，nil 时与遮罩颜色相同
	Background color.Color
	// LineDuration 每行时长，0 时为 1500ms
	LineDuration time.Duration
}

// Host 终端宿主：持有一个控件，负责布局、帧回调和绘制
type Host struct {
	screen Screen
	clock  reveal.Clock

	margin     int
	textStyle  tcell.Style
	background tcell.Style
	revealOpts []reveal.Option

	controller  *reveal.Controller
	text        string
	lines       []string
	needsLayout bool
	// pendingStart 绑定文本后投递的启动，在下一次布局之后执行
	pendingStart bool
}

// NewHost 创建终端宿主
func NewHost(screen Screen, clock reveal.Clock, opts Options) *Host {
	mask := reveal.OpaqueMaskColor(opts.MaskColor)
	var textColor color.Color = color.Black
	if opts.TextColor != nil {
		textColor = opts.TextColor
	}
	var background color.Color = mask
	if opts.Background != nil {
		background = opts.Background
	}

	bg := toTcell(background)
	revealOpts := []reveal.Option{
		reveal.WithMaskColor(mask),
		reveal.WithLineDuration(opts.LineDuration),
	}

	h := &Host{
		screen:     screen,
		clock:      clock,
		margin:     opts.Margin,
		textStyle:  tcell.StyleDefault.Foreground(toTcell(textColor)).Background(bg),
		background: tcell.StyleDefault.Foreground(bg).Background(bg),
		revealOpts: revealOpts,
	}
	h.controller = h.newController()
	return h
}

func (h *Host) newController() *reveal.Controller {
	return reveal.NewController(h.clock, 1, h.revealOpts...)
}

// Controller 当前控件的控制器
func (h *Host) Controller() *reveal.Controller {
	return h.controller
}

// Lines 最近一次布局得到的行
func (h *Host) Lines() []string {
	return h.lines
}

// BindText 绑定文本，动画在下一次布局之后启动
func (h *Host) BindText(s string) {
	if h.controller.State() == reveal.StateDetached {
		return
	}
	h.text = s
	h.needsLayout = true
	h.pendingStart = true
	h.controller.Arm()
}

// Detach 分离控件，丢弃尚未执行的启动
func (h *Host) Detach() {
	h.pendingStart = false
	h.controller.Detach()
	log.Printf("[TermHost] Widget detached")
}

// Reattach 用新的控制器重新挂载控件并绑定 s
func (h *Host) Reattach(s string) {
	h.controller = h.newController()
	h.lines = nil
	h.BindText(s)
	log.Printf("[TermHost] Widget re-created")
}

// Resize 终端尺寸变化，下一帧重新布局
func (h *Host) Resize() {
	h.needsLayout = true
}

// Tick 执行一帧：布局、投递的启动、帧回调
func (h *Host) Tick() {
	if h.controller.State() == reveal.StateDetached {
		return
	}
	if h.needsLayout {
		h.layout()
	}
	if h.pendingStart {
		h.pendingStart = false
		if h.controller.Start() {
			log.Printf("[TermHost] Reveal started: %d lines, %v", h.controller.LineCount(), h.controller.TotalDuration())
		}
	}

	wasRunning := h.controller.IsRunning()
	h.controller.OnFrame()
	if wasRunning && !h.controller.IsRunning() {
		log.Printf("[TermHost] Reveal complete")
	}
}

func (h *Host) layout() {
	h.needsLayout = false

	width := h.widgetWidth()
	h.lines = reveal.WrapLines(h.text, float64(width), func(s string) float64 {
		return float64(runewidth.StringWidth(s))
	})
	if h.controller.Measure(width, len(h.lines), len(h.lines)) {
		log.Printf("[TermHost] Re-measured %dx%d, reveal restarted", width, len(h.lines))
	}
}

func (h *Host) widgetWidth() int {
	w, _ := h.screen.Size()
	if w -= 2 * h.margin; w < 1 {
		w = 1
	}
	return w
}

// Draw 绘制一帧并刷新终端
func (h *Host) Draw() error {
	h.screen.Clear()
	cols, rows := h.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			h.screen.SetContent(x, y, ' ', nil, h.background)
		}
	}

	err := h.controller.Draw(&cellCanvas{host: h}, h.drawText)
	h.screen.Show()
	return err
}

// drawText 默认文字绘制：每行一个字符行，超出控件宽度的部分截断
func (h *Host) drawText() error {
	width := h.widgetWidth()
	for i, line := range h.lines {
		x := 0
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if rw == 0 {
				continue
			}
			if x+rw > width {
				break
			}
			h.screen.SetContent(h.margin+x, h.margin+i, r, nil, h.textStyle)
			x += rw
		}
	}
	return nil
}

// cellCanvas 把遮罩矩形混合进终端单元格
type cellCanvas struct {
	host *Host
}

func (c *cellCanvas) FillRect(r image.Rectangle, clr color.NRGBA) {
	h := c.host
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sx, sy := h.margin+x, h.margin+y
			mainc, combc, style, _ := h.screen.GetContent(sx, sy)
			fg, bg, attrs := style.Decompose()
			style = tcell.StyleDefault.
				Foreground(blendColor(fg, clr)).
				Background(blendColor(bg, clr)).
				Attributes(attrs)
			h.screen.SetContent(sx, sy, mainc, combc, style)
		}
	}
}

// blendColor 按遮罩 alpha 在原色和遮罩色之间线性插值
func blendColor(original tcell.Color, mask color.NRGBA) tcell.Color {
	if !original.Valid() || mask.A == 0xFF {
		return tcell.NewRGBColor(int32(mask.R), int32(mask.G), int32(mask.B))
	}
	r1, g1, b1 := original.RGB()
	a := int32(mask.A)
	mix := func(o, m int32) int32 {
		return (o*(255-a) + m*a) / 255
	}
	return tcell.NewRGBColor(mix(r1, int32(mask.R)), mix(g1, int32(mask.G)), mix(b1, int32(mask.B)))
}

// toTcell 终端单元格没有 alpha，只取非预乘的 RGB
func toTcell(clr color.Color) tcell.Color {
	c := reveal.OpaqueMaskColor(clr)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
