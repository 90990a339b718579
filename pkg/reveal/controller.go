// Package reveal 实现逐行显示文字的遮罩动画
//
// 文字先完整绘制，再被不透明遮罩覆盖；遮罩随时间向下退去，
// 正在显示的那一行遮罩从不透明渐变到透明，下方的行保持完全遮挡。
//
// Controller 不依赖任何图形库：宿主（ebiten、终端、离线渲染）负责
// 测量尺寸、每帧调用 OnFrame、提供文字绘制回调和矩形填充能力。
// 所有方法都只应在宿主的显示线程上调用。
package reveal

import (
	"image"
	"image/color"
	"time"
)

// DefaultMaskColor 默认遮罩颜色（不透明白色）
var DefaultMaskColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Option 控制器构造选项
type Option func(*Controller)

// straightColor 能直接给出非预乘分量的颜色（例如配置里的 HexColor）
type straightColor interface {
	Straight() color.NRGBA
}

// OpaqueMaskColor 把任意颜色规整为不透明的遮罩颜色
// nil 返回 DefaultMaskColor；alpha 通道被忽略
func OpaqueMaskColor(clr color.Color) color.NRGBA {
	var c color.NRGBA
	switch v := clr.(type) {
	case nil:
		return DefaultMaskColor
	case color.NRGBA:
		c = v
	case straightColor:
		c = v.Straight()
	default:
		c = color.NRGBAModel.Convert(clr).(color.NRGBA)
	}
	return withAlpha(c, 0xFF)
}

// WithMaskColor 设置遮罩颜色，alpha 通道被忽略（由渲染器逐行提供）
// nil 时使用默认颜色
func WithMaskColor(clr color.Color) Option {
	return func(c *Controller) {
		c.maskColor = OpaqueMaskColor(clr)
	}
}

// WithLineDuration 设置每行时长，<= 0 时保持默认值
func WithLineDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.lineDuration = d
		}
	}
}

// Controller 逐行显示控制器
//
// 持有动画驱动器（值语义，没有回调注册），宿主每帧调用 OnFrame 拉取进度。
type Controller struct {
	clock  Clock
	driver Driver

	lineDuration time.Duration
	maskColor    color.NRGBA

	width      int
	height     int
	lineHeight int
	lineCount  int

	activeLine    int
	lineEnteredAt time.Duration

	state State
	// bound 是否已经绑定过文本（用于决定重新测量时是否重播）
	bound bool
}

// NewController 创建控制器
//
// 参数：
//   - clock: 单调时钟
//   - lineHeight: 统一行高 L（像素），为 0 时控制器永远不会启动
//   - opts: 构造选项
func NewController(clock Clock, lineHeight int, opts ...Option) *Controller {
	c := &Controller{
		clock:        clock,
		lineDuration: DefaultLineDuration,
		maskColor:    DefaultMaskColor,
		lineHeight:   lineHeight,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Measure 宿主报告新的测量结果
//
// W 或 H 变化、并且已经绑定过文本时，取消正在进行的动画并以新尺寸重新开始。
// 等待启动（armed）时只更新尺寸，由投递的启动任务负责开始。
//
// 返回：
//   - bool: 是否因为这次测量而重新开始了动画
func (c *Controller) Measure(width, height, lineCount int) bool {
	if c.state == StateDetached {
		return false
	}

	changed := width != c.width || height != c.height
	c.width = width
	c.height = height
	c.lineCount = lineCount

	if !changed || !c.bound || c.state == StateArmed {
		return false
	}
	return c.Start()
}

// Arm 文本已绑定，等待下一次布局后启动
// 在此期间 Draw 用不透明遮罩盖住整个区域，避免文字闪现一帧
func (c *Controller) Arm() {
	if c.state == StateDetached {
		return
	}
	c.driver.Cancel()
	c.bound = true
	c.state = StateArmed
}

// Start 以当前尺寸开始一轮动画
//
// N <= 0、H <= 0 或 L = 0 时什么都不做：正在运行的动画继续，
// 只有等待启动（armed）的控制器回到 idle（只绘制文字）。
// 已有动画在运行时先取消。
func (c *Controller) Start() bool {
	if c.state == StateDetached {
		return false
	}
	c.bound = true
	if c.height <= 0 || c.LineCount() <= 0 {
		if c.state == StateArmed {
			c.state = StateIdle
		}
		return false
	}

	c.driver.Cancel()
	now := c.clock.Now()
	if !c.driver.Start(now, c.height, c.LineCount(), c.lineDuration) {
		c.state = StateIdle
		return false
	}

	c.activeLine = 0
	c.lineEnteredAt = now
	c.state = StateRunning
	return true
}

// Cancel 停止动画，控制器进入 idle，可重复调用
func (c *Controller) Cancel() {
	if c.state == StateDetached {
		return
	}
	c.driver.Cancel()
	c.state = StateIdle
}

// Detach 宿主分离控件
// 之后 OnFrame 不再修改任何状态，Draw 不再绘制
func (c *Controller) Detach() {
	c.driver.Cancel()
	c.state = StateDetached
}

// OnFrame 显示帧回调
// 从驱动器拉取进度，当前行变化时记录进入时间；进度到达 H 时动画结束
func (c *Controller) OnFrame() {
	if c.state != StateRunning {
		return
	}

	now := c.clock.Now()
	h, running := c.driver.Tick(now)

	if line := c.lineFor(h); line != c.activeLine {
		c.activeLine = line
		c.lineEnteredAt = now
	}

	if !running {
		c.state = StateIdle
	}
}

// Frame 计算当前帧的绘制指令（不修改状态）
func (c *Controller) Frame() Frame {
	f := Frame{
		State:      c.state,
		Progress:   c.driver.Value(),
		ActiveLine: c.activeLine,
	}

	switch c.state {
	case StateArmed:
		f.Bulk = Cover{
			Rect:  image.Rect(0, 0, c.width, c.height),
			Color: c.maskColor,
		}
	case StateRunning:
		if c.lineHeight <= 0 {
			return f
		}
		f.Bulk = Cover{
			Rect:  BulkRect(c.activeLine, c.lineHeight, c.width, c.height),
			Color: c.maskColor,
		}
		alpha := LineAlpha(c.clock.Now()-c.lineEnteredAt, c.lineDuration)
		f.Active = Cover{
			Rect:  ActiveRect(c.activeLine, c.lineHeight, c.width, c.height),
			Color: withAlpha(c.maskColor, alpha),
		}
	}
	return f
}

// Draw 绘制一帧
//
// 先调用宿主的默认文字绘制，再填充遮罩。文字绘制返回的错误原样返回，
// 控制器没有需要释放的资源，下一帧可以直接重试。分离后什么也不画。
func (c *Controller) Draw(canvas Canvas, drawText func() error) error {
	if c.state == StateDetached {
		return nil
	}

	if drawText != nil {
		if err := drawText(); err != nil {
			return err
		}
	}

	for _, cover := range c.Frame().Covers() {
		canvas.FillRect(cover.Rect, cover.Color)
	}
	return nil
}

func (c *Controller) lineFor(h int) int {
	n := c.LineCount()
	if n <= 0 {
		return 0
	}
	return clampInt(h/c.lineHeight, 0, n-1)
}

// LineCount 行数 N；行高为 0 时报告 0 行
func (c *Controller) LineCount() int {
	if c.lineHeight <= 0 {
		return 0
	}
	return c.lineCount
}

// SetLineHeight 字体变化后更新行高，正在运行的动画被取消
func (c *Controller) SetLineHeight(lineHeight int) {
	if lineHeight == c.lineHeight {
		return
	}
	c.lineHeight = lineHeight
	if c.state == StateRunning {
		c.Cancel()
	}
}

// State 当前状态
func (c *Controller) State() State { return c.state }

// IsRunning 动画是否在进行中
func (c *Controller) IsRunning() bool { return c.state == StateRunning }

// Progress 当前进度 h
func (c *Controller) Progress() int { return c.driver.Value() }

// ActiveLine 当前行
func (c *Controller) ActiveLine() int { return c.activeLine }

// LineEnteredAt 当前行开始显示的时间
func (c *Controller) LineEnteredAt() time.Duration { return c.lineEnteredAt }

// AnimStart 本轮动画开始时间
func (c *Controller) AnimStart() time.Duration { return c.driver.StartedAt() }

// TotalDuration 本轮动画总时长
func (c *Controller) TotalDuration() time.Duration { return c.driver.TotalDuration() }

// LineHeight 行高 L
func (c *Controller) LineHeight() int { return c.lineHeight }

// Size 最近一次测量的宽高
func (c *Controller) Size() (width, height int) { return c.width, c.height }

// MaskColor 遮罩颜色（不透明）
func (c *Controller) MaskColor() color.NRGBA { return c.maskColor }

// LineDuration 每行时长
func (c *Controller) LineDuration() time.Duration { return c.lineDuration }
