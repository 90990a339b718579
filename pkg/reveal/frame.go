package reveal

import (
	"image"
	"image/color"
	"math"
	"time"
)

// State 控制器状态
type State int

const (
	// StateIdle 空闲：只绘制文字，不绘制遮罩
	StateIdle State = iota
	// StateArmed 已绑定文本、等待下一次布局后启动：整块区域被不透明遮罩覆盖
	StateArmed
	// StateRunning 动画进行中
	StateRunning
	// StateDetached 已从宿主分离：不再绘制任何内容
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateRunning:
		return "running"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Canvas 宿主提供的矩形填充能力
// 坐标相对于控件左上角，颜色为非预乘 alpha
type Canvas interface {
	FillRect(r image.Rectangle, clr color.NRGBA)
}

// Cover 一个遮罩矩形及其颜色
type Cover struct {
	Rect  image.Rectangle
	Color color.NRGBA
}

// Visible 矩形非空且不完全透明
func (c Cover) Visible() bool {
	return !c.Rect.Empty() && c.Color.A > 0
}

// Frame 一帧的绘制指令
type Frame struct {
	State      State
	Progress   int
	ActiveLine int

	// Bulk 覆盖当前行以下所有行的不透明遮罩
	Bulk Cover
	// Active 当前行的渐隐遮罩
	Active Cover
}

// Covers 按绘制顺序返回需要填充的遮罩（跳过空矩形和全透明遮罩）
func (f Frame) Covers() []Cover {
	covers := make([]Cover, 0, 2)
	if f.Bulk.Visible() {
		covers = append(covers, f.Bulk)
	}
	if f.Active.Visible() {
		covers = append(covers, f.Active)
	}
	return covers
}

// LineAlpha 当前行遮罩的透明度
//
// a(Δ) = clamp(255 − ⌊Δ / D × 255⌋, 0, 255)
// 行刚成为当前行时为 255，经过 D 后降到 0。
func LineAlpha(elapsed, lineDuration time.Duration) uint8 {
	if elapsed <= 0 {
		return 255
	}
	if lineDuration <= 0 {
		return 0
	}
	faded := math.Floor(float64(elapsed) / float64(lineDuration) * 255)
	return uint8(clampInt(255-int(faded), 0, 255))
}

// BulkRect 大遮罩：(0, (activeLine+1)·L, W, H)，上边沿不超过 H
func BulkRect(activeLine, lineHeight, width, height int) image.Rectangle {
	top := clampInt((activeLine+1)*lineHeight, 0, height)
	return image.Rect(0, top, width, height)
}

// ActiveRect 当前行遮罩：(0, activeLine·L, W, (activeLine+1)·L)，截断到 [0, H]
func ActiveRect(activeLine, lineHeight, width, height int) image.Rectangle {
	top := clampInt(activeLine*lineHeight, 0, height)
	bottom := clampInt((activeLine+1)*lineHeight, 0, height)
	return image.Rect(0, top, width, bottom)
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
