package reveal

import (
	"math"
	"time"
)

// DefaultLineDuration 每行的基础动画时长
// 总时长 = DefaultLineDuration × 行数；单行遮罩淡出也使用同一时长
const DefaultLineDuration = 1500 * time.Millisecond

// Driver 动画驱动器
//
// 在 [0, H] 上做线性插值，时长为 perLine × N。
// 驱动器本身不持有定时器：宿主每个显示帧调用一次 Tick，
// 驱动器根据传入的时间计算当前进度值 h。
//
// 状态机：
//   - idle → running：Start 成功
//   - running → idle：Cancel，或 Tick 时 h 到达 H
type Driver struct {
	running bool

	// startedAt 本轮动画开始时间（animStart）
	startedAt time.Duration
	// total 本轮动画总时长（totalDuration）
	total time.Duration

	height int
	value  int
}

// Start 开始新一轮动画
//
// 参数：
//   - now: 当前时间，作为 animStart
//   - height: 动画目标值 H（像素高度）
//   - lineCount: 行数 N
//   - perLine: 每行时长 D，<= 0 时使用 DefaultLineDuration
//
// 返回：
//   - bool: N <= 0 或 H <= 0 时不启动并返回 false
//
// 如果已有动画在运行，先取消再开始。
func (d *Driver) Start(now time.Duration, height, lineCount int, perLine time.Duration) bool {
	if lineCount <= 0 || height <= 0 {
		return false
	}
	if perLine <= 0 {
		perLine = DefaultLineDuration
	}

	d.Cancel()

	d.startedAt = now
	d.total = perLine * time.Duration(lineCount)
	d.height = height
	d.value = 0
	d.running = true
	return true
}

// Cancel 停止发射进度值，可以在 idle 状态下重复调用
func (d *Driver) Cancel() {
	d.running = false
}

// IsRunning 是否有动画在运行
func (d *Driver) IsRunning() bool {
	return d.running
}

// Tick 计算 now 时刻的进度值
//
// h = round(H × (now − animStart) / total)，截断到 [0, H]，
// 并保证同一轮内单调不减。h 到达 H 时驱动器转为 idle。
//
// 返回：
//   - int: 当前进度 h
//   - bool: Tick 之后是否仍在运行
func (d *Driver) Tick(now time.Duration) (int, bool) {
	if !d.running {
		return d.value, false
	}

	h := d.valueAt(now)
	if h > d.value {
		d.value = h
	}
	if d.value >= d.height {
		d.value = d.height
		d.running = false
	}
	return d.value, d.running
}

func (d *Driver) valueAt(now time.Duration) int {
	elapsed := now - d.startedAt
	if elapsed <= 0 || d.total <= 0 {
		return 0
	}
	if elapsed >= d.total {
		return d.height
	}
	h := int(math.Round(float64(d.height) * float64(elapsed) / float64(d.total)))
	return clampInt(h, 0, d.height)
}

// Value 最近一次 Tick 得到的进度值
func (d *Driver) Value() int {
	return d.value
}

// StartedAt 本轮动画开始时间
func (d *Driver) StartedAt() time.Duration {
	return d.startedAt
}

// TotalDuration 本轮动画总时长
func (d *Driver) TotalDuration() time.Duration {
	return d.total
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
