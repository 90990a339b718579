package reveal

import "time"

// Clock 单调时钟
// 返回自某个固定起点以来经过的时间，只用于计算差值
type Clock interface {
	Now() time.Duration
}

// MonotonicClock 基于 time.Since 的单调时钟
// time.Time 自带单调读数，墙钟被调整时不会倒退
type MonotonicClock struct {
	epoch time.Time
}

// NewMonotonicClock 创建以当前时刻为起点的单调时钟
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{epoch: time.Now()}
}

// Now 返回自时钟创建以来经过的时间
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.epoch)
}

// ManualClock 手动推进的时钟
// 用于测试和离线渲染（snapshot），时间只在调用 Advance/Set 时变化
type ManualClock struct {
	now time.Duration
}

// NewManualClock 创建起点为 0 的手动时钟
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now 返回当前时间
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Advance 向前推进 d，负值被忽略
func (c *ManualClock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Set 将时钟设置到 t（不允许倒退）
func (c *ManualClock) Set(t time.Duration) {
	if t > c.now {
		c.now = t
	}
}
