package termhost

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/linereveal/pkg/reveal"
)

// DefaultFrameInterval 终端帧间隔
const DefaultFrameInterval = 33 * time.Millisecond

// Demo 在终端里循环显示一组示例文本
//
// 按键：
//   - Space: 下一个示例
//   - d: 分离 / 重新创建控件
//   - Esc, q, Ctrl-C: 退出
type Demo struct {
	Host    *Host
	Samples []string

	sample int
}

// NewDemo 创建演示并绑定第一个示例
func NewDemo(host *Host, samples []string, first int) *Demo {
	d := &Demo{Host: host, Samples: samples}
	if len(samples) > 0 {
		d.sample = ((first % len(samples)) + len(samples)) % len(samples)
	}
	host.BindText(d.current())
	return d
}

func (d *Demo) current() string {
	if len(d.Samples) == 0 {
		return ""
	}
	return d.Samples[d.sample]
}

// HandleEvent 处理一个终端事件
// 返回 true 表示应当退出
func (d *Demo) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		d.Host.screen.Sync()
		d.Host.Resize()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case ' ':
				d.next()
			case 'd', 'D':
				d.toggleAttached()
			}
		}
	}
	return false
}

func (d *Demo) next() {
	if len(d.Samples) > 0 {
		d.sample = (d.sample + 1) % len(d.Samples)
	}
	d.Host.BindText(d.current())
}

func (d *Demo) toggleAttached() {
	if d.Host.Controller().State() == reveal.StateDetached {
		d.Host.Reattach(d.current())
		return
	}
	d.Host.Detach()
}

// Run 初始化终端并运行帧循环，直到 ctx 取消或用户退出
func (d *Demo) Run(ctx context.Context, frameInterval time.Duration) error {
	screen := d.Host.screen
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}

	done := make(chan struct{})
	defer close(done)

	// PollEvent 在 Fini 之后返回 nil
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || d.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			d.Host.Tick()
			if err := d.Host.Draw(); err != nil {
				return fmt.Errorf("draw frame: %w", err)
			}
		}
	}
}
