package reveal

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"
)

const (
	testLineHeight = 20
	testWidth      = 200
)

// recordingCanvas 记录所有填充调用
type recordingCanvas struct {
	fills []Cover
}

func (c *recordingCanvas) FillRect(r image.Rectangle, clr color.NRGBA) {
	c.fills = append(c.fills, Cover{Rect: r, Color: clr})
}

// newStartedController 创建控制器并在 t=0 开始动画
func newStartedController(t *testing.T, height, lineCount int) (*Controller, *ManualClock) {
	t.Helper()
	clock := NewManualClock()
	c := NewController(clock, testLineHeight)
	c.Measure(testWidth, height, lineCount)
	if !c.Start() {
		t.Fatalf("Start() = false, want true (H=%d, N=%d)", height, lineCount)
	}
	return c, clock
}

func frameAt(c *Controller, clock *ManualClock, at time.Duration) Frame {
	clock.Set(at)
	c.OnFrame()
	return c.Frame()
}

// TestController_TwoLinesMidway 两行文字，1500ms 时第二行刚开始显示
func TestController_TwoLinesMidway(t *testing.T) {
	c, clock := newStartedController(t, 40, 2)

	f := frameAt(c, clock, 1500*time.Millisecond)

	if f.Progress != 20 {
		t.Errorf("Progress: got %d, want 20", f.Progress)
	}
	if f.ActiveLine != 1 {
		t.Errorf("ActiveLine: got %d, want 1", f.ActiveLine)
	}
	if f.Bulk.Rect != image.Rect(0, 40, 200, 40) {
		t.Errorf("Bulk: got %v, want (0,40)-(200,40)", f.Bulk.Rect)
	}
	if !f.Bulk.Rect.Empty() {
		t.Error("Bulk mask should be empty on the last line")
	}
	if f.Active.Rect != image.Rect(0, 20, 200, 40) {
		t.Errorf("Active: got %v, want (0,20)-(200,40)", f.Active.Rect)
	}
	if f.Active.Color.A != 255 {
		t.Errorf("Active alpha: got %d, want 255", f.Active.Color.A)
	}
}

// TestController_TwoLinesHalfFaded 第二行显示 750ms 后遮罩透明度约为一半
func TestController_TwoLinesHalfFaded(t *testing.T) {
	c, clock := newStartedController(t, 40, 2)

	frameAt(c, clock, 1500*time.Millisecond)
	f := frameAt(c, clock, 2250*time.Millisecond)

	if f.Progress != 30 {
		t.Errorf("Progress: got %d, want 30", f.Progress)
	}
	if f.ActiveLine != 1 {
		t.Errorf("ActiveLine: got %d, want 1", f.ActiveLine)
	}
	if f.Active.Color.A != 128 {
		t.Errorf("Active alpha: got %d, want 128", f.Active.Color.A)
	}
}

// TestController_SingleLine 单行文字只有一个渐隐遮罩
func TestController_SingleLine(t *testing.T) {
	c, clock := newStartedController(t, 20, 1)

	f := frameAt(c, clock, 750*time.Millisecond)

	if f.Progress != 10 {
		t.Errorf("Progress: got %d, want 10", f.Progress)
	}
	if f.ActiveLine != 0 {
		t.Errorf("ActiveLine: got %d, want 0", f.ActiveLine)
	}
	if f.Bulk.Visible() {
		t.Errorf("Bulk mask should be empty, got %v", f.Bulk.Rect)
	}
	if f.Active.Rect != image.Rect(0, 0, 200, 20) {
		t.Errorf("Active: got %v, want whole widget", f.Active.Rect)
	}
	if f.Active.Color.A != 128 {
		t.Errorf("Active alpha: got %d, want 128", f.Active.Color.A)
	}

	canvas := &recordingCanvas{}
	if err := c.Draw(canvas, nil); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if len(canvas.fills) != 1 {
		t.Errorf("Expected 1 fill, got %d", len(canvas.fills))
	}
}

// TestController_ThreeLinesCompletion 到达总时长后动画结束，不再绘制遮罩
func TestController_ThreeLinesCompletion(t *testing.T) {
	c, clock := newStartedController(t, 60, 3)

	f := frameAt(c, clock, 4500*time.Millisecond)

	if f.Progress != 60 {
		t.Errorf("Progress: got %d, want 60", f.Progress)
	}
	if c.IsRunning() {
		t.Error("Controller should not be running after completion")
	}
	if c.ActiveLine() != 2 {
		t.Errorf("ActiveLine should saturate at N-1=2, got %d", c.ActiveLine())
	}

	textDrawn := false
	canvas := &recordingCanvas{}
	err := c.Draw(canvas, func() error {
		textDrawn = true
		return nil
	})
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if !textDrawn {
		t.Error("Text should still be drawn after completion")
	}
	if len(canvas.fills) != 0 {
		t.Errorf("Expected no cover after completion, got %d fills", len(canvas.fills))
	}
}

// TestController_RestartOnMeasure 重新测量后以新尺寸重新开始
func TestController_RestartOnMeasure(t *testing.T) {
	c, clock := newStartedController(t, 40, 2)

	frameAt(c, clock, 400*time.Millisecond)
	clock.Set(500 * time.Millisecond)

	if !c.Measure(testWidth, 80, 2) {
		t.Fatal("Measure() with new height should restart the animation")
	}
	if !c.IsRunning() {
		t.Fatal("Expected controller to be running after restart")
	}
	if c.AnimStart() != 500*time.Millisecond {
		t.Errorf("AnimStart: got %v, want 500ms", c.AnimStart())
	}
	if c.TotalDuration() != 3000*time.Millisecond {
		t.Errorf("TotalDuration: got %v, want 3000ms", c.TotalDuration())
	}
	if c.ActiveLine() != 0 {
		t.Errorf("ActiveLine: got %d, want 0", c.ActiveLine())
	}
	if c.Progress() != 0 {
		t.Errorf("Progress: got %d, want 0", c.Progress())
	}

	// 相同尺寸不重新开始
	if c.Measure(testWidth, 80, 2) {
		t.Error("Measure() with unchanged geometry should not restart")
	}
}

// TestController_RestartAfterCompletion 完成后尺寸变化会重播
func TestController_RestartAfterCompletion(t *testing.T) {
	c, clock := newStartedController(t, 20, 1)
	frameAt(c, clock, 2*time.Second)
	if c.IsRunning() {
		t.Fatal("Expected animation to be complete")
	}

	if !c.Measure(testWidth+40, 20, 1) {
		t.Error("Width change after completion should replay the reveal")
	}
}

// TestController_DetachMidRun 分离后不再修改状态，也不绘制
func TestController_DetachMidRun(t *testing.T) {
	c, clock := newStartedController(t, 40, 2)
	frameAt(c, clock, 300*time.Millisecond)
	progress := c.Progress()

	c.Detach()

	clock.Set(2 * time.Second)
	c.OnFrame()

	if c.Progress() != progress {
		t.Errorf("Progress changed after detach: got %d, want %d", c.Progress(), progress)
	}
	if c.IsRunning() {
		t.Error("Controller should not be running after detach")
	}

	textDrawn := false
	canvas := &recordingCanvas{}
	if err := c.Draw(canvas, func() error {
		textDrawn = true
		return nil
	}); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if textDrawn || len(canvas.fills) != 0 {
		t.Errorf("Draw after detach should be a no-op (text=%v, fills=%d)", textDrawn, len(canvas.fills))
	}

	// 分离后重新测量和启动都无效
	if c.Measure(testWidth, 80, 4) || c.Start() {
		t.Error("Detached controller must not restart")
	}
}

// TestController_MonotoneProgress 同一轮内进度和当前行单调不减
func TestController_MonotoneProgress(t *testing.T) {
	c, clock := newStartedController(t, 100, 5)

	lastProgress, lastLine := -1, -1
	for at := time.Duration(0); at <= 8*time.Second; at += 16 * time.Millisecond {
		f := frameAt(c, clock, at)
		if f.Progress < lastProgress {
			t.Fatalf("Progress decreased at %v: %d -> %d", at, lastProgress, f.Progress)
		}
		if f.ActiveLine < lastLine {
			t.Fatalf("ActiveLine decreased at %v: %d -> %d", at, lastLine, f.ActiveLine)
		}
		if f.Progress < 0 || f.Progress > 100 {
			t.Fatalf("Progress out of range at %v: %d", at, f.Progress)
		}
		lastProgress, lastLine = f.Progress, f.ActiveLine
	}
}

// TestController_MaskCoverage 运行中大遮罩与当前行遮罩恰好覆盖 (0, a·L, W, H)
func TestController_MaskCoverage(t *testing.T) {
	const height, lines = 80, 4
	c, clock := newStartedController(t, height, lines)

	for at := time.Duration(0); c.IsRunning(); at += 50 * time.Millisecond {
		f := frameAt(c, clock, at)
		if f.State != StateRunning {
			break
		}

		want := image.Rect(0, f.ActiveLine*testLineHeight, testWidth, height)
		got := f.Active.Rect
		if !f.Bulk.Rect.Empty() {
			if f.Bulk.Rect.Min.Y != f.Active.Rect.Max.Y {
				t.Fatalf("Masks are not adjacent at %v: bulk=%v active=%v", at, f.Bulk.Rect, f.Active.Rect)
			}
			got = got.Union(f.Bulk.Rect)
		}
		if got != want {
			t.Fatalf("Coverage at %v: got %v, want %v", at, got, want)
		}
		if f.Bulk.Color.A != 255 {
			t.Fatalf("Bulk mask must be opaque, got alpha %d", f.Bulk.Color.A)
		}
	}
}

// TestController_AlphaOnLineChange 行切换的那一刻遮罩完全不透明
func TestController_AlphaOnLineChange(t *testing.T) {
	c, clock := newStartedController(t, 60, 3)

	line := c.ActiveLine()
	for at := time.Duration(0); at < 4500*time.Millisecond; at += 10 * time.Millisecond {
		f := frameAt(c, clock, at)
		if f.ActiveLine != line {
			if f.Active.Color.A != 255 {
				t.Fatalf("Alpha on entering line %d: got %d, want 255", f.ActiveLine, f.Active.Color.A)
			}
			if c.LineEnteredAt() != at {
				t.Fatalf("LineEnteredAt: got %v, want %v", c.LineEnteredAt(), at)
			}
			line = f.ActiveLine
		}
	}
	if line != 2 {
		t.Errorf("Expected to reach line 2, got %d", line)
	}
}

// TestController_RestartIsCancelThenStart 运行中再次 Start 等价于 Cancel + Start
func TestController_RestartIsCancelThenStart(t *testing.T) {
	a, clockA := newStartedController(t, 60, 3)
	b, clockB := newStartedController(t, 60, 3)

	frameAt(a, clockA, 700*time.Millisecond)
	frameAt(b, clockB, 700*time.Millisecond)

	a.Start()
	b.Cancel()
	b.Start()

	for at := 700 * time.Millisecond; at <= 6*time.Second; at += 100 * time.Millisecond {
		fa := frameAt(a, clockA, at)
		fb := frameAt(b, clockB, at)
		if fa != fb {
			t.Fatalf("Frames differ at %v:\n restart: %+v\n cancel+start: %+v", at, fa, fb)
		}
	}
}

// TestController_ArmedCoversEverything 绑定文本后、首帧前整块区域被遮住
func TestController_ArmedCoversEverything(t *testing.T) {
	clock := NewManualClock()
	c := NewController(clock, testLineHeight)
	c.Measure(testWidth, 60, 3)
	c.Arm()

	f := c.Frame()
	if f.State != StateArmed {
		t.Fatalf("State: got %v, want armed", f.State)
	}
	covers := f.Covers()
	if len(covers) != 1 {
		t.Fatalf("Expected 1 cover while armed, got %d", len(covers))
	}
	if covers[0].Rect != image.Rect(0, 0, testWidth, 60) || covers[0].Color.A != 255 {
		t.Errorf("Armed cover: got %+v, want opaque (0,0)-(200,60)", covers[0])
	}

	// 等待启动期间的重新测量不会抢先启动
	if c.Measure(testWidth, 80, 4) {
		t.Error("Measure while armed should not start the animation")
	}
	if !c.Start() {
		t.Fatal("Start() after arm should succeed")
	}

	// 启动后、第一次 OnFrame 之前同样没有文字露出
	f = c.Frame()
	if f.Active.Rect != image.Rect(0, 0, testWidth, 20) || f.Active.Color.A != 255 {
		t.Errorf("First frame active cover: got %+v", f.Active)
	}
	if f.Bulk.Rect != image.Rect(0, 20, testWidth, 80) {
		t.Errorf("First frame bulk cover: got %v", f.Bulk.Rect)
	}
}

// TestController_ZeroLineHeight 行高为 0 时报告 0 行且永远不启动
func TestController_ZeroLineHeight(t *testing.T) {
	clock := NewManualClock()
	c := NewController(clock, 0)
	c.Measure(testWidth, 40, 2)

	if c.LineCount() != 0 {
		t.Errorf("LineCount: got %d, want 0", c.LineCount())
	}
	if c.Start() {
		t.Error("Start() should fail when line height is 0")
	}
	if c.State() != StateIdle {
		t.Errorf("State: got %v, want idle", c.State())
	}

	canvas := &recordingCanvas{}
	textDrawn := false
	_ = c.Draw(canvas, func() error { textDrawn = true; return nil })
	if !textDrawn || len(canvas.fills) != 0 {
		t.Errorf("Expected text only, got text=%v fills=%d", textDrawn, len(canvas.fills))
	}
}

// TestController_NothingToAnimate N 或 H 为 0 时保持 idle
func TestController_NothingToAnimate(t *testing.T) {
	clock := NewManualClock()
	c := NewController(clock, testLineHeight)

	c.Measure(testWidth, 0, 2)
	if c.Start() {
		t.Error("Start() should fail when height is 0")
	}
	c.Measure(testWidth, 40, 0)
	if c.Start() {
		t.Error("Start() should fail when line count is 0")
	}
	if c.IsRunning() {
		t.Error("Controller should stay idle")
	}
}

// TestController_TextErrorPropagates 文字绘制错误原样返回，下一帧可以重试
func TestController_TextErrorPropagates(t *testing.T) {
	c, clock := newStartedController(t, 40, 2)
	frameAt(c, clock, 100*time.Millisecond)

	errDraw := errors.New("glyph cache exhausted")
	canvas := &recordingCanvas{}
	if err := c.Draw(canvas, func() error { return errDraw }); !errors.Is(err, errDraw) {
		t.Fatalf("Draw() error: got %v, want %v", err, errDraw)
	}
	if len(canvas.fills) != 0 {
		t.Error("No cover should be drawn when text drawing fails")
	}

	if err := c.Draw(canvas, func() error { return nil }); err != nil {
		t.Fatalf("Retry Draw() error: %v", err)
	}
	if len(canvas.fills) != 2 {
		t.Errorf("Expected bulk and active covers on retry, got %d", len(canvas.fills))
	}
}

// TestController_MaskColor 自定义遮罩颜色，alpha 由渲染器提供
func TestController_MaskColor(t *testing.T) {
	clock := NewManualClock()
	c := NewController(clock, testLineHeight,
		WithMaskColor(color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x00}),
		WithLineDuration(time.Second),
	)
	c.Measure(testWidth, 40, 2)
	c.Start()

	if got := c.MaskColor(); got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}) {
		t.Errorf("MaskColor: got %v", got)
	}
	if c.TotalDuration() != 2*time.Second {
		t.Errorf("TotalDuration: got %v, want 2s", c.TotalDuration())
	}

	clock.Set(500 * time.Millisecond)
	f := c.Frame()
	if f.Active.Color.R != 0x10 || f.Active.Color.A != 128 {
		t.Errorf("Active cover color: got %v", f.Active.Color)
	}
}

// TestController_InvalidStartKeepsRun N 或 H 无效时 Start 不影响正在进行的动画
func TestController_InvalidStartKeepsRun(t *testing.T) {
	c, clock := newStartedController(t, 40, 2)
	frameAt(c, clock, 500*time.Millisecond)

	c.Measure(testWidth, 0, 0)
	if c.Start() {
		t.Fatal("Start() should fail for empty geometry")
	}
	if !c.IsRunning() {
		t.Fatalf("State after invalid Start: got %v, want running", c.State())
	}
	if c.AnimStart() != 0 {
		t.Errorf("AnimStart: got %v, want 0 (run must not be restarted)", c.AnimStart())
	}
}

// TestController_InvalidStartDisarms 等待启动时 Start 失败回到 idle，不再整块遮挡
func TestController_InvalidStartDisarms(t *testing.T) {
	c := NewController(NewManualClock(), testLineHeight)
	c.Arm()
	c.Measure(testWidth, 0, 0)
	if c.Start() {
		t.Fatal("Start() should fail for empty geometry")
	}
	if c.State() != StateIdle {
		t.Errorf("State: got %v, want idle", c.State())
	}
}

// storedColor 保存非预乘分量的颜色，与配置中的 HexColor 形态一致
type storedColor struct {
	color.NRGBA
}

func (s storedColor) Straight() color.NRGBA { return s.NRGBA }

// TestController_MaskColorIgnoresStoredAlpha alpha 为 0 的颜色不能丢失 RGB
func TestController_MaskColorIgnoresStoredAlpha(t *testing.T) {
	tests := []struct {
		name string
		clr  color.Color
		want color.NRGBA
	}{
		{"nil uses default", nil, DefaultMaskColor},
		{"transparent white", storedColor{color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF}}, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
		{"transparent red", storedColor{color.NRGBA{R: 0xFF}}, color.NRGBA{R: 0xFF, A: 0xFF}},
		{"half alpha keeps rgb", storedColor{color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}}, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF}},
		{"premultiplied", color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(NewManualClock(), testLineHeight, WithMaskColor(tt.clr))
			if got := c.MaskColor(); got != tt.want {
				t.Errorf("MaskColor: got %v, want %v", got, tt.want)
			}
		})
	}
}
