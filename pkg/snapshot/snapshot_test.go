package snapshot

import (
	"image"
	"os"
	"testing"
	"time"

	"github.com/gonewx/linereveal/pkg/config"
	"github.com/gonewx/linereveal/pkg/reveal"
)

func newTestRenderer(t *testing.T, content string) *Renderer {
	t.Helper()
	r, err := New(content, Options{
		Width:    240,
		Height:   120,
		Margin:   10,
		FontSize: 20,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

// darkestIn 返回区域内最暗像素的红色分量（白底黑字）
func darkestIn(img image.Image, rect image.Rectangle) uint8 {
	darkest := uint8(255)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if v := uint8(r >> 8); v < darkest {
				darkest = v
			}
		}
	}
	return darkest
}

// lineArea 第 i 行在画布上的区域
func lineArea(r *Renderer, i int) image.Rectangle {
	l := r.Controller().LineHeight()
	m := r.opts.Margin
	return image.Rect(m, m+i*l, r.opts.Width-m, m+(i+1)*l)
}

func TestNew_LayoutAndStart(t *testing.T) {
	r := newTestRenderer(t, "Hello\nWorld")

	if len(r.Lines()) != 2 {
		t.Fatalf("Lines: got %q, want 2 lines", r.Lines())
	}
	c := r.Controller()
	if !c.IsRunning() {
		t.Fatalf("State after New: got %v, want running", c.State())
	}
	if c.LineHeight() <= 0 {
		t.Fatalf("LineHeight: got %d, want > 0", c.LineHeight())
	}
	if r.TotalDuration() != 3*time.Second {
		t.Errorf("TotalDuration: got %v, want 3s", r.TotalDuration())
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New("x", Options{Width: 0, Height: 10, FontSize: 12}); err == nil {
		t.Error("New() with zero width should fail")
	}
	if _, err := New("x", Options{Width: 10, Height: 10}); err == nil {
		t.Error("New() with zero font size should fail")
	}
	if _, err := New("x", Options{Width: 10, Height: 10, FontSize: 12, FontData: []byte("not a font")}); err == nil {
		t.Error("New() with invalid font data should fail")
	}
}

func TestRenderAt_FirstFrameFullyMasked(t *testing.T) {
	r := newTestRenderer(t, "Hello\nWorld")

	img, err := r.Image(0)
	if err != nil {
		t.Fatalf("Image(0) error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if got := darkestIn(img, lineArea(r, i)); got < 250 {
			t.Errorf("Line %d at t=0 should be hidden, darkest pixel %d", i, got)
		}
	}
}

// TestRenderAt_TransparentConfiguredMask 配置中 alpha 为 0 的白色遮罩仍完全遮住文字
func TestRenderAt_TransparentConfiguredMask(t *testing.T) {
	mask, err := config.ParseHexColor("0x00FFFFFF")
	if err != nil {
		t.Fatalf("ParseHexColor() error: %v", err)
	}
	r, err := New("Hello\nWorld", Options{
		Width:     240,
		Height:    120,
		Margin:    10,
		FontSize:  20,
		MaskColor: mask,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	img, err := r.Image(0)
	if err != nil {
		t.Fatalf("Image(0) error: %v", err)
	}
	if got := darkestIn(img, img.Bounds()); got < 250 {
		t.Errorf("Frame at t=0 should be all white, darkest pixel %d", got)
	}
}

func TestRenderAt_SecondLineHiddenWhenEntered(t *testing.T) {
	r := newTestRenderer(t, "Hello\nWorld")
	if _, err := r.Image(0); err != nil {
		t.Fatalf("Image(0) error: %v", err)
	}

	img, err := r.Image(2 * time.Second)
	if err != nil {
		t.Fatalf("Image(2s) error: %v", err)
	}
	if got := r.Controller().ActiveLine(); got != 1 {
		t.Fatalf("ActiveLine at 2s: got %d, want 1", got)
	}
	if got := darkestIn(img, lineArea(r, 0)); got > 128 {
		t.Errorf("Line 0 at 2s should be visible, darkest pixel %d", got)
	}
	if got := darkestIn(img, lineArea(r, 1)); got < 250 {
		t.Errorf("Line 1 just entered should be hidden, darkest pixel %d", got)
	}
}

func TestRenderAt_CompletedShowsAllText(t *testing.T) {
	r := newTestRenderer(t, "Hello\nWorld")

	img, err := r.Image(r.TotalDuration())
	if err != nil {
		t.Fatalf("Image(total) error: %v", err)
	}
	if got := r.Controller().State(); got != reveal.StateIdle {
		t.Errorf("State after total: got %v, want idle", got)
	}
	for i := 0; i < 2; i++ {
		if got := darkestIn(img, lineArea(r, i)); got > 128 {
			t.Errorf("Line %d after completion should be visible, darkest pixel %d", i, got)
		}
	}
}

func TestRenderAt_RejectsEarlierTime(t *testing.T) {
	r := newTestRenderer(t, "Hello")
	if _, err := r.Image(time.Second); err != nil {
		t.Fatalf("Image(1s) error: %v", err)
	}
	if _, err := r.RenderAt(500 * time.Millisecond); err == nil {
		t.Error("RenderAt() earlier than previous frame should fail")
	}
}

func TestRenderAt_EmptyText(t *testing.T) {
	r := newTestRenderer(t, "")

	if r.Controller().State() != reveal.StateIdle {
		t.Errorf("State for empty text: got %v, want idle", r.Controller().State())
	}
	if r.TotalDuration() != 0 {
		t.Errorf("TotalDuration: got %v, want 0", r.TotalDuration())
	}
	img, err := r.Image(0)
	if err != nil {
		t.Fatalf("Image(0) error: %v", err)
	}
	if got := darkestIn(img, img.Bounds()); got < 250 {
		t.Errorf("Empty text should render background only, darkest pixel %d", got)
	}
}

func TestWriteSequence(t *testing.T) {
	r, err := New("Hello\nWorld", Options{
		Width:        240,
		Height:       120,
		Margin:       10,
		FontSize:     20,
		LineDuration: 500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	paths, err := r.WriteSequence(t.TempDir(), 2)
	if err != nil {
		t.Fatalf("WriteSequence() error: %v", err)
	}
	// 0s, 0.5s, 1s
	if len(paths) != 3 {
		t.Fatalf("Frames: got %d, want 3", len(paths))
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("Frame %s missing: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Frame %s is empty", p)
		}
	}
	if r.Controller().IsRunning() {
		t.Error("Animation should be complete after the last frame")
	}
}

func TestWriteSequence_InvalidFPS(t *testing.T) {
	r := newTestRenderer(t, "Hello")
	if _, err := r.WriteSequence(t.TempDir(), 0); err == nil {
		t.Error("WriteSequence() with fps 0 should fail")
	}
}
