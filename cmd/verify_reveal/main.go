// Package main provides a line reveal verification tool for stepping through
// the mask animation frame by frame.
//
// Usage:
//
//	go run ./cmd/verify_reveal [flags]
//
// Flags:
//
//	--text <s>          Text to reveal (default: four numbered lines)
//	--duration <ms>     Per-line duration in milliseconds (default: 1500)
//	--mask <color>      Mask color, #RRGGBB or #AARRGGBB (default: #FFFFFFFF)
//	--width <px>        Widget width (default: 600)
//	--rects             Outline the bulk and active mask rectangles
//	--verbose           Enable verbose logging
//
// Controls:
//
//	P          - Pause / resume the clock
//	Right      - Step one frame while paused
//	Up/Down    - Double / halve the clock speed
//	R          - Rebind the text (restart the reveal)
//	Q, ESC     - Quit
//
// Purpose:
//   - Check the per-line fade and the bulk mask at arbitrary moments
//   - Verify restart behaviour without waiting in real time
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/linereveal/pkg/components"
	"github.com/gonewx/linereveal/pkg/config"
	"github.com/gonewx/linereveal/pkg/ecs"
	"github.com/gonewx/linereveal/pkg/entities"
	"github.com/gonewx/linereveal/pkg/reveal"
	"github.com/gonewx/linereveal/pkg/systems"
)

const (
	screenWidth  = 800
	screenHeight = 600
	margin       = 40
	frameStep    = time.Second / 60
)

var (
	textFlag     = flag.String("text", "Line one\nLine two\nLine three\nLine four", "Text to reveal")
	durationFlag = flag.Int("duration", 1500, "Per-line duration in milliseconds")
	maskFlag     = flag.String("mask", "#FFFFFFFF", "Mask color")
	widthFlag    = flag.Int("width", 600, "Widget width in pixels")
	rectsFlag    = flag.Bool("rects", false, "Outline the mask rectangles")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging")
)

// RevealVerifyGame implements ebiten.Game for stepping through a reveal
type RevealVerifyGame struct {
	entityManager *ecs.EntityManager
	revealSystem  *systems.LineRevealSystem
	renderSystem  *systems.LineRevealRenderSystem

	clock  *reveal.ManualClock
	widget ecs.EntityID

	background color.Color
	paused     bool
	speed      float64
	stepOnce   bool
}

// NewRevealVerifyGame creates the verification game
func NewRevealVerifyGame(mask config.HexColor) (*RevealVerifyGame, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: config.DefaultFontSize}

	em := ecs.NewEntityManager()
	g := &RevealVerifyGame{
		entityManager: em,
		revealSystem:  systems.NewLineRevealSystem(em),
		renderSystem:  systems.NewLineRevealRenderSystem(em),
		clock:         reveal.NewManualClock(),
		background:    mask,
		speed:         1,
	}

	g.widget = entities.NewLineRevealTextEntity(em, g.clock, face, entities.LineRevealTextOptions{
		X:            margin,
		Y:            margin,
		Width:        *widthFlag,
		TextColor:    color.Black,
		MaskColor:    mask,
		LineDuration: time.Duration(*durationFlag) * time.Millisecond,
	})
	g.revealSystem.BindText(g.widget, *textFlag)
	return g, nil
}

// Update advances the manual clock and the reveal system
func (g *RevealVerifyGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) && g.paused {
		g.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) && g.speed < 16 {
		g.speed *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && g.speed > 1.0/16 {
		g.speed /= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.revealSystem.BindText(g.widget, *textFlag)
	}

	if !g.paused || g.stepOnce {
		g.clock.Advance(time.Duration(float64(frameStep) * g.speed))
		g.stepOnce = false
	}

	g.revealSystem.Update(frameStep.Seconds())
	return nil
}

// Draw renders the widget and the debug overlay
func (g *RevealVerifyGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	g.renderSystem.Draw(screen)

	comp, ok := ecs.GetComponent[*components.LineRevealTextComponent](g.entityManager, g.widget)
	if !ok {
		return
	}
	frame := comp.Reveal.Frame()

	if *rectsFlag {
		outline := func(c reveal.Cover, clr color.Color) {
			if c.Rect.Empty() {
				return
			}
			vector.StrokeRect(screen,
				float32(comp.X)+float32(c.Rect.Min.X), float32(comp.Y)+float32(c.Rect.Min.Y),
				float32(c.Rect.Dx()), float32(c.Rect.Dy()),
				1, clr, false)
		}
		outline(frame.Bulk, color.RGBA{R: 0xFF, A: 0xFF})
		outline(frame.Active, color.RGBA{B: 0xFF, A: 0xFF})
	}

	w, h := comp.Reveal.Size()
	info := fmt.Sprintf("t=%v speed=x%.3g paused=%v\nstate=%s size=%dx%d h=%d line=%d/%d alpha=%d\nbulk=%v active=%v",
		g.clock.Now().Truncate(time.Millisecond), g.speed, g.paused,
		frame.State, w, h, frame.Progress, frame.ActiveLine+1, comp.Reveal.LineCount(), frame.Active.Color.A,
		frame.Bulk.Rect, frame.Active.Rect)
	ebitenutil.DebugPrintAt(screen, info, margin, screenHeight-margin-48)
}

// Layout returns the fixed logical screen size
func (g *RevealVerifyGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	mask, err := config.ParseHexColor(*maskFlag)
	if err != nil {
		log.Fatalf("Invalid --mask: %v", err)
	}

	game, err := NewRevealVerifyGame(mask)
	if err != nil {
		log.Fatalf("Failed to create verify game: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Line Reveal Verification")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
