// Package app 提供逐行显示演示程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/linereveal/pkg/components"
	"github.com/gonewx/linereveal/pkg/config"
	"github.com/gonewx/linereveal/pkg/ecs"
	"github.com/gonewx/linereveal/pkg/embedded"
	"github.com/gonewx/linereveal/pkg/entities"
	"github.com/gonewx/linereveal/pkg/game"
	"github.com/gonewx/linereveal/pkg/reveal"
	"github.com/gonewx/linereveal/pkg/systems"
	"github.com/gonewx/linereveal/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "linereveal"

// widthStep 方向键每次调整的控件宽度（像素）
const widthStep = 40

// minWidgetWidth 控件最小宽度
const minWidgetWidth = 80

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 配置文件路径，为空时使用内置 data/reveal.yaml
	ConfigPath string
	// Sample 启动时显示的示例序号，< 0 时使用上次保存的序号
	Sample int
	// Settings 设置管理器，为 nil 时打开 gdata 存储
	Settings *game.SettingsManager
}

// App 是演示程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	config   *config.RevealConfig
	settings *game.SettingsManager

	clock         reveal.Clock
	entityManager *ecs.EntityManager
	revealSystem  *systems.LineRevealSystem
	renderSystem  *systems.LineRevealRenderSystem

	face   *text.GoTextFace
	widget ecs.EntityID
	sample int

	screenWidth  int
	screenHeight int
}

// NewApp 创建并初始化应用
//
// 使用内置配置时，调用此函数前必须先调用 embedded.Init() 初始化嵌入资源；
// 未初始化时退回默认配置。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	revealConfig, err := loadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	resourceManager := game.NewResourceManager()
	face, err := resourceManager.LoadFont(revealConfig.FontPath, revealConfig.FontSize)
	if err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}

	settings := cfg.Settings
	if settings == nil {
		settings = game.OpenSettingsManager(AppName)
	}

	sample := cfg.Sample
	if sample < 0 {
		sample = settings.GetSettings().LastSample
	}

	em := ecs.NewEntityManager()
	a := &App{
		config:        revealConfig,
		settings:      settings,
		clock:         reveal.NewMonotonicClock(),
		entityManager: em,
		revealSystem:  systems.NewLineRevealSystem(em),
		renderSystem:  systems.NewLineRevealRenderSystem(em),
		face:          face,
		sample:        sample,
		screenWidth:   revealConfig.ScreenWidth,
		screenHeight:  revealConfig.ScreenHeight,
	}
	a.createWidget()

	log.Printf("[App] Initialized: %dx%d, mask %s, %v per line",
		a.screenWidth, a.screenHeight, revealConfig.MaskColor, revealConfig.LineDuration())
	return a, nil
}

// loadConfig 加载配置：指定路径 > 内置文件 > 默认值
func loadConfig(path string) (*config.RevealConfig, error) {
	if path != "" {
		return config.LoadRevealConfig(path)
	}
	if !embedded.IsInitialized() {
		log.Printf("[App] Embedded data not initialized, using default config")
		return config.DefaultRevealConfig(), nil
	}
	data, err := embedded.ReadFile(config.RevealConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded config: %w", err)
	}
	return config.ParseRevealConfig(data)
}

// createWidget 创建控件实体并绑定当前示例文本
func (a *App) createWidget() {
	margin := float64(a.config.Margin)
	a.widget = entities.NewLineRevealTextEntity(a.entityManager, a.clock, a.face, entities.LineRevealTextOptions{
		X:            margin,
		Y:            margin,
		Width:        a.widgetWidth(),
		TextColor:    a.config.TextColor,
		MaskColor:    a.config.MaskColor,
		LineDuration: a.config.LineDuration(),
	})
	a.revealSystem.BindText(a.widget, a.config.Sample(a.sample))
	log.Printf("[App] Widget %d created with sample %d", a.widget, a.sample)
}

// widgetWidth 控件宽度：用户设置的宽度（不超过窗口可用宽度），否则跟随窗口
func (a *App) widgetWidth() int {
	available := a.screenWidth - 2*a.config.Margin
	if available < minWidgetWidth {
		available = minWidgetWidth
	}
	if w := a.settings.GetSettings().WidgetWidth; w > 0 && w < available {
		return w
	}
	return available
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.SaveOnExit()
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.NextSample()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		a.AdjustWidth(-widthStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		a.AdjustWidth(widthStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		a.ToggleAttached()
	}
	// 移动端没有键盘：点击左/右侧调整宽度，点击中间切换示例
	if tapped, x, _ := utils.IsJustTouchedOrClicked(); tapped {
		switch utils.ZoneOf(x, a.screenWidth) {
		case utils.TapLeft:
			a.AdjustWidth(-widthStep)
		case utils.TapRight:
			a.AdjustWidth(widthStep)
		default:
			a.NextSample()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
	}

	deltaTime := 1.0 / 60.0
	a.revealSystem.Update(deltaTime)

	// 清理已标记删除的实体
	a.entityManager.RemoveMarkedEntities()
	return nil
}

// NextSample 绑定下一个示例文本
func (a *App) NextSample() {
	a.sample++
	if len(a.config.Samples) > 0 {
		a.sample %= len(a.config.Samples)
	}
	a.settings.SetLastSample(a.sample)
	a.revealSystem.BindText(a.widget, a.config.Sample(a.sample))
}

// AdjustWidth 调整控件宽度，触发重新测量
func (a *App) AdjustWidth(delta int) {
	width := a.widgetWidth() + delta
	if width < minWidgetWidth {
		width = minWidgetWidth
	}
	a.settings.SetWidgetWidth(width)
	a.revealSystem.SetWidth(a.widget, a.widgetWidth())
}

// ToggleAttached 分离控件；已分离时重新创建
func (a *App) ToggleAttached() {
	if a.widget != 0 && a.entityManager.Exists(a.widget) {
		a.revealSystem.Detach(a.widget)
		a.widget = 0
		return
	}
	a.createWidget()
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(a.config.BackgroundColor)
	a.renderSystem.Draw(screen)
	a.drawStatus(screen)
}

// drawStatus 在底部显示控件状态
func (a *App) drawStatus(screen *ebiten.Image) {
	status := "detached (D to re-create)"
	if comp, ok := ecs.GetComponent[*components.LineRevealTextComponent](a.entityManager, a.widget); ok {
		c := comp.Reveal
		w, h := c.Size()
		status = fmt.Sprintf("%s  h=%d/%d  line=%d/%d  %dx%d",
			c.State(), c.Progress(), h, c.ActiveLine()+1, c.LineCount(), w, h)
	}
	y := a.screenHeight - a.config.Margin/2 - 8
	ebitenutil.DebugPrintAt(screen, status, a.config.Margin, y)
	if utils.IsMobile() {
		ebitenutil.DebugPrintAt(screen, "tap left/right: width, center: next sample", a.config.Margin, y-16)
	}
}

// Layout 返回逻辑屏幕尺寸
// 窗口尺寸变化时重新计算控件宽度，控件随之重新测量
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.screenWidth || outsideHeight != a.screenHeight {
		a.screenWidth = outsideWidth
		a.screenHeight = outsideHeight
		a.revealSystem.SetWidth(a.widget, a.widgetWidth())
	}
	return a.screenWidth, a.screenHeight
}

// SaveOnExit 保存设置
// 返回 true 表示保存成功或无需保存
func (a *App) SaveOnExit() bool {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
		return false
	}
	return true
}

// ScreenSize 当前逻辑屏幕尺寸
func (a *App) ScreenSize() (int, int) {
	return a.screenWidth, a.screenHeight
}

// Fullscreen 上次保存的全屏设置
func (a *App) Fullscreen() bool {
	return a.settings.GetSettings().Fullscreen
}

// BackgroundColor 背景颜色
func (a *App) BackgroundColor() color.Color {
	return a.config.BackgroundColor
}
