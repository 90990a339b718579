package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultLineDurationMs = 1500
	DefaultFontSize       = 24.0
	DefaultMargin         = 40
	DefaultScreenWidth    = 800
	DefaultScreenHeight   = 600

	// DefaultMaskARGB 默认遮罩颜色：不透明白色
	DefaultMaskARGB = 0xFFFFFFFF
)

// RevealConfigPath 内置配置文件路径（embedded data FS）
const RevealConfigPath = "data/reveal.yaml"

// RevealConfig 逐行显示控件及演示程序的配置
//
// 配置文件位置: data/reveal.yaml
type RevealConfig struct {
	// MaskColor 遮罩颜色，alpha 通道被忽略（由渲染器逐行提供）
	MaskColor HexColor `yaml:"maskColor"`

	// TextColor 文字颜色
	TextColor HexColor `yaml:"textColor"`

	// BackgroundColor 背景颜色（通常与遮罩颜色相同，遮罩才看不出来）
	BackgroundColor HexColor `yaml:"backgroundColor"`

	// LineDurationMs 每行动画时长（毫秒）
	LineDurationMs int `yaml:"lineDurationMs"`

	// FontPath 字体文件路径，为空时使用内置 Go Regular 字体
	FontPath string `yaml:"fontPath"`

	// FontSize 字号（像素）
	FontSize float64 `yaml:"fontSize"`

	// Margin 控件距窗口边缘的距离（像素）
	Margin int `yaml:"margin"`

	// ScreenWidth / ScreenHeight 初始窗口尺寸
	ScreenWidth  int `yaml:"screenWidth"`
	ScreenHeight int `yaml:"screenHeight"`

	// Samples 演示程序循环显示的文本
	Samples []string `yaml:"samples"`
}

// DefaultRevealConfig 返回默认配置
func DefaultRevealConfig() *RevealConfig {
	return &RevealConfig{
		MaskColor:       FromARGB(DefaultMaskARGB),
		TextColor:       FromARGB(0xFF202020),
		BackgroundColor: FromARGB(DefaultMaskARGB),
		LineDurationMs:  DefaultLineDurationMs,
		FontSize:        DefaultFontSize,
		Margin:          DefaultMargin,
		ScreenWidth:     DefaultScreenWidth,
		ScreenHeight:    DefaultScreenHeight,
	}
}

// ParseRevealConfig 解析 YAML 配置
// 缺省字段使用 DefaultRevealConfig 中的值
func ParseRevealConfig(data []byte) (*RevealConfig, error) {
	config := DefaultRevealConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse reveal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reveal config: %w", err)
	}

	return config, nil
}

// LoadRevealConfig 从文件加载配置
//
// 参数:
//   - path: 配置文件路径
//
// 返回:
//   - *RevealConfig: 加载成功后的配置
//   - error: 读取或解析失败时返回错误
func LoadRevealConfig(path string) (*RevealConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reveal config: %w", err)
	}
	return ParseRevealConfig(data)
}

// LoadRevealConfigOrDefault 加载配置：指定路径 > ./data/reveal.yaml > 默认值
// 指定路径读取失败时返回错误；未指定且默认文件不存在时返回默认配置
func LoadRevealConfigOrDefault(path string) (*RevealConfig, error) {
	if path == "" {
		if _, err := os.Stat(RevealConfigPath); err != nil {
			return DefaultRevealConfig(), nil
		}
		path = RevealConfigPath
	}
	return LoadRevealConfig(path)
}

// Validate 验证配置有效性
func (c *RevealConfig) Validate() error {
	if c.LineDurationMs <= 0 {
		return fmt.Errorf("lineDurationMs must be positive, got %d", c.LineDurationMs)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("fontSize must be positive, got %.1f", c.FontSize)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %d", c.Margin)
	}
	if c.ScreenWidth <= 2*c.Margin || c.ScreenHeight <= 2*c.Margin {
		return fmt.Errorf("screen %dx%d too small for margin %d", c.ScreenWidth, c.ScreenHeight, c.Margin)
	}
	return nil
}

// LineDuration 每行动画时长
func (c *RevealConfig) LineDuration() time.Duration {
	return time.Duration(c.LineDurationMs) * time.Millisecond
}

// Sample 返回第 i 个示例文本（循环取模），没有示例时返回空串
func (c *RevealConfig) Sample(i int) string {
	if len(c.Samples) == 0 {
		return ""
	}
	i %= len(c.Samples)
	if i < 0 {
		i += len(c.Samples)
	}
	return c.Samples[i]
}
