package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// HexColor YAML 中的颜色值
//
// 支持的写法：
//   - "#RRGGBB"（不透明）
//   - "#AARRGGBB" / "0xAARRGGBB"（ARGB 顺序，与 Android 颜色整数一致）
//   - 未加引号的整数 0xAARRGGBB
type HexColor struct {
	color.NRGBA
}

// ParseHexColor 解析颜色字符串
func ParseHexColor(s string) (HexColor, error) {
	raw := strings.TrimSpace(s)
	digits := raw
	switch {
	case strings.HasPrefix(digits, "#"):
		digits = digits[1:]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits = digits[2:]
	}

	var argb uint64
	var err error
	switch len(digits) {
	case 6:
		argb, err = strconv.ParseUint(digits, 16, 32)
		argb |= 0xFF000000
	case 8:
		argb, err = strconv.ParseUint(digits, 16, 32)
	default:
		return HexColor{}, fmt.Errorf("invalid color %q: expected 6 or 8 hex digits", raw)
	}
	if err != nil {
		return HexColor{}, fmt.Errorf("invalid color %q: %w", raw, err)
	}
	return FromARGB(uint32(argb)), nil
}

// FromARGB 从 32 位 ARGB 整数构造颜色
func FromARGB(argb uint32) HexColor {
	return HexColor{color.NRGBA{
		A: uint8(argb >> 24),
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}}
}

// Straight 返回保存的非预乘分量
// 经 color.Color 接口转换会先预乘 alpha，alpha 为 0 时 RGB 全部丢失
func (c HexColor) Straight() color.NRGBA {
	return c.NRGBA
}

// ARGB 返回 32 位 ARGB 整数
func (c HexColor) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// String 以 "#AARRGGBB" 形式输出
func (c HexColor) String() string {
	return fmt.Sprintf("#%08X", c.ARGB())
}

// UnmarshalYAML 实现 yaml.Unmarshaler
func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a scalar", value.Line)
	}

	if value.Tag == "!!int" {
		argb, err := strconv.ParseUint(value.Value, 0, 32)
		if err != nil {
			return fmt.Errorf("line %d: invalid color %q: %w", value.Line, value.Value, err)
		}
		*c = FromARGB(uint32(argb))
		return nil
	}

	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML 实现 yaml.Marshaler
func (c HexColor) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}
