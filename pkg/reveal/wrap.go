package reveal

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MeasureFunc 返回一段文字在宿主字体下的宽度
type MeasureFunc func(s string) float64

// WrapLines 把文字按宽度折行，得到布局后的行列表
//
// 规则：
//   - 文本先做 NFC 规范化，组合字符不会被拆到两行
//   - 显式换行符总是分行，末尾的换行符被忽略
//   - 以空白为断点贪心折行；单个词超过 maxWidth 时按字符拆开
//   - 折行时连续空白合并为一个空格，行首缩进和行尾空白被丢弃
//   - maxWidth <= 0 或 measure 为 nil 时只按换行符分行
//
// 空文本返回 nil（0 行）。
func WrapLines(s string, maxWidth float64, measure MeasureFunc) []string {
	s = norm.NFC.String(strings.ReplaceAll(s, "\r\n", "\n"))
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}

	paragraphs := strings.Split(s, "\n")
	if maxWidth <= 0 || measure == nil {
		return paragraphs
	}

	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		lines = append(lines, wrapParagraph(p, maxWidth, measure)...)
	}
	return lines
}

func wrapParagraph(p string, maxWidth float64, measure MeasureFunc) []string {
	words := strings.FieldsFunc(p, unicode.IsSpace)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if measure(word) <= maxWidth {
			current = word
			continue
		}

		// 超长的词按字符拆开
		pieces := breakWord(word, maxWidth, measure)
		lines = append(lines, pieces[:len(pieces)-1]...)
		current = pieces[len(pieces)-1]
	}
	return append(lines, current)
}

func breakWord(word string, maxWidth float64, measure MeasureFunc) []string {
	var pieces []string
	var b strings.Builder
	for _, r := range word {
		next := b.String() + string(r)
		if b.Len() > 0 && measure(next) > maxWidth {
			pieces = append(pieces, b.String())
			b.Reset()
		}
		b.WriteRune(r)
	}
	return append(pieces, b.String())
}
