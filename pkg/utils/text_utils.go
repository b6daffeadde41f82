package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// MeasureFunc 测量一行文字的像素宽度
type MeasureFunc func(s string) float64

// FaceMeasure 返回使用字体 face 的测量函数
func FaceMeasure(face text.Face) MeasureFunc {
	return func(s string) float64 {
		if s == "" || face == nil {
			return 0
		}
		width, _ := text.Measure(s, face, 0)
		return width
	}
}

// WrapText 将文本按指定宽度自动换行
//
// 换行规则:
//   - 优先在空白处断行
//   - 单词超过最大宽度时按字符强制断行（中文没有空格，总是按字符断）
//   - 原文中的换行符保留
func WrapText(s string, maxWidth float64, measure MeasureFunc) []string {
	if s == "" || measure == nil || maxWidth <= 0 {
		return []string{s}
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(paragraph, maxWidth, measure)...)
	}
	return lines
}

func wrapParagraph(s string, maxWidth float64, measure MeasureFunc) []string {
	if measure(s) <= maxWidth {
		return []string{strings.TrimSpace(s)}
	}

	var lines []string
	line := ""
	for _, word := range splitWords(s) {
		candidate := line + word
		if measure(strings.TrimSpace(candidate)) <= maxWidth {
			line = candidate
			continue
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
		line = strings.TrimLeftFunc(word, unicode.IsSpace)

		// 单个单词就超宽，按字符断开
		for measure(line) > maxWidth && utf8.RuneCountInString(line) > 1 {
			cut := breakRunes(line, maxWidth, measure)
			lines = append(lines, line[:cut])
			line = line[cut:]
		}
	}
	if strings.TrimSpace(line) != "" {
		lines = append(lines, strings.TrimSpace(line))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// splitWords 切成带前导空白的单词，CJK 字符各自成词
func splitWords(s string) []string {
	var words []string
	start := 0
	inWord := false
	for i, r := range s {
		switch {
		case unicode.Is(unicode.Han, r):
			if i > start {
				words = append(words, s[start:i])
			}
			size := utf8.RuneLen(r)
			words = append(words, s[i:i+size])
			start = i + size
			inWord = false
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, s[start:i])
				start = i
				inWord = false
			}
		default:
			inWord = true
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}

// breakRunes 返回不超过 maxWidth 的最长前缀的字节长度（至少一个字符）
func breakRunes(s string, maxWidth float64, measure MeasureFunc) int {
	_, first := utf8.DecodeRuneInString(s)
	cut := first
	for i := range s {
		if i == 0 {
			continue
		}
		if measure(s[:i]) > maxWidth {
			break
		}
		cut = i
	}
	return cut
}

// TruncateText 截断超过 maxRunes 个字符的文本，末尾加省略号
func TruncateText(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	if maxRunes == 1 {
		return "…"
	}
	return string(runes[:maxRunes-1]) + "…"
}
