package utils

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

// runeMeasure 每个字符 10 像素
func runeMeasure(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"不需要换行", "Hi", 100, []string{"Hi"}},
		{"按单词换行", "Merry Christmas to all", 100, []string{"Merry", "Christmas", "to all"}},
		{"中文按字符换行", "圣诞节快乐", 30, []string{"圣诞节", "快乐"}},
		{"超长单词强制断开", "abcdefghij", 30, []string{"abc", "def", "ghi", "j"}},
		{"保留换行符", "a\nb", 100, []string{"a", "b"}},
		{"宽度非法时原样返回", "whatever", 0, []string{"whatever"}},
		{"空字符串", "", 100, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.maxWidth, runeMeasure)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapText(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestWrapTextNilMeasure(t *testing.T) {
	got := WrapText("hello world", 10, nil)
	if len(got) != 1 || got[0] != "hello world" {
		t.Errorf("WrapText with nil measure = %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		text     string
		maxRunes int
		want     string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hell…"},
		{"圣诞快乐", 2, "圣…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateText(tt.text, tt.maxRunes); got != tt.want {
			t.Errorf("TruncateText(%q, %d) = %q, want %q", tt.text, tt.maxRunes, got, tt.want)
		}
	}
}

func TestFaceMeasureNilFace(t *testing.T) {
	measure := FaceMeasure(nil)
	if w := measure("abc"); w != 0 {
		t.Errorf("nil face width = %v, want 0", w)
	}
}
