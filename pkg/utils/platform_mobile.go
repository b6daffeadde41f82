//go:build mobile

package utils

// IsMobile 移动端编译时总是返回 true（没有物理键盘）
func IsMobile() bool {
	return true
}
