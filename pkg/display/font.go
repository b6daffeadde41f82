package display

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	faceSourceOnce sync.Once
	faceSource     *text.GoTextFaceSource
	faceSourceErr  error

	faceCache = make(map[float64]*text.GoTextFace)
)

// loadFaceSource 解析内置的 Go Regular 字体（只解析一次）
func loadFaceSource() (*text.GoTextFaceSource, error) {
	faceSourceOnce.Do(func() {
		faceSource, faceSourceErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if faceSourceErr != nil {
			faceSourceErr = fmt.Errorf("failed to create font source: %w", faceSourceErr)
		}
	})
	return faceSource, faceSourceErr
}

// Face 返回指定字号的字体，同一字号复用同一个实例
//
// 只在帧驱动的 goroutine 上调用。
func Face(size float64) (*text.GoTextFace, error) {
	if face, ok := faceCache[size]; ok {
		return face, nil
	}
	source, err := loadFaceSource()
	if err != nil {
		return nil, err
	}
	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	faceCache[size] = face
	return face, nil
}
