package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/xmastree/pkg/geometry"
)

// ErrInvalidConfig 场景配置校验失败
var ErrInvalidConfig = errors.New("invalid scene config")

// Format 配置文件格式
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath 按扩展名判断格式（.toml 为 TOML，其余按 YAML 处理）
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// SceneConfig 场景构造参数
//
// 配置文件位置: data/scene.yaml（嵌入默认值），也可以用 --config 指定 .yaml 或 .toml 文件。
// 文件中缺省的字段保留 DefaultSceneConfig 的值。
type SceneConfig struct {
	// LayerSpecs 树叶层（由下到上）
	LayerSpecs []geometry.LayerSpec `yaml:"layerSpecs" toml:"layerSpecs"`

	// OrnamentCount 彩灯数量，0 表示不放彩灯
	OrnamentCount int `yaml:"ornamentCount" toml:"ornamentCount"`

	// SpiralAngleStep 相邻彩灯的方位角增量（弧度）
	SpiralAngleStep float64 `yaml:"spiralAngleStep" toml:"spiralAngleStep"`

	// OrnamentColors 彩灯调色板（0xRRGGBB）
	OrnamentColors []uint32 `yaml:"ornamentColors" toml:"ornamentColors"`

	Emission EmissionConfig `yaml:"emission" toml:"emission"`

	// ParticleCount 雪花数量，建议 1000~2000
	ParticleCount int `yaml:"particleCount" toml:"particleCount"`

	// FallRate 每帧下落距离
	FallRate float64 `yaml:"fallRate" toml:"fallRate"`

	// ParticleSpread 雪花水平分布范围（以原点为中心的边长）
	ParticleSpread float64 `yaml:"particleSpread" toml:"particleSpread"`

	// ParticleTopY 雪花回卷高度
	ParticleTopY float64 `yaml:"particleTopY" toml:"particleTopY"`

	// 每帧旋转增量（弧度）
	TreeRotationSpeed float64 `yaml:"treeRotationSpeed" toml:"treeRotationSpeed"`
	StarSpinY         float64 `yaml:"starSpinY" toml:"starSpinY"`
	StarSpinZ         float64 `yaml:"starSpinZ" toml:"starSpinZ"`

	// EnhancedVisuals 开启泛光后处理
	EnhancedVisuals bool `yaml:"enhancedVisuals" toml:"enhancedVisuals"`

	Bloom  BloomConfig  `yaml:"bloom" toml:"bloom"`
	Camera CameraConfig `yaml:"camera" toml:"camera"`

	// AnnotationOffset 留言卡片沿表面外移的距离
	AnnotationOffset float64 `yaml:"annotationOffset" toml:"annotationOffset"`

	// Seed 随机种子（彩灯颜色/相位、雪花初始位置），0 表示按时间取种子
	Seed int64 `yaml:"seed" toml:"seed"`
}

// EmissionConfig 彩灯亮度振荡参数
type EmissionConfig struct {
	Base      float64 `yaml:"base" toml:"base"`
	Amplitude float64 `yaml:"amplitude" toml:"amplitude"`

	// 每帧相位增量在 [SpeedMin, SpeedMax] 内随机
	SpeedMin float64 `yaml:"speedMin" toml:"speedMin"`
	SpeedMax float64 `yaml:"speedMax" toml:"speedMax"`
}

// BloomConfig 泛光参数
type BloomConfig struct {
	Strength  float64 `yaml:"strength" toml:"strength"`
	Threshold float64 `yaml:"threshold" toml:"threshold"`
	Radius    float64 `yaml:"radius" toml:"radius"`
}

// CameraConfig 相机参数
type CameraConfig struct {
	FOV      float64    `yaml:"fov" toml:"fov"`
	Near     float64    `yaml:"near" toml:"near"`
	Far      float64    `yaml:"far" toml:"far"`
	Position [3]float64 `yaml:"position" toml:"position"`
	Target   [3]float64 `yaml:"target" toml:"target"`
}

// DefaultSceneConfig 返回参考场景的配置
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		LayerSpecs:      geometry.DefaultLayerSpecs(),
		OrnamentCount:   40,
		SpiralAngleStep: 0.5,
		OrnamentColors:  []uint32{0xff0000, 0x00ff00, 0x0000ff, 0xffff00},
		Emission: EmissionConfig{
			Base:      3.0,
			Amplitude: 1.5,
			SpeedMin:  0.02,
			SpeedMax:  0.07,
		},
		ParticleCount:     1000,
		FallRate:          0.05,
		ParticleSpread:    50,
		ParticleTopY:      15,
		TreeRotationSpeed: 0.005,
		StarSpinY:         -0.02,
		StarSpinZ:         -0.01,
		EnhancedVisuals:   true,
		Bloom: BloomConfig{
			Strength:  1.5,
			Threshold: 0.85,
			Radius:    0.4,
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float64{0, 5, 15},
			Target:   [3]float64{0, 4, 0},
		},
		AnnotationOffset: 0.5,
	}
}

// LoadSceneConfig 从文件加载场景配置，格式由扩展名决定
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config file %s: %w", path, err)
	}

	cfg, err := ParseSceneConfig(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseSceneConfig 解析配置内容，缺省字段取默认值，并做校验
func ParseSceneConfig(data []byte, format Format) (*SceneConfig, error) {
	defaults := DefaultSceneConfig()
	// 切片字段先置空再解码，避免解码器在默认值后面追加
	cfg := *defaults
	cfg.LayerSpecs = nil
	cfg.OrnamentColors = nil

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse scene config TOML: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse scene config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scene config format %q", format)
	}

	if cfg.LayerSpecs == nil {
		cfg.LayerSpecs = defaults.LayerSpecs
	}
	if cfg.OrnamentColors == nil {
		cfg.OrnamentColors = defaults.OrnamentColors
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 验证配置有效性
//
// 所有错误都包装 ErrInvalidConfig，树叶层的错误同时包装 geometry.ErrInvalidDimension。
func (c *SceneConfig) Validate() error {
	if len(c.LayerSpecs) == 0 {
		return fmt.Errorf("at least one layer is required: %w", ErrInvalidConfig)
	}
	for i, spec := range c.LayerSpecs {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("%w: layerSpecs[%d]: %w", ErrInvalidConfig, i, err)
		}
	}

	if c.OrnamentCount < 0 {
		return fmt.Errorf("ornamentCount cannot be negative, got %d: %w", c.OrnamentCount, ErrInvalidConfig)
	}
	if !finite(c.SpiralAngleStep) {
		return fmt.Errorf("spiralAngleStep must be finite: %w", ErrInvalidConfig)
	}
	if c.OrnamentCount > 0 && len(c.OrnamentColors) == 0 {
		return fmt.Errorf("ornamentColors cannot be empty when ornamentCount > 0: %w", ErrInvalidConfig)
	}
	for i, color := range c.OrnamentColors {
		if color > 0xffffff {
			return fmt.Errorf("ornamentColors[%d] = %#x is not a 0xRRGGBB value: %w", i, color, ErrInvalidConfig)
		}
	}
	if !finite(c.Emission.SpeedMin) || !finite(c.Emission.SpeedMax) ||
		c.Emission.SpeedMin < 0 || c.Emission.SpeedMin > c.Emission.SpeedMax {
		return fmt.Errorf("emission speed range invalid: min(%.3f) max(%.3f): %w",
			c.Emission.SpeedMin, c.Emission.SpeedMax, ErrInvalidConfig)
	}
	if !finite(c.Emission.Base) || !finite(c.Emission.Amplitude) {
		return fmt.Errorf("emission base and amplitude must be finite: %w", ErrInvalidConfig)
	}

	if c.ParticleCount < 0 {
		return fmt.Errorf("particleCount cannot be negative, got %d: %w", c.ParticleCount, ErrInvalidConfig)
	}
	if !finite(c.FallRate) || c.FallRate < 0 {
		return fmt.Errorf("fallRate must be >= 0, got %v: %w", c.FallRate, ErrInvalidConfig)
	}
	if !finite(c.ParticleSpread) || c.ParticleSpread <= 0 {
		return fmt.Errorf("particleSpread must be > 0, got %v: %w", c.ParticleSpread, ErrInvalidConfig)
	}
	if !finite(c.ParticleTopY) || c.ParticleTopY <= -2 {
		return fmt.Errorf("particleTopY must be above the snow floor (-2), got %v: %w", c.ParticleTopY, ErrInvalidConfig)
	}

	if !finite(c.TreeRotationSpeed) || !finite(c.StarSpinY) || !finite(c.StarSpinZ) {
		return fmt.Errorf("rotation speeds must be finite: %w", ErrInvalidConfig)
	}

	if !finite(c.Bloom.Strength) || !finite(c.Bloom.Radius) || c.Bloom.Strength < 0 || c.Bloom.Radius < 0 {
		return fmt.Errorf("bloom strength and radius must be finite and non-negative: %w", ErrInvalidConfig)
	}
	if !finite(c.Bloom.Threshold) || c.Bloom.Threshold < 0 || c.Bloom.Threshold >= 1 {
		return fmt.Errorf("bloom threshold must be in [0, 1), got %v: %w", c.Bloom.Threshold, ErrInvalidConfig)
	}

	if !finite(c.Camera.FOV) || c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %v: %w", c.Camera.FOV, ErrInvalidConfig)
	}
	if !finite(c.Camera.Near) || !finite(c.Camera.Far) || c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip planes invalid: near(%v) far(%v): %w", c.Camera.Near, c.Camera.Far, ErrInvalidConfig)
	}
	for i := 0; i < 3; i++ {
		if !finite(c.Camera.Position[i]) || !finite(c.Camera.Target[i]) {
			return fmt.Errorf("camera position and target must be finite: %w", ErrInvalidConfig)
		}
	}
	if c.Camera.Position == c.Camera.Target {
		return fmt.Errorf("camera position and target cannot coincide: %w", ErrInvalidConfig)
	}

	if !finite(c.AnnotationOffset) || c.AnnotationOffset < 0 {
		return fmt.Errorf("annotationOffset must be >= 0, got %v: %w", c.AnnotationOffset, ErrInvalidConfig)
	}
	return nil
}

// Spiral 返回彩灯螺旋参数
func (c *SceneConfig) Spiral() geometry.SpiralPlacer {
	return geometry.DefaultSpiralPlacer(c.OrnamentCount, c.SpiralAngleStep)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
