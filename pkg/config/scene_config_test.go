package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gonewx/xmastree/pkg/geometry"
)

// TestDefaultSceneConfig 默认配置必须通过校验，并与参考场景一致
func TestDefaultSceneConfig(t *testing.T) {
	cfg := DefaultSceneConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	if len(cfg.LayerSpecs) != 4 {
		t.Errorf("Expected 4 layers, got %d", len(cfg.LayerSpecs))
	}
	if cfg.OrnamentCount != 40 {
		t.Errorf("Expected 40 ornaments, got %d", cfg.OrnamentCount)
	}
	if cfg.ParticleCount != 1000 {
		t.Errorf("Expected 1000 particles, got %d", cfg.ParticleCount)
	}
	if cfg.FallRate != 0.05 {
		t.Errorf("Expected fallRate 0.05, got %v", cfg.FallRate)
	}
	if cfg.SpiralAngleStep != 0.5 {
		t.Errorf("Expected spiralAngleStep 0.5, got %v", cfg.SpiralAngleStep)
	}
	if !cfg.EnhancedVisuals {
		t.Error("Expected enhanced visuals on by default")
	}

	// 每次返回独立副本
	a, b := DefaultSceneConfig(), DefaultSceneConfig()
	a.LayerSpecs[0].Radius = 99
	if b.LayerSpecs[0].Radius == 99 {
		t.Error("DefaultSceneConfig should not share slices between calls")
	}
}

// TestParseSceneConfigYAML 测试 YAML 解析和默认值合并
func TestParseSceneConfigYAML(t *testing.T) {
	data := []byte(`
layerSpecs:
  - radius: 5
    height: 4
    yOffset: 2
  - radius: 2
    height: 3
    yOffset: 5
ornamentCount: 60
particleCount: 1500
enhancedVisuals: false
fallRate: 0.08
spiralAngleStep: 0.4
ornamentColors: [0xff0000, 0xffffff]
bloom:
  strength: 2
`)

	cfg, err := ParseSceneConfig(data, FormatYAML)
	if err != nil {
		t.Fatalf("ParseSceneConfig failed: %v", err)
	}

	if len(cfg.LayerSpecs) != 2 {
		t.Fatalf("Expected 2 layers (replacing defaults), got %d", len(cfg.LayerSpecs))
	}
	if cfg.LayerSpecs[0] != (geometry.LayerSpec{Radius: 5, Height: 4, YOffset: 2}) {
		t.Errorf("Unexpected first layer: %+v", cfg.LayerSpecs[0])
	}
	if cfg.OrnamentCount != 60 || cfg.ParticleCount != 1500 {
		t.Errorf("Unexpected counts: ornaments=%d particles=%d", cfg.OrnamentCount, cfg.ParticleCount)
	}
	if cfg.EnhancedVisuals {
		t.Error("Expected enhancedVisuals false")
	}
	if len(cfg.OrnamentColors) != 2 || cfg.OrnamentColors[1] != 0xffffff {
		t.Errorf("Unexpected colors: %#v", cfg.OrnamentColors)
	}
	if cfg.Bloom.Strength != 2 {
		t.Errorf("Expected bloom strength 2, got %v", cfg.Bloom.Strength)
	}
	// 未出现的字段保留默认值
	if cfg.Bloom.Threshold != DefaultSceneConfig().Bloom.Threshold {
		t.Errorf("Expected default bloom threshold, got %v", cfg.Bloom.Threshold)
	}
	if cfg.Camera.FOV != 75 {
		t.Errorf("Expected default fov 75, got %v", cfg.Camera.FOV)
	}
}

// TestParseSceneConfigTOML 测试 TOML 解析
func TestParseSceneConfigTOML(t *testing.T) {
	data := []byte(`
ornamentCount = 25
particleCount = 2000
enhancedVisuals = true
fallRate = 0.03
spiralAngleStep = 0.6

[[layerSpecs]]
radius = 3.0
height = 3.0
yOffset = 2.0

[camera]
fov = 60.0
near = 0.5
far = 500.0
position = [0.0, 6.0, 20.0]
target = [0.0, 4.0, 0.0]
`)

	cfg, err := ParseSceneConfig(data, FormatTOML)
	if err != nil {
		t.Fatalf("ParseSceneConfig failed: %v", err)
	}
	if cfg.OrnamentCount != 25 || cfg.ParticleCount != 2000 {
		t.Errorf("Unexpected counts: ornaments=%d particles=%d", cfg.OrnamentCount, cfg.ParticleCount)
	}
	if len(cfg.LayerSpecs) != 1 || cfg.LayerSpecs[0].Radius != 3 {
		t.Errorf("Unexpected layers: %+v", cfg.LayerSpecs)
	}
	if cfg.Camera.FOV != 60 || cfg.Camera.Position != [3]float64{0, 6, 20} {
		t.Errorf("Unexpected camera: %+v", cfg.Camera)
	}
	// TOML 中未给出的调色板使用默认值
	if len(cfg.OrnamentColors) != 4 {
		t.Errorf("Expected default palette, got %d colors", len(cfg.OrnamentColors))
	}
}

// TestParseSceneConfigInvalid 测试非法配置被拒绝
func TestParseSceneConfigInvalid(t *testing.T) {
	tests := []struct {
		name          string
		yaml          string
		wantDimension bool
	}{
		{"空树叶层", "layerSpecs: []\n", false},
		{"半径为 0", "layerSpecs:\n  - {radius: 0, height: 2, yOffset: 1}\n", true},
		{"高度为负", "layerSpecs:\n  - {radius: 1, height: -2, yOffset: 1}\n", true},
		{"彩灯数量为负", "ornamentCount: -1\n", false},
		{"雪花数量为负", "particleCount: -5\n", false},
		{"下落速度为负", "fallRate: -0.1\n", false},
		{"雪花顶部低于地面", "particleTopY: -3\n", false},
		{"空调色板", "ornamentColors: []\n", false},
		{"调色板越界", "ornamentColors: [0x1000000]\n", false},
		{"速度范围反转", "emission: {speedMin: 0.5, speedMax: 0.1}\n", false},
		{"泛光阈值越界", "bloom: {threshold: 1.5}\n", false},
		{"视角越界", "camera: {fov: 0}\n", false},
		{"远近裁剪面反转", "camera: {near: 10, far: 1}\n", false},
		{"相机与目标重合", "camera: {position: [0, 4, 0]}\n", false},
		{"发光速度下限为 NaN", "emission: {speedMin: .nan}\n", false},
		{"发光速度上限为 NaN", "emission: {speedMax: .nan}\n", false},
		{"泛光强度为 NaN", "bloom: {strength: .nan}\n", false},
		{"泛光阈值为 NaN", "bloom: {threshold: .nan}\n", false},
		{"泛光半径为无穷大", "bloom: {radius: .inf}\n", false},
		{"视角为 NaN", "camera: {fov: .nan}\n", false},
		{"近裁剪面为 NaN", "camera: {near: .nan}\n", false},
		{"远裁剪面为无穷大", "camera: {far: .inf}\n", false},
		{"相机位置为 NaN", "camera: {position: [0, .nan, 15]}\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSceneConfig([]byte(tt.yaml), FormatYAML)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if tt.wantDimension && !errors.Is(err, geometry.ErrInvalidDimension) {
				t.Errorf("Expected geometry.ErrInvalidDimension, got %v", err)
			}
		})
	}
}

// TestParseSceneConfigSyntaxError 语法错误不是校验错误
func TestParseSceneConfigSyntaxError(t *testing.T) {
	if _, err := ParseSceneConfig([]byte("layerSpecs: [\n"), FormatYAML); err == nil {
		t.Error("Expected YAML syntax error")
	}
	if _, err := ParseSceneConfig([]byte("ornamentCount = \n"), FormatTOML); err == nil {
		t.Error("Expected TOML syntax error")
	}
	if _, err := ParseSceneConfig([]byte(""), Format("json")); err == nil {
		t.Error("Expected unsupported format error")
	}
}

// TestLoadSceneConfig 测试从文件加载，格式由扩展名决定
func TestLoadSceneConfig(t *testing.T) {
	tempDir := t.TempDir()

	yamlPath := filepath.Join(tempDir, "scene.yaml")
	if err := os.WriteFile(yamlPath, []byte("ornamentCount: 12\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	tomlPath := filepath.Join(tempDir, "scene.TOML")
	if err := os.WriteFile(tomlPath, []byte("ornamentCount = 13\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadSceneConfig(yamlPath)
	if err != nil {
		t.Fatalf("LoadSceneConfig(yaml) failed: %v", err)
	}
	if cfg.OrnamentCount != 12 {
		t.Errorf("Expected 12 ornaments, got %d", cfg.OrnamentCount)
	}

	cfg, err = LoadSceneConfig(tomlPath)
	if err != nil {
		t.Fatalf("LoadSceneConfig(toml) failed: %v", err)
	}
	if cfg.OrnamentCount != 13 {
		t.Errorf("Expected 13 ornaments, got %d", cfg.OrnamentCount)
	}

	if _, err := LoadSceneConfig(filepath.Join(tempDir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestSpiral 配置生成的螺旋参数
func TestSpiral(t *testing.T) {
	cfg := DefaultSceneConfig()
	p := cfg.Spiral().Position(0)
	if p.X() != 3.5 || p.Y() != 1 || p.Z() != 0 {
		t.Errorf("Spiral().Position(0) = %v, want (3.5, 1, 0)", p)
	}
}

// TestShippedSceneConfigs 仓库自带的两份配置与默认值一致
func TestShippedSceneConfigs(t *testing.T) {
	want := DefaultSceneConfig()

	for _, name := range []string{"scene.yaml", "scene.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("..", "..", "data", name)
			if _, err := os.Stat(path); err != nil {
				t.Skipf("%s not found: %v", path, err)
			}

			cfg, err := LoadSceneConfig(path)
			if err != nil {
				t.Fatalf("LoadSceneConfig failed: %v", err)
			}

			if len(cfg.LayerSpecs) != len(want.LayerSpecs) {
				t.Fatalf("Expected %d layers, got %d", len(want.LayerSpecs), len(cfg.LayerSpecs))
			}
			for i := range want.LayerSpecs {
				if cfg.LayerSpecs[i] != want.LayerSpecs[i] {
					t.Errorf("layer %d: got %+v, want %+v", i, cfg.LayerSpecs[i], want.LayerSpecs[i])
				}
			}
			if cfg.OrnamentCount != want.OrnamentCount || cfg.ParticleCount != want.ParticleCount {
				t.Errorf("counts differ: %d/%d", cfg.OrnamentCount, cfg.ParticleCount)
			}
			if cfg.Emission != want.Emission || cfg.Bloom != want.Bloom || cfg.Camera != want.Camera {
				t.Errorf("nested sections differ: %+v %+v %+v", cfg.Emission, cfg.Bloom, cfg.Camera)
			}
		})
	}
}
