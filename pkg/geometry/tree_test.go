package geometry

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildTreeDefault(t *testing.T) {
	specs := DefaultLayerSpecs()
	tree, err := BuildTree(specs, DefaultTreeOptions())
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	if len(tree.Layers) != len(specs) {
		t.Fatalf("layers = %d, want %d", len(tree.Layers), len(specs))
	}
	for i, layer := range tree.Layers {
		if layer.Spec != specs[i] {
			t.Errorf("layer %d spec = %+v, want %+v", i, layer.Spec, specs[i])
		}
		if layer.Offset.Y() != specs[i].YOffset {
			t.Errorf("layer %d offset y = %v, want %v", i, layer.Offset.Y(), specs[i].YOffset)
		}
		_, max := layer.Mesh.Bounds()
		if max.X() != specs[i].Radius {
			t.Errorf("layer %d radius = %v, want %v", i, max.X(), specs[i].Radius)
		}
	}

	if tree.Trunk.Mesh == nil || tree.Trunk.Offset.Y() != 0 {
		t.Errorf("unexpected trunk %+v", tree.Trunk)
	}
	if tree.Star.Mesh == nil || tree.Star.Offset.Y() != 9.3 {
		t.Errorf("unexpected star offset %v", tree.Star.Offset)
	}
}

func TestBuildTreeIsPure(t *testing.T) {
	a, err := BuildTree(DefaultLayerSpecs(), DefaultTreeOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildTree(DefaultLayerSpecs(), DefaultTreeOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Layers {
		pa, pb := a.Layers[i].Mesh.Positions, b.Layers[i].Mesh.Positions
		if len(pa) != len(pb) {
			t.Fatalf("layer %d vertex count differs", i)
		}
		for k := range pa {
			if pa[k] != pb[k] {
				t.Fatalf("layer %d vertex %d differs: %v vs %v", i, k, pa[k], pb[k])
			}
		}
	}
}

func TestBuildTreeRejectsInvalidLayer(t *testing.T) {
	tests := []struct {
		name  string
		specs []LayerSpec
		want  string
	}{
		{"zero radius", []LayerSpec{{Radius: 4, Height: 4, YOffset: 2}, {Radius: 0, Height: 3, YOffset: 4}}, "layer 1"},
		{"negative height", []LayerSpec{{Radius: 4, Height: -1, YOffset: 2}}, "layer 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTree(tt.specs, DefaultTreeOptions())
			if !errors.Is(err, ErrInvalidDimension) {
				t.Fatalf("expected ErrInvalidDimension, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestBuildTreeWithoutLayers(t *testing.T) {
	tree, err := BuildTree(nil, DefaultTreeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Layers) != 0 {
		t.Errorf("expected no layers, got %d", len(tree.Layers))
	}
	if tree.Trunk.Mesh == nil || tree.Star.Mesh == nil {
		t.Error("trunk and star are always built")
	}
}
