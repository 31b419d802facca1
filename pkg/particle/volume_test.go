package particle

import (
	"math"
	"math/rand"
	"testing"
)

// TestSpawnVolume_Point tests that the point shape always yields the origin
func TestSpawnVolume_Point(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := SpawnVolume{Shape: ShapePoint}
	for i := 0; i < 10; i++ {
		if p := v.SamplePoint(rng); p.Len() != 0 {
			t.Fatalf("Point volume sample: got %v, want origin", p)
		}
	}
}

// TestSpawnVolume_BoxInterior tests that interior samples stay within the extents
func TestSpawnVolume_BoxInterior(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	v := SpawnVolume{Shape: ShapeBox, Params: []float64{2, 4, 6}}
	for i := 0; i < 1000; i++ {
		p := v.SamplePoint(rng)
		if math.Abs(float64(p.X())) > 1 || math.Abs(float64(p.Y())) > 2 || math.Abs(float64(p.Z())) > 3 {
			t.Fatalf("Box interior sample outside extents: %v", p)
		}
	}
}

// TestSpawnVolume_BoxSurface tests that surface samples sit on a face
func TestSpawnVolume_BoxSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	v := SpawnVolume{Shape: ShapeBox, Params: []float64{2, 4, 6}, SpawnOnSurface: true}
	for i := 0; i < 1000; i++ {
		p := v.SamplePoint(rng)
		onX := math.Abs(math.Abs(float64(p.X()))-1) < 1e-5
		onY := math.Abs(math.Abs(float64(p.Y()))-2) < 1e-5
		onZ := math.Abs(math.Abs(float64(p.Z()))-3) < 1e-5
		if !onX && !onY && !onZ {
			t.Fatalf("Box surface sample not on any face: %v", p)
		}
	}
}

// TestSpawnVolume_SphereInterior tests that interior samples stay in the radius
func TestSpawnVolume_SphereInterior(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	v := SpawnVolume{Shape: ShapeSphere, Params: []float64{5}}
	for i := 0; i < 1000; i++ {
		if p := v.SamplePoint(rng); p.Len() > 5+1e-4 {
			t.Fatalf("Sphere interior sample outside radius: %v (len %v)", p, p.Len())
		}
	}
}

// TestSpawnVolume_SphereSurface tests that surface samples sit on the sphere
func TestSpawnVolume_SphereSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	v := SpawnVolume{Shape: ShapeSphere, Params: []float64{5}, SpawnOnSurface: true}
	for i := 0; i < 1000; i++ {
		p := v.SamplePoint(rng)
		if math.Abs(float64(p.Len())-5) > 1e-4 {
			t.Fatalf("Sphere surface sample off the sphere: %v (len %v)", p, p.Len())
		}
	}
}

// TestSpawnVolume_MalformedParams tests that bad shape parameters degrade to a point
func TestSpawnVolume_MalformedParams(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	volumes := []SpawnVolume{
		{Shape: ShapeBox, Params: []float64{1, 2}},       // missing depth
		{Shape: ShapeBox, Params: []float64{1, -2, 3}},   // negative extent
		{Shape: ShapeSphere, Params: nil},                // missing radius
		{Shape: ShapeSphere, Params: []float64{0}},       // zero radius
	}
	for _, v := range volumes {
		if p := v.SamplePoint(rng); p.Len() != 0 {
			t.Errorf("Malformed volume %+v: got %v, want origin", v, p)
		}
	}
}
