package core

import (
	"math"
	"testing"
)

func TestOrthonormalBasis(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 2, 3).Normalize(),
	}

	for _, n := range normals {
		tangent, bitangent := OrthonormalBasis(n)
		if math.Abs(tangent.Dot(n)) > 1e-9 || math.Abs(bitangent.Dot(n)) > 1e-9 || math.Abs(tangent.Dot(bitangent)) > 1e-9 {
			t.Errorf("Basis for %v is not orthogonal: t=%v b=%v", n, tangent, bitangent)
		}
		if math.Abs(tangent.Length()-1) > 1e-9 || math.Abs(bitangent.Length()-1) > 1e-9 {
			t.Errorf("Basis for %v is not normalized: t=%v b=%v", n, tangent, bitangent)
		}
	}
}

func TestHemisphereSampling(t *testing.T) {
	sampler := NewSeededSampler(42)
	normal := NewVec3(0.3, 0.9, -0.2).Normalize()

	samplers := map[string]func(Vec3, Vec2) Vec3{
		"cosine":  SampleCosineHemisphere,
		"uniform": SampleUniformHemisphere,
	}

	for name, sample := range samplers {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				dir := sample(normal, sampler.Get2D())
				if dir.Dot(normal) < -1e-9 {
					t.Fatalf("Direction %v is below the hemisphere", dir)
				}
				if math.Abs(dir.Length()-1) > 1e-9 {
					t.Fatalf("Direction %v is not unit length", dir)
				}
			}
		})
	}
}

func TestCosineHemisphere_MeanCosine(t *testing.T) {
	// E[cos θ] is 2/3 for cosine-weighted sampling and 1/2 for uniform sampling
	sampler := NewSeededSampler(7)
	normal := NewVec3(0, 1, 0)
	const n = 20000

	cosineSum, uniformSum := 0.0, 0.0
	for i := 0; i < n; i++ {
		cosineSum += SampleCosineHemisphere(normal, sampler.Get2D()).Dot(normal)
		uniformSum += SampleUniformHemisphere(normal, sampler.Get2D()).Dot(normal)
	}

	if mean := cosineSum / n; math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Cosine sampling mean cosine %f, expected ~0.667", mean)
	}
	if mean := uniformSum / n; math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Uniform sampling mean cosine %f, expected ~0.5", mean)
	}
}

func TestSamplePointInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(3)
	for i := 0; i < 1000; i++ {
		p := SamplePointInUnitDisk(sampler.Get2D())
		if p.LengthSquared() > 1+1e-9 || p.Z != 0 {
			t.Fatalf("Point %v is outside the unit disk", p)
		}
	}
}
