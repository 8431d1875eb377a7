package math3d

import (
	"math/rand/v2"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := FromQuat(0, 0.2474, 0, 0.9689)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := TRS(V3(1, 2, 3), [4]float64{0, 0, 0, 1}, V3(2, 2, 2))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}

func BenchmarkRandomInUnitSphere(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))

	for b.Loop() {
		_ = RandomInUnitSphere(rng)
	}
}

func BenchmarkRayAt(b *testing.B) {
	r := NewRay(V3(0, 0, 0), V3(1, 2, 3))

	for b.Loop() {
		_ = r.At(0.5)
	}
}
