package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol && math.Abs(a[2]-b[2]) <= tol
}

func TestNewTransform(t *testing.T) {
	tr := NewTransform()

	if tr.Position != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("Position = %v, want origin", tr.Position)
	}
	if tr.Rotation != mgl64.QuatIdent() || tr.InverseRotation != mgl64.QuatIdent() {
		t.Errorf("Rotation = %v / %v, want identity", tr.Rotation, tr.InverseRotation)
	}
	if tr.Normal() != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Normal() = %v, want (0,0,1)", tr.Normal())
	}
	if tr.SupportOrientation() != mgl64.Ident3() {
		t.Errorf("SupportOrientation() = %v, want identity", tr.SupportOrientation())
	}
}

func TestTransformNormalMatchesSupportOrientation(t *testing.T) {
	tests := []struct {
		name string
		q    mgl64.Quat
	}{
		{"identity", mgl64.QuatIdent()},
		{"roll", mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0})},
		{"pitch", mgl64.QuatRotate(-0.5, mgl64.Vec3{0, 1, 0})},
		{"yaw", mgl64.QuatRotate(1.0, mgl64.Vec3{0, 0, 1})},
		{"compound", mgl64.QuatRotate(0.7, mgl64.Vec3{1, 2, 3}.Normalize())},
		{"not normalized", mgl64.Quat{W: 2, V: mgl64.Vec3{0, 0.4, 0}}},
	}

	up := mgl64.Vec3{0, 0, 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransformFromRotation(mgl64.Vec3{1, 2, 3}, tt.q)

			if math.Abs(tr.Rotation.Len()-1) > 1e-12 {
				t.Errorf("|Rotation| = %v, want 1", tr.Rotation.Len())
			}
			got := tr.SupportOrientation().Transpose().Mul3x1(up)
			if !vecNear(got, tr.Normal(), 1e-12) {
				t.Errorf("SupportOrientation()ᵀ·up = %v, want %v", got, tr.Normal())
			}
		})
	}
}

func TestTransformToLocal(t *testing.T) {
	tr := NewTransformFromRotation(mgl64.Vec3{1, 0, 0}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	got := tr.ToLocal(mgl64.Vec3{1, 1, 0})
	want := mgl64.Vec3{1, 0, 0}
	if !vecNear(got, want, 1e-12) {
		t.Errorf("ToLocal() = %v, want %v", got, want)
	}
}
