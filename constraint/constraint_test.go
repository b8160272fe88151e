package constraint

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCorrectionHas(t *testing.T) {
	tests := []struct {
		name string
		corr Correction
		flag Correction
		want bool
	}{
		{"none has nothing", 0, NormalRescaled, false},
		{"zero flag", LengthUnbounded, 0, false},
		{"single", NormalRescaled, NormalRescaled, true},
		{"other bit", NormalRescaled, NormalDegenerate, false},
		{"one of two", LengthUnbounded | WidthUnbounded, WidthUnbounded, true},
		{"both of two", LengthUnbounded | WidthUnbounded, LengthUnbounded | WidthUnbounded, true},
		{"partial mask", LengthUnbounded, LengthUnbounded | WidthUnbounded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.corr.Has(tt.flag); got != tt.want {
				t.Errorf("%v.Has(%v) = %v, want %v", tt.corr, tt.flag, got, tt.want)
			}
		})
	}
}

func TestCorrectionString(t *testing.T) {
	tests := []struct {
		corr Correction
		want string
	}{
		{0, "none"},
		{NormalRescaled, "normal-rescaled"},
		{NormalDegenerate, "normal-degenerate"},
		{LengthUnbounded | WidthUnbounded, "length-unbounded|width-unbounded"},
	}

	for _, tt := range tests {
		if got := tt.corr.String(); got != tt.want {
			t.Errorf("Correction(%d).String() = %q, want %q", uint8(tt.corr), got, tt.want)
		}
	}
}

func TestRotationBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to mgl64.Vec3
	}{
		{"same", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}},
		{"x to z", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}},
		{"tilted", mgl64.Vec3{0.3, -0.4, 0.866}, mgl64.Vec3{0, 0, 1}},
		{"not normalized", mgl64.Vec3{0, 5, 5}, mgl64.Vec3{0, 0, 2}},
		{"opposite z", mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 0, 1}},
		{"opposite x", mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{"nearly opposite", mgl64.Vec3{0.01, 0, -1}, mgl64.Vec3{0, 0, 1}},
		{"opposite within 1e-7", mgl64.Vec3{1e-7, 0, -1}, mgl64.Vec3{0, 0, 1}},
		{"opposite within 1e-10", mgl64.Vec3{0, 1e-10, -1}, mgl64.Vec3{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := RotationBetween(tt.from, tt.to)

			if math.Abs(q.Len()-1) > 1e-12 {
				t.Errorf("|q| = %v, want 1", q.Len())
			}
			got := q.Rotate(tt.from.Normalize())
			want := tt.to.Normalize()
			for i := 0; i < 3; i++ {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Errorf("RotationBetween(%v, %v) maps to %v, want %v", tt.from, tt.to, got, want)
					break
				}
			}
		})
	}
}

func TestWithLoggerNilMutes(t *testing.T) {
	s := NewCoPSupport(WithLogger(nil))
	if s.logf == nil {
		t.Fatal("WithLogger(nil) left a nil logger")
	}
	// must not panic
	s.SetBox(mgl64.Vec2{-1, -1})
	s.SetNormal(mgl64.Vec3{0, 0, 3})
}

func TestUpIsNotShared(t *testing.T) {
	up := Up()
	up[2] = -1

	if Up() != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Up() = %v after mutating a copy, want (0,0,1)", Up())
	}
	s := NewCoPSupport(WithLogger(nil))
	if s.Normal() != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Normal() = %v, want (0,0,1)", s.Normal())
	}
}
