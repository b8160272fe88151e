package constraint

import (
	"log"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

const (
	// Unbounded is the box dimension used for an unconstrained support patch,
	// and the magnitude of the inactive lower bounds.
	Unbounded = math.MaxFloat64

	// unitTolerance is the accepted deviation of a squared norm from 1.
	unitTolerance = 1e-12
)

// Up returns the reference "up" axis of the world frame.
func Up() mgl64.Vec3 {
	return mgl64.Vec3{0, 0, 1}
}

// Inequality is a linear constraint set lb <= A·x <= ub, as consumed by a solver.
type Inequality interface {
	A() mat.Matrix
	Ub() mat.Vector
	Lb() mat.Vector
}

// WrenchSupport is a support representation built on a wrench cone.
// A CoPSupport can be narrowed from any WrenchSupport.
type WrenchSupport interface {
	Inequality
	Orientation() mgl64.Mat3
	Normal() mgl64.Vec3
	Box() mgl64.Vec2
}

// Logf receives diagnostics about corrected inputs.
type Logf func(format string, v ...any)

// Option configures a CoPSupport at construction.
type Option func(*CoPSupport)

// WithLogger redirects the diagnostics of a support. Passing nil mutes them.
func WithLogger(f Logf) Option {
	return func(s *CoPSupport) {
		if f == nil {
			f = func(string, ...any) {}
		}
		s.logf = f
	}
}

// Correction reports which inputs a setter had to fix.
type Correction uint8

const (
	// NormalRescaled means the normal was not unit length and got normalized.
	NormalRescaled Correction = 1 << iota
	// NormalDegenerate means the normal could not be normalized and was reset to Up.
	NormalDegenerate
	// LengthUnbounded means a non-positive box length was replaced by Unbounded.
	LengthUnbounded
	// WidthUnbounded means a non-positive box width was replaced by Unbounded.
	WidthUnbounded
)

// Has reports whether all bits of flag are set.
func (c Correction) Has(flag Correction) bool {
	return flag != 0 && c&flag == flag
}

func (c Correction) String() string {
	if c == 0 {
		return "none"
	}

	var names []string
	for _, f := range []struct {
		flag Correction
		name string
	}{
		{NormalRescaled, "normal-rescaled"},
		{NormalDegenerate, "normal-degenerate"},
		{LengthUnbounded, "length-unbounded"},
		{WidthUnbounded, "width-unbounded"},
	} {
		if c.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// RotationBetween returns the minimal rotation taking the direction of from onto to.
// Exactly opposite directions are rotated by pi around an axis orthogonal to from.
func RotationBetween(from, to mgl64.Vec3) mgl64.Quat {
	from = from.Normalize()
	to = to.Normalize()

	// |from+to| = 2cos(θ/2) and |from×to| = sin(θ): both stay accurate close to
	// θ = pi, where 1+from·to loses every significant digit.
	half := from.Add(to)
	bisector := half.Len()
	if bisector < unitTolerance {
		axis := mgl64.Vec3{1, 0, 0}.Cross(from)
		if axis.Dot(axis) < 1e-6 {
			axis = mgl64.Vec3{0, 1, 0}.Cross(from)
		}
		return mgl64.QuatRotate(math.Pi, axis.Normalize())
	}

	q := mgl64.Quat{W: bisector * 0.5, V: from.Cross(to).Mul(1 / bisector)}
	// Quat.Normalize skips inputs already close to unit length
	return q.Scale(1 / q.Len())
}

func defaultLogf(format string, v ...any) {
	log.Printf(format, v...)
}
