package constraint

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

const (
	copRows = 4
	copCols = 6

	// containsTolerance is the slack accepted by Contains on each row.
	containsTolerance = 1e-9
)

// CoPSupport is the rectangular Center-of-Pressure region of a flat contact.
// It keeps the CoP inside the patch through A·[force; moment] <= ub, with
// the lower bounds left inactive.
//
// Orientation maps the reference frame onto the contact frame, so that
// Normal == Orientation()ᵀ·Up. Every setter re-derives the constraint set
// before returning.
type CoPSupport struct {
	a  *mat.Dense
	ub *mat.VecDense
	lb *mat.VecDense

	orientation mgl64.Mat3
	normal      mgl64.Vec3
	box         mgl64.Vec2 // length, width

	logf Logf
}

func newCoPSupport(opts []Option) *CoPSupport {
	s := &CoPSupport{
		a:           mat.NewDense(copRows, copCols, nil),
		ub:          mat.NewVecDense(copRows, nil),
		lb:          mat.NewVecDense(copRows, nil),
		orientation: mgl64.Ident3(),
		normal:      Up(),
		box:         mgl64.Vec2{Unbounded, Unbounded},
		logf:        defaultLogf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewCoPSupport creates a flat, upward facing support with an unbounded box
func NewCoPSupport(opts ...Option) *CoPSupport {
	s := newCoPSupport(opts)
	s.Update()
	return s
}

// NewCoPSupportFromOrientation creates a support from the contact orientation and box (length, width).
// Non-positive box dimensions are made unbounded without a diagnostic.
func NewCoPSupportFromOrientation(orientation mgl64.Mat3, box mgl64.Vec2, opts ...Option) *CoPSupport {
	s := newCoPSupport(opts)
	s.orientation = orientation
	s.normal = orientation.Transpose().Mul3x1(Up())
	s.box, _ = sanitizeBox(box)
	s.Update()
	return s
}

// NewCoPSupportFromNormal creates a support from the surface normal and box (length, width).
// The orientation is the minimal rotation carrying the normal onto Up.
func NewCoPSupportFromNormal(normal mgl64.Vec3, box mgl64.Vec2, opts ...Option) *CoPSupport {
	s := newCoPSupport(opts)
	s.normal, _ = sanitizeNormal(normal)
	s.orientation = orientationFromNormal(s.normal)
	s.box, _ = sanitizeBox(box)
	s.Update()
	return s
}

// NewCoPSupportFromWrenchCone narrows a wrench based support to its CoP part.
// The matrix, bounds and frame of src are copied as they are: src must already
// be consistent, nothing is re-derived or checked here.
func NewCoPSupportFromWrenchCone(src WrenchSupport, opts ...Option) *CoPSupport {
	s := newCoPSupport(opts)
	s.a = mat.DenseCopyOf(src.A())
	s.ub = mat.VecDenseCopyOf(src.Ub())
	s.lb = mat.VecDenseCopyOf(src.Lb())
	s.orientation = src.Orientation()
	s.normal = src.Normal()
	s.box = src.Box()
	return s
}

// Update derives the inequality matrix and its bounds from the orientation and box.
//
//	[-W·c2ᵀ  c0ᵀ]
//	[-W·c2ᵀ -c0ᵀ]
//	[-L·c2ᵀ  c1ᵀ]
//	[-L·c2ᵀ -c1ᵀ]
//
// with L, W the half length and half width and c0, c1, c2 the orientation columns.
func (s *CoPSupport) Update() {
	if r, c := s.a.Dims(); r != copRows || c != copCols {
		s.a = mat.NewDense(copRows, copCols, nil)
		s.ub = mat.NewVecDense(copRows, nil)
		s.lb = mat.NewVecDense(copRows, nil)
	}

	l := s.box[0] / 2
	w := s.box[1] / 2
	c0 := s.orientation.Col(0)
	c1 := s.orientation.Col(1)
	c2 := s.orientation.Col(2)

	s.a.SetRow(0, copRow(w, c2, c0, 1))
	s.a.SetRow(1, copRow(w, c2, c0, -1))
	s.a.SetRow(2, copRow(l, c2, c1, 1))
	s.a.SetRow(3, copRow(l, c2, c1, -1))

	for i := 0; i < copRows; i++ {
		s.ub.SetVec(i, 0)
		s.lb.SetVec(i, -math.MaxFloat64)
	}
}

func copRow(half float64, normal, axis mgl64.Vec3, sign float64) []float64 {
	return []float64{
		-half * normal[0], -half * normal[1], -half * normal[2],
		sign * axis[0], sign * axis[1], sign * axis[2],
	}
}

// SetOrientation replaces the orientation; the normal follows.
func (s *CoPSupport) SetOrientation(orientation mgl64.Mat3) {
	s.orientation = orientation
	s.normal = orientation.Transpose().Mul3x1(Up())
	s.Update()
}

// SetNormal replaces the surface normal; the orientation follows.
// A normal which is not unit length is normalized and reported.
func (s *CoPSupport) SetNormal(normal mgl64.Vec3) Correction {
	n, corr := sanitizeNormal(normal)
	switch {
	case corr.Has(NormalDegenerate):
		s.logf("Warning: normal %v cannot be normalized, reset to %v", normal, Up())
	case corr.Has(NormalRescaled):
		s.logf("Warning: normal %v is not a unit vector, normalized to %v", normal, n)
	}

	s.normal = n
	s.orientation = orientationFromNormal(n)
	s.Update()
	return corr
}

// SetBox replaces the box (length, width). Each non-positive dimension is
// replaced by Unbounded and reported.
func (s *CoPSupport) SetBox(box mgl64.Vec2) Correction {
	b, corr := sanitizeBox(box)
	if corr.Has(LengthUnbounded) {
		s.logf("Warning: box length %v has to be positive, set to max float", box[0])
	}
	if corr.Has(WidthUnbounded) {
		s.logf("Warning: box width %v has to be positive, set to max float", box[1])
	}

	s.box = b
	s.Update()
	return corr
}

func (s *CoPSupport) A() mat.Matrix { return s.a }
func (s *CoPSupport) Ub() mat.Vector { return s.ub }
func (s *CoPSupport) Lb() mat.Vector { return s.lb }
func (s *CoPSupport) Box() mgl64.Vec2 { return s.box }
func (s *CoPSupport) Orientation() mgl64.Mat3 { return s.orientation }
func (s *CoPSupport) Normal() mgl64.Vec3 { return s.normal }

// Residual evaluates A·[force; moment] - ub. Non-positive entries are satisfied rows.
func (s *CoPSupport) Residual(force, moment mgl64.Vec3) []float64 {
	x := mat.NewVecDense(copCols, []float64{
		force[0], force[1], force[2],
		moment[0], moment[1], moment[2],
	})

	rows, _ := s.a.Dims()
	r := mat.NewVecDense(rows, nil)
	r.MulVec(s.a, x)
	r.SubVec(r, s.ub)
	return r.RawVector().Data
}

// Contains reports whether the wrench keeps the CoP inside the support region.
func (s *CoPSupport) Contains(force, moment mgl64.Vec3) bool {
	for _, v := range s.Residual(force, moment) {
		if v > containsTolerance || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (s *CoPSupport) String() string {
	return fmt.Sprintf("         R: %v\n   (nsurf): %v\n       box: %v\n",
		s.orientation, s.normal, s.box)
}

// sanitizeNormal returns the unit normal, or Up when the input has no direction.
func sanitizeNormal(normal mgl64.Vec3) (mgl64.Vec3, Correction) {
	scale := 0.0
	for _, v := range normal {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Up(), NormalDegenerate
		}
		scale = max(scale, math.Abs(v))
	}
	if scale == 0 {
		return Up(), NormalDegenerate
	}

	if math.Abs(normal.Dot(normal)-1) <= unitTolerance {
		return normal, 0
	}

	// dividing by the largest component first keeps the squared norm finite
	scaled := mgl64.Vec3{normal[0] / scale, normal[1] / scale, normal[2] / scale}
	return scaled.Mul(1 / scaled.Len()), NormalRescaled
}

func sanitizeBox(box mgl64.Vec2) (mgl64.Vec2, Correction) {
	var corr Correction
	// !(x > 0) also catches NaN
	if !(box[0] > 0) {
		box[0] = Unbounded
		corr |= LengthUnbounded
	}
	if !(box[1] > 0) {
		box[1] = Unbounded
		corr |= WidthUnbounded
	}
	return box, corr
}

// orientationFromNormal returns R such that R·normal == Up.
func orientationFromNormal(normal mgl64.Vec3) mgl64.Mat3 {
	return RotationBetween(normal, Up()).Mat4().Mat3()
}
