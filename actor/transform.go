package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents the placement of a contact frame in the world
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformFromRotation creates a transform at position, rotated by q.
// q is normalized.
func NewTransformFromRotation(position mgl64.Vec3, q mgl64.Quat) Transform {
	q = q.Normalize()
	return Transform{
		Position:        position,
		Rotation:        q,
		InverseRotation: q.Inverse(),
	}
}

// Normal returns the local z axis of the frame, expressed in the world
func (t Transform) Normal() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
}

// SupportOrientation returns the world to contact rotation matrix, whose
// transpose carries the world up axis onto Normal.
func (t Transform) SupportOrientation() mgl64.Mat3 {
	return t.InverseRotation.Mat4().Mat3()
}

// ToLocal expresses a world point in the contact frame
func (t Transform) ToLocal(point mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(point.Sub(t.Position))
}
