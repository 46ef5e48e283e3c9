// Package mathx holds the small amount of 3D math the controller needs on top of mgl64
//
// Convention: +X is right, +Y is up and +Z is forward. The identity rotation looks down +Z
package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the general purpose threshold for degenerate vectors and lengths
const Epsilon = 1e-7

var (
	// UnitX is the local right axis
	UnitX = mgl64.Vec3{1, 0, 0}
	// UnitY is the world up axis
	UnitY = mgl64.Vec3{0, 1, 0}
	// UnitZ is the local forward axis
	UnitZ = mgl64.Vec3{0, 0, 1}
	// Down is -UnitY
	Down = mgl64.Vec3{0, -1, 0}
)

// LookRotation returns the rotation that maps +Z onto forward and +Y onto up,
// after up has been made perpendicular to forward. A zero forward yields identity
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	f := NormalizeSafe(forward, mgl64.Vec3{})
	if f.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	r := up.Cross(f)
	if r.LenSqr() < Epsilon*Epsilon {
		// up is parallel to forward, pick any perpendicular axis
		r = Perpendicular(f)
	}
	r = r.Normalize()
	u := f.Cross(r)
	m := mgl64.Mat3FromCols(r, u, f)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// Perpendicular returns a unit vector perpendicular to v
func Perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	axis := UnitX
	if math.Abs(v.X()) > 0.9 {
		axis = UnitY
	}
	return NormalizeSafe(axis.Cross(v), UnitZ)
}

// Forward returns the rotated +Z axis
func Forward(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(UnitZ) }

// Right returns the rotated +X axis
func Right(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(UnitX) }

// Up returns the rotated +Y axis
func Up(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(UnitY) }

// InverseRotate rotates v by the inverse of unit quaternion q
func InverseRotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Conjugate().Rotate(v)
}

// NormalizeSafe returns v normalized, or fallback when v is too short to normalize
func NormalizeSafe(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon || !isFinite(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// ProjectOnPlane removes the component of v along the unit normal n
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// HorizontalLength is the length of the XZ part of v
func HorizontalLength(v mgl64.Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}

// Yaw returns the heading of q around +Y in radians, zero when looking down +Z
func Yaw(q mgl64.Quat) float64 {
	f := Forward(q)
	return math.Atan2(f.X(), f.Z())
}

// IsFinite reports whether every component of v is a finite number
func IsFinite(v mgl64.Vec3) bool {
	return isFinite(v[0]) && isFinite(v[1]) && isFinite(v[2])
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
