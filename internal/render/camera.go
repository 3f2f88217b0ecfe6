package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera orbits Target at Distance. Yaw and Pitch are in radians.
type Camera struct {
	Target   mgl64.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
	FOV      float64
	Near     float64
	Far      float64
}

// NewCamera places the eye at (-3, 3, 3) looking at the origin.
func NewCamera() *Camera {
	c := &Camera{FOV: mgl64.DegToRad(75), Near: 0.1, Far: 100}
	c.LookFrom(mgl64.Vec3{-3, 3, 3})
	return c
}

// LookFrom sets the orbit so the eye sits at eye.
func (c *Camera) LookFrom(eye mgl64.Vec3) {
	d := eye.Sub(c.Target)
	c.Distance = d.Len()
	if c.Distance == 0 {
		return
	}
	c.Pitch = math.Asin(d.Y() / c.Distance)
	c.Yaw = math.Atan2(d.X(), d.Z())
}

func (c *Camera) Eye() mgl64.Vec3 {
	sp, cp := math.Sincos(c.Pitch)
	sy, cy := math.Sincos(c.Yaw)
	return c.Target.Add(mgl64.Vec3{cp * sy, sp, cp * cy}.Mul(c.Distance))
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -1.5, 1.5)
}

func (c *Camera) Zoom(factor float64) {
	c.Distance = mgl64.Clamp(c.Distance*factor, 1, c.Far/2)
}

// ViewProjection returns the combined matrix for a viewport of w x h dots.
func (c *Camera) ViewProjection(w, h int) mgl64.Mat4 {
	aspect := 1.0
	if h > 0 {
		aspect = float64(w) / float64(h)
	}
	proj := mgl64.Perspective(c.FOV, aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// Project maps a world point to dot coordinates. ok is false for points
// behind the near plane.
func Project(vp mgl64.Mat4, p mgl64.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = int(math.Round((ndc.X() + 1) / 2 * float64(w-1)))
	y = int(math.Round((1 - ndc.Y()) / 2 * float64(h-1)))
	return x, y, ndc.Z(), true
}
