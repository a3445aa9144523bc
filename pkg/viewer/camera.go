package viewer

import (
	"math"

	"github.com/philipparndt/meshvault/pkg/geometry"
)

// Camera represents a 3D camera orbiting a target point
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Field of view in radians
	Distance  float64
	RotationX float64 // Rotation around X axis (vertical)
	RotationY float64 // Rotation around Y axis (horizontal)
}

// NewCamera creates a new camera positioned to view a bounding box
func NewCamera(bbox geometry.BoundingBox) *Camera {
	c := &Camera{
		Up:  geometry.NewVector3(0, 1, 0),
		FOV: math.Pi / 4, // 45 degrees
	}
	c.FrameBox(bbox)
	return c
}

// FrameBox re-targets the camera on the center of a bounding box and backs
// off to twice the largest dimension, keeping the current orbit angles.
func (c *Camera) FrameBox(bbox geometry.BoundingBox) {
	size := bbox.Size()
	distance := size.MaxComponent() * 2.0
	if distance < 0.1 {
		distance = 0.1
	}

	c.Target = bbox.Center()
	c.Distance = distance
	c.UpdatePosition()
}

// UpdatePosition updates camera position based on rotation angles
func (c *Camera) UpdatePosition() {
	// Calculate position based on spherical coordinates
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// Clamp X rotation to prevent gimbal lock
	maxAngle := math.Pi/2 - 0.1
	if c.RotationX > maxAngle {
		c.RotationX = maxAngle
	}
	if c.RotationX < -maxAngle {
		c.RotationX = -maxAngle
	}

	c.UpdatePosition()
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= (1.0 + delta)
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}

// Pan moves the target (and with it the camera) in the view plane.
// Deltas are in fractions of the current distance so panning feels the
// same at every zoom level.
func (c *Camera) Pan(deltaX, deltaY float64) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	offset := right.Mul(-deltaX * c.Distance).Add(up.Mul(deltaY * c.Distance))
	c.Target = c.Target.Add(offset)
	c.UpdatePosition()
}

// Project projects a 3D point to 2D screen coordinates
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	// View transformation
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	// Transform to camera space
	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	// Perspective projection
	if z <= 0.01 {
		z = 0.01 // Prevent division by zero
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}
