package self

import (
	"errors"
	"math"

	"github.com/go-mclib/legacy/pkg/packets"
)

var (
	ErrNotBound      = errors.New("self: no connection bound")
	ErrNotPositioned = errors.New("self: position not known yet")
)

// LookAt turns the player's head towards a world position.
func (m *Module) LookAt(x, y, z float64) error {
	px, py, pz, ok := m.Position()
	if !ok {
		return ErrNotPositioned
	}
	yaw, pitch := WorldPosToYawPitch(px, py+EyeHeight, pz, x, y, z)
	return m.SetRotation(float32(yaw), float32(pitch))
}

// SetRotation sends a look update at the current position.
func (m *Module) SetRotation(yaw, pitch float32) error {
	m.mu.Lock()
	if m.sender == nil {
		m.mu.Unlock()
		return ErrNotBound
	}
	if !m.positioned {
		m.mu.Unlock()
		return ErrNotPositioned
	}
	m.yaw, m.pitch = yaw, pitch
	p := &packets.C2SPlayerPositionAndLook{
		X: m.x, Y: m.y, Z: m.z,
		Yaw: yaw, Pitch: pitch,
		OnGround: true,
	}
	sender := m.sender
	m.mu.Unlock()

	sender.SendDetached(p)
	return nil
}

// Rotate adds to the current yaw and pitch; pitch is clamped to [-90, 90]
// and yaw wrapped into [0, 360).
func (m *Module) Rotate(deltaYaw, deltaPitch float32) error {
	yaw, pitch := m.Rotation()
	newYaw := math.Mod(float64(yaw+deltaYaw), 360)
	if newYaw < 0 {
		newYaw += 360
	}
	newPitch := math.Max(-90, math.Min(90, float64(pitch+deltaPitch)))
	return m.SetRotation(float32(newYaw), float32(newPitch))
}

// WorldPosToYawPitch calculates yaw and pitch to look from (x,y,z) at (lookX,lookY,lookZ).
// Matches MC convention: yaw 0=south(+Z), 90=west(-X), -90/270=east(+X), 180=north(-Z).
func WorldPosToYawPitch(x, y, z, lookX, lookY, lookZ float64) (yaw, pitch float64) {
	dx := lookX - x
	dy := lookY - y
	dz := lookZ - z
	yaw = math.Atan2(dz, dx)*180/math.Pi - 90
	pitch = -math.Atan2(dy, math.Sqrt(dx*dx+dz*dz)) * 180 / math.Pi
	return
}
