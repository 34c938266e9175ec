// Package spatial holds the packed 3D coordinate and direction primitives
// shared by every other package in the engine.
package spatial

import "github.com/cespare/xxhash/v2"

// Floor constants. Z runs 0 (highest) to 15 (lowest); 7 is ground level.
const (
	FloorMin    int16 = 0
	FloorMax    int16 = 15
	FloorGround int16 = 7
)

// Position is a value triple (x, y: signed 28-bit range; z: 0..15).
type Position struct {
	X int32
	Y int32
	Z int16
}

// New returns a Position with Z clamped to [FloorMin, FloorMax].
func New(x, y int32, z int16) Position {
	return Position{X: x, Y: y, Z: clampFloor(z)}
}

func clampFloor(z int16) int16 {
	if z < FloorMin {
		return FloorMin
	}
	if z > FloorMax {
		return FloorMax
	}
	return z
}

// Equal reports whether two positions are identical.
func (p Position) Equal(o Position) bool {
	return p.X == o.X && p.Y == o.Y && p.Z == o.Z
}

// Less gives a total order over positions, ordered by (z, y, x).
func (p Position) Less(o Position) bool {
	if p.Z != o.Z {
		return p.Z < o.Z
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// Add returns p shifted by (dx, dy, dz), with Z clamped to the valid range.
func (p Position) Add(dx, dy int32, dz int16) Position {
	return New(p.X+dx, p.Y+dy, p.Z+dz)
}

// Pack encodes the position into a single 64-bit value:
// bits [0,8) = z, bits [8,36) = y, bits [36,64) = x.
func (p Position) Pack() uint64 {
	xPart := uint64(uint32(p.X)) & 0xFFFFFFF << 36
	yPart := (uint64(uint32(p.Y)) & 0xFFFFFFF) << 8
	zPart := uint64(uint16(p.Z)) & 0xFF
	return xPart | yPart | zPart
}

// Unpack decodes a Position from a value produced by Pack, sign-extending
// the 28-bit x/y fields.
func Unpack(packed uint64) Position {
	z := int16(packed & 0xFF)

	y := int32(packed>>8) & 0xFFFFFFF
	y = (y << 4) >> 4 // sign-extend from 28 bits

	x := int32(packed>>36) & 0xFFFFFFF
	x = (x << 4) >> 4

	return Position{X: x, Y: y, Z: z}
}

// Hash returns a 64-bit digest of the position, suitable as a map key.
// It is derived from the packed representation via xxhash, so positions
// that Pack maps to the same value (x/y beyond the 28-bit range) hash
// alike.
func (p Position) Hash() uint64 {
	packed := p.Pack()
	var b [8]byte
	b[0] = byte(packed)
	b[1] = byte(packed >> 8)
	b[2] = byte(packed >> 16)
	b[3] = byte(packed >> 24)
	b[4] = byte(packed >> 32)
	b[5] = byte(packed >> 40)
	b[6] = byte(packed >> 48)
	b[7] = byte(packed >> 56)
	return xxhash.Sum64(b[:])
}
