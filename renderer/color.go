package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// colorOf converts a [0,1] RGB vector to an opaque raylib color, scaled by shade.
func colorOf(c r3.Vec, shade float64) rl.Color {
	return rl.Color{
		R: channel(c.X * shade),
		G: channel(c.Y * shade),
		B: channel(c.Z * shade),
		A: 255,
	}
}

func channel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
