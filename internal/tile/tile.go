package tile

import "fmt"

// MaxZoom is the deepest zoom level a tile address may carry.
const MaxZoom = 30

// Tile is an (x, y, z) address in the quad-tree tiling scheme.
// Tiles are values; derived tiles are always new values.
type Tile struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Z     int  `json:"z"`
	Valid bool `json:"valid"`
}

// New builds a tile and marks it valid when it addresses a real cell of the
// global grid at zoom z.
func New(x, y, z int) Tile {
	t := Tile{X: x, Y: y, Z: z}
	if z < 0 || z > MaxZoom {
		return t
	}
	n := 1 << z
	t.Valid = x >= 0 && x < n && y >= 0 && y < n
	return t
}

// Child returns one of the four tiles at z+1 covering t; dx and dy are 0 or 1.
func (t Tile) Child(dx, dy int) Tile {
	return Tile{
		X:     t.X*2 + dx,
		Y:     t.Y*2 + dy,
		Z:     t.Z + 1,
		Valid: true,
	}
}

// Children returns the four children in (0,0), (0,1), (1,0), (1,1) order.
func (t Tile) Children() [4]Tile {
	return [4]Tile{
		t.Child(0, 0),
		t.Child(0, 1),
		t.Child(1, 0),
		t.Child(1, 1),
	}
}

// Parent returns the tile at z-1 that contains t.
func (t Tile) Parent() Tile {
	return Tile{
		X:     floorHalf(t.X),
		Y:     floorHalf(t.Y),
		Z:     t.Z - 1,
		Valid: true,
	}
}

// Equal reports structural identity; the validity flag is not part of it.
func (t Tile) Equal(o Tile) bool {
	return t.X == o.X && t.Y == o.Y && t.Z == o.Z
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// floorHalf divides by two rounding towards negative infinity.
func floorHalf(v int) int {
	return v >> 1
}
