package shaxdto

// Point is an integer board coordinate.
type Point struct {
	X int
	Y int
}

// BoardGraph maps every board node to the nodes it is connected to.
type BoardGraph map[Point][]Point

// Neighbors returns the adjacency list of p, nil when p is not a node.
func (g BoardGraph) Neighbors(p Point) []Point { return g[p] }

// PieceID is the server-assigned identifier of a piece. The low bit encodes the owner.
type PieceID uint16

// Owner returns the seat owning the piece.
func (id PieceID) Owner() Seat { return Seat(id & 0x1) }
