// Package geomtest provides an in-memory geom.Geometry fixture for tests
// across pkg/fingerprint, pkg/diffset, pkg/blame, and pkg/visualdiff.
package geomtest

import "github.com/giovanni-mariano/aleagit/pkg/geom"

// Geometry is a mutable, in-memory implementation of geom.Geometry
// intended for building small fixtures by hand in tests.
type Geometry struct {
	Cells      []geom.CellInfo
	Surfaces   []geom.SurfaceInfo
	Nodes      map[geom.NodeID]geom.TreeNode
	NUniverses int
}

// New returns an empty fixture.
func New() *Geometry {
	return &Geometry{Nodes: make(map[geom.NodeID]geom.TreeNode)}
}

func (g *Geometry) CellCount() int            { return len(g.Cells) }
func (g *Geometry) Cell(i int) geom.CellInfo  { return g.Cells[i] }
func (g *Geometry) SurfaceCount() int         { return len(g.Surfaces) }
func (g *Geometry) Surface(i int) geom.SurfaceInfo {
	return g.Surfaces[i]
}
func (g *Geometry) UniverseCount() int { return g.NUniverses }

func (g *Geometry) TreeNode(id geom.NodeID) geom.TreeNode {
	return g.Nodes[id]
}

// AddLeaf registers a primitive leaf node at id, referencing surfaceID
// with the given sense (+1 or -1).
func (g *Geometry) AddLeaf(id geom.NodeID, surfaceID, sense int) {
	g.Nodes[id] = geom.TreeNode{IsLeaf: true, SurfaceID: surfaceID, Sense: sense}
}

// AddOp registers an internal node at id combining left and right under
// op.
func (g *Geometry) AddOp(id geom.NodeID, op geom.Operation, left, right geom.NodeID) {
	g.Nodes[id] = geom.TreeNode{Op: op, Left: left, Right: right}
}

// SimpleCell appends a minimal cell whose CSG tree is the single leaf
// node at root, with the given material and density, FillUniverse -1
// (no fill), and every other field at its zero value (UniverseID 0).
func (g *Geometry) SimpleCell(cellID, materialID int, density float64, root geom.NodeID) {
	g.Cells = append(g.Cells, geom.CellInfo{
		CellID:       cellID,
		MaterialID:   materialID,
		Density:      density,
		FillUniverse: -1,
		Root:         root,
	})
}
