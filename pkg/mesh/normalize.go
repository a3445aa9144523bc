// Package mesh turns decoded triangle soup into render-ready geometry:
// indexed vertices, smooth per-vertex normals, and an origin-centered
// bounding box.
package mesh

import (
	"errors"

	"github.com/philipparndt/meshvault/pkg/geometry"
	"github.com/philipparndt/meshvault/pkg/stl"
)

// ErrEmptyMesh indicates a structurally valid mesh with zero triangles.
// Callers must not attempt to render an empty geometry.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// Geometry is normalized render geometry. Positions are deduplicated,
// re-centered on the bounding box center, and paired with unit-length
// shading normals. A Geometry is owned by the pipeline that produced it
// and is never mutated after Normalize returns.
type Geometry struct {
	Positions []geometry.Vector3
	Normals   []geometry.Vector3
	Faces     [][3]int
	Bounds    geometry.BoundingBox
}

// VertexCount returns the number of unique vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of faces.
func (g *Geometry) TriangleCount() int {
	return len(g.Faces)
}

// Size returns the bounding dimensions (max - min) of the geometry.
func (g *Geometry) Size() geometry.Vector3 {
	return g.Bounds.Size()
}

// SurfaceArea returns the total area of all faces.
func (g *Geometry) SurfaceArea() float64 {
	total := 0.0
	for _, f := range g.Faces {
		e1 := g.Positions[f[1]].Sub(g.Positions[f[0]])
		e2 := g.Positions[f[2]].Sub(g.Positions[f[0]])
		total += e1.Cross(e2).Length() / 2.0
	}
	return total
}

// Normalize builds a Geometry from a decoded model. Vertices shared by
// multiple triangles are merged by exact position so that shading normals
// can be averaged across adjacent faces. The whole model is translated so
// the bounding box center lands on the origin.
func Normalize(m *stl.Model) (*Geometry, error) {
	if m == nil || len(m.Triangles) == 0 {
		return nil, ErrEmptyMesh
	}

	g := &Geometry{
		Faces: make([][3]int, 0, len(m.Triangles)),
	}

	// Vertex arena: identical positions collapse to one index so each
	// vertex sees all of its incident faces.
	index := make(map[geometry.Vector3]int)
	lookup := func(v geometry.Vector3) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(g.Positions)
		index[v] = i
		g.Positions = append(g.Positions, v)
		return i
	}

	// Per-vertex fallback when every incident face is degenerate: the
	// facet normal recorded in the file, if it is usable.
	fileNormal := make([]geometry.Vector3, 0, len(m.Triangles)*3)

	accum := make([]geometry.Vector3, 0, len(m.Triangles)*3)
	grow := func(n int) {
		for len(accum) < n {
			accum = append(accum, geometry.Vector3{})
			fileNormal = append(fileNormal, geometry.Vector3{})
		}
	}

	for _, tri := range m.Triangles {
		face := [3]int{lookup(tri.V1), lookup(tri.V2), lookup(tri.V3)}
		g.Faces = append(g.Faces, face)
		grow(len(g.Positions))

		// Uniform weighting: every non-degenerate incident face
		// contributes its unit normal once.
		faceNormal := tri.CalculateNormal()
		for _, vi := range face {
			if !faceNormal.IsZero() {
				accum[vi] = accum[vi].Add(faceNormal)
			}
			if fileNormal[vi].IsZero() {
				fileNormal[vi] = tri.Normal.Normalize()
			}
		}
	}

	g.Normals = make([]geometry.Vector3, len(g.Positions))
	for i := range g.Normals {
		n := accum[i].Normalize()
		if n.IsZero() {
			n = fileNormal[i]
		}
		if n.IsZero() {
			n = geometry.NewVector3(0, 0, 1)
		}
		g.Normals[i] = n
	}

	// Center on the bounding box center, then express the box in the
	// centered frame. Size is translation-invariant but the renderer
	// frames its camera around the centered box.
	bounds := geometry.NewBoundingBox()
	for _, p := range g.Positions {
		bounds.Extend(p)
	}
	center := bounds.Center()
	for i := range g.Positions {
		g.Positions[i] = g.Positions[i].Sub(center)
	}
	g.Bounds = bounds.Translated(center.Mul(-1))

	return g, nil
}
