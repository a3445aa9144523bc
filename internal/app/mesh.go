package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/meshvault/pkg/geometry"
	"github.com/philipparndt/meshvault/pkg/mesh"
)

// geometryToRaylibMesh converts normalized geometry to a Raylib mesh with
// lighting baked into vertex colors. Smooth shading comes from the
// per-vertex normals the normalizer computed.
func geometryToRaylibMesh(g *mesh.Geometry) rl.Mesh {
	triangleCount := g.TriangleCount()
	vertexCount := triangleCount * 3

	m := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	texcoords := make([]float32, vertexCount*2)
	colors := make([]uint8, vertexCount*4)

	lightDir := geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

	idx := 0
	for _, face := range g.Faces {
		for _, vi := range face {
			pos := g.Positions[vi]
			normal := g.Normals[vi]

			// Diffuse with 30% ambient floor, double-sided
			lightIntensity := math.Max(0.3, math.Abs(normal.Dot(lightDir)))
			r := uint8(200.0 * lightIntensity * 0.5)
			gc := uint8(200.0 * lightIntensity * 0.6)
			b := uint8(200.0 * lightIntensity)

			vertices[idx*3+0] = float32(pos.X)
			vertices[idx*3+1] = float32(pos.Y)
			vertices[idx*3+2] = float32(pos.Z)
			normals[idx*3+0] = float32(normal.X)
			normals[idx*3+1] = float32(normal.Y)
			normals[idx*3+2] = float32(normal.Z)
			texcoords[idx*2+0] = 0
			texcoords[idx*2+1] = 0
			colors[idx*4+0] = r
			colors[idx*4+1] = gc
			colors[idx*4+2] = b
			colors[idx*4+3] = 255
			idx++
		}
	}

	if len(vertices) > 0 {
		m.Vertices = &vertices[0]
	}
	if len(normals) > 0 {
		m.Normals = &normals[0]
	}
	if len(texcoords) > 0 {
		m.Texcoords = &texcoords[0]
	}
	if len(colors) > 0 {
		m.Colors = &colors[0]
	}

	// Upload mesh data to GPU; must run on the main thread
	rl.UploadMesh(&m, false)

	return m
}

// meshEdges returns each undirected edge of the geometry exactly once.
func meshEdges(g *mesh.Geometry) [][2]int {
	seen := make(map[[2]int]struct{})
	edges := make([][2]int, 0, g.TriangleCount()*3/2)

	for _, face := range g.Faces {
		pairs := [3][2]int{
			{face[0], face[1]},
			{face[1], face[2]},
			{face[2], face[0]},
		}
		for _, p := range pairs {
			if p[0] > p[1] {
				p[0], p[1] = p[1], p[0]
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			edges = append(edges, p)
		}
	}
	return edges
}

// drawWireframe renders the deduplicated edge set as 3D lines
func (app *App) drawWireframe() {
	wireframeColor := rl.NewColor(100, 100, 100, 200)

	for _, e := range app.Model.edges {
		a := app.Model.geom.Positions[e[0]]
		b := app.Model.geom.Positions[e[1]]
		rl.DrawLine3D(
			rl.Vector3{X: float32(a.X), Y: float32(a.Y), Z: float32(a.Z)},
			rl.Vector3{X: float32(b.X), Y: float32(b.Y), Z: float32(b.Z)},
			wireframeColor,
		)
	}
}
