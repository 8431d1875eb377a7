// Package models imports sphere scenes from glTF/GLB files.
//
// Every mesh instance in the document becomes one sphere: the bounding sphere
// of the mesh's POSITION accessor bounds, carried into world space by the node
// hierarchy. Authoring tools export a UV sphere as exactly such a mesh, so a
// scene of spheres round-trips through any glTF editor.
package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/scene"
)

// ErrNoBounds is returned when a mesh carries no POSITION min/max bounds.
var ErrNoBounds = errors.New("mesh has no position bounds")

// GLTFLoader converts glTF documents into scenes.
type GLTFLoader struct {
	// RadiusScale multiplies every imported radius.
	RadiusScale float64
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		RadiusScale: 1,
	}
}

// Load opens a .gltf or .glb file and returns its spheres as a scene.
func Load(path string) (*scene.Scene, error) {
	return NewGLTFLoader().Load(path)
}

// FromDocument converts an already decoded document.
func FromDocument(doc *gltf.Document) (*scene.Scene, error) {
	return NewGLTFLoader().FromDocument(doc)
}

// Load opens a .gltf or .glb file and returns its spheres as a scene.
func (l *GLTFLoader) Load(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	world, err := l.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return world, nil
}

// FromDocument walks the document's default scene (or every root node when no
// scene is declared) depth-first, in document order.
func (l *GLTFLoader) FromDocument(doc *gltf.Document) (*scene.Scene, error) {
	world := scene.New()
	for _, idx := range rootNodes(doc) {
		if err := l.walk(doc, idx, math3d.Identity(), world, 0); err != nil {
			return nil, err
		}
	}
	return world, nil
}

// maxNodeDepth guards against cyclic node graphs in malformed files.
const maxNodeDepth = 256

func (l *GLTFLoader) walk(doc *gltf.Document, idx int, parent math3d.Mat4, world *scene.Scene, depth int) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if depth > maxNodeDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxNodeDepth)
	}

	node := doc.Nodes[idx]
	m := parent.Mul(localTransform(node))

	if node.Mesh != nil {
		s, err := l.sphereFor(doc, *node.Mesh, m)
		if err != nil {
			return fmt.Errorf("node %d %q: %w", idx, node.Name, err)
		}
		if err := world.Add(s); err != nil {
			return err
		}
	}

	for _, child := range node.Children {
		if err := l.walk(doc, child, m, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// sphereFor fits a sphere to mesh meshIdx placed by transform m.
func (l *GLTFLoader) sphereFor(doc *gltf.Document, meshIdx int, m math3d.Mat4) (*scene.Sphere, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	lo, hi, err := meshBounds(doc, doc.Meshes[meshIdx])
	if err != nil {
		return nil, fmt.Errorf("mesh %d: %w", meshIdx, err)
	}

	localCentre := lo.Add(hi).Scale(0.5)
	half := hi.Sub(lo).Scale(0.5)
	localRadius := math.Max(half.X, math.Max(half.Y, half.Z))

	centre := m.MulVec3(localCentre)
	radius := localRadius * m.MaxScale() * l.RadiusScale
	return scene.NewSphere(centre, radius)
}

// meshBounds unions the POSITION bounds of every triangle primitive.
func meshBounds(doc *gltf.Document, mesh *gltf.Mesh) (lo, hi math3d.Vec3, err error) {
	found := false
	for _, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok || posIdx < 0 || posIdx >= len(doc.Accessors) {
			continue
		}
		acc := doc.Accessors[posIdx]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}

		pmin := math3d.V3(acc.Min[0], acc.Min[1], acc.Min[2])
		pmax := math3d.V3(acc.Max[0], acc.Max[1], acc.Max[2])
		if !found {
			lo, hi, found = pmin, pmax, true
			continue
		}
		lo = math3d.V3(math.Min(lo.X, pmin.X), math.Min(lo.Y, pmin.Y), math.Min(lo.Z, pmin.Z))
		hi = math3d.V3(math.Max(hi.X, pmax.X), math.Max(hi.Y, pmax.Y), math.Max(hi.Z, pmax.Z))
	}
	if !found {
		return lo, hi, ErrNoBounds
	}
	return lo, hi, nil
}

// rootNodes returns the nodes to start the walk from.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		sc := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			sc = *doc.Scene
		}
		return doc.Scenes[sc].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

// localTransform returns a node's matrix, or its TRS composition when no
// matrix is set. Zero-valued TRS fields (documents built in code rather than
// decoded) fall back to the glTF defaults.
func localTransform(n *gltf.Node) math3d.Mat4 {
	if n.Matrix != [16]float64{} && n.Matrix != [16]float64(math3d.Identity()) {
		return math3d.Mat4(n.Matrix)
	}

	rot := n.Rotation
	if rot == [4]float64{} {
		rot = [4]float64{0, 0, 0, 1}
	}
	scale := n.Scale
	if scale == [3]float64{} {
		scale = [3]float64{1, 1, 1}
	}
	t := n.Translation
	return math3d.TRS(
		math3d.V3(t[0], t[1], t[2]),
		rot,
		math3d.V3(scale[0], scale[1], scale[2]),
	)
}
