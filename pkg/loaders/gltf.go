package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/df07/go-ptrace/pkg/core"
	"github.com/df07/go-ptrace/pkg/geometry"
	"github.com/df07/go-ptrace/pkg/material"
)

// nodeTransform carries a node's position through the scene graph: applying
// it in turn for every ancestor, root-to-node, yields world space.
type nodeTransform func(core.Vec3) core.Vec3

func identityTransform(p core.Vec3) core.Vec3 { return p }

func composeTransform(parent, local nodeTransform) nodeTransform {
	return func(p core.Vec3) core.Vec3 { return parent(local(p)) }
}

// localTransform builds the node's local TRS transform from its decomposed
// translation, rotation quaternion, and non-uniform scale.
func localTransform(node *gltf.Node) nodeTransform {
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()

	translation := core.Vec3{X: t[0], Y: t[1], Z: t[2]}
	rotation := core.NewQuaternion(r[0], r[1], r[2], r[3])
	scale := core.Vec3{X: s[0], Y: s[1], Z: s[2]}

	return func(p core.Vec3) core.Vec3 {
		scaled := core.Vec3{X: p.X * scale.X, Y: p.Y * scale.Y, Z: p.Z * scale.Z}
		return rotation.RotatePoint(scaled).Add(translation)
	}
}

// LoadGLTF opens a .gltf or .glb file and returns the meshes reachable from
// its default scene (or every parentless node, if none is marked default),
// with node transforms baked into world-space vertex positions.
func LoadGLTF(path string) ([]*geometry.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, core.WrapIo(fmt.Errorf("opening gltf %q: %w", path, err))
	}

	textures, err := loadGLTFTextures(doc, filepath.Dir(path))
	if err != nil {
		return nil, core.WrapImport(fmt.Errorf("loading gltf textures: %w", err))
	}

	materials := make([]*material.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		materials[i] = loadGLTFMaterial(gm, textures)
	}
	dummyMaterial := &material.Material{
		BaseColorFactor: core.Vec3{X: 1, Y: 1, Z: 1},
		Brdf:            material.NewMicrofacetBrdf(),
	}

	var meshes []*geometry.Mesh
	visit := func(nodeIndex uint32, parent nodeTransform) {}
	visit = func(nodeIndex uint32, parent nodeTransform) {
		node := doc.Nodes[nodeIndex]
		world := composeTransform(parent, localTransform(node))

		if node.Mesh != nil {
			gmesh := doc.Meshes[*node.Mesh]
			for _, prim := range gmesh.Primitives {
				mat := dummyMaterial
				if prim.Material != nil {
					mat = materials[*prim.Material]
				}
				mesh, err := loadGLTFPrimitive(doc, prim, world, mat)
				if err != nil {
					continue
				}
				meshes = append(meshes, mesh)
			}
		}

		for _, child := range node.Children {
			visit(child, world)
		}
	}

	for _, rootIndex := range rootNodeIndices(doc) {
		visit(rootIndex, identityTransform)
	}

	return meshes, nil
}

// rootNodeIndices returns the default scene's nodes, or every parentless
// node if the document declares no default scene.
func rootNodeIndices(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			hasParent[child] = true
		}
	}
	var roots []uint32
	for i, parented := range hasParent {
		if !parented {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func loadGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, world nodeTransform, mat *material.Material) (*geometry.Mesh, error) {
	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	rawPositions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	positions := make([]core.Vec3, len(rawPositions))
	for i, p := range rawPositions {
		positions[i] = world(core.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
	}

	var uvs []core.Vec2
	if uvIndex, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		rawUVs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvIndex], nil)
		if err == nil {
			uvs = make([]core.Vec2, len(rawUVs))
			for i, uv := range rawUVs {
				uvs[i] = core.Vec2{X: float64(uv[0]), Y: float64(uv[1])}
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return geometry.NewMesh(positions, uvs, indices, mat), nil
}

func loadGLTFMaterial(gm *gltf.Material, textures []*material.TextureRef) *material.Material {
	mat := &material.Material{
		BaseColorFactor: core.Vec3{X: 1, Y: 1, Z: 1},
		SingleSided:     !gm.DoubleSided,
		Brdf:            material.NewMicrofacetBrdf(),
	}

	if gm.EmissiveFactor != [3]float32{} {
		ef := gm.EmissiveFactor
		mat.EmissiveFactor = core.Vec3{X: float64(ef[0]), Y: float64(ef[1]), Z: float64(ef[2])}
	}
	mat.EmissiveTexture = textureRefFromInfo(gm.EmissiveTexture, textures)

	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		mat.NormalTexture = textureRefFromInfo(&gm.NormalTexture.TextureInfo, textures)
	}

	switch gm.AlphaMode {
	case gltf.AlphaMask:
		mat.AlphaMode = material.AlphaMask
		mat.AlphaCutoff = gm.AlphaCutoffOrDefault()
	case gltf.AlphaBlend:
		mat.AlphaMode = material.AlphaBlend
	default:
		mat.AlphaMode = material.AlphaOpaque
	}

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat.BaseColorFactor = core.Vec3{X: float64(cf[0]), Y: float64(cf[1]), Z: float64(cf[2])}
		mat.BaseColorTexture = textureRefFromInfo(pbr.BaseColorTexture, textures)

		mat.MetallicFactor = pbr.MetallicFactorOrDefault()
		mat.RoughnessFactor = pbr.RoughnessFactorOrDefault()
		mat.MetallicRoughnessTexture = textureRefFromInfo(pbr.MetallicRoughnessTexture, textures)
	}

	return mat
}

func textureRefFromInfo(info *gltf.TextureInfo, textures []*material.TextureRef) *material.TextureRef {
	if info == nil || int(info.Index) >= len(textures) {
		return nil
	}
	return textures[info.Index]
}

func loadGLTFTextures(doc *gltf.Document, dir string) ([]*material.TextureRef, error) {
	refs := make([]*material.TextureRef, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		tex, err := decodeGLTFImage(doc, *gt.Source, dir)
		if err != nil {
			return nil, err
		}
		refs[i] = &material.TextureRef{Texture: tex, Sampler: gltfSampler(doc, gt.Sampler)}
	}
	return refs, nil
}

func gltfSampler(doc *gltf.Document, samplerIndex *uint32) material.Sampler {
	s := material.DefaultSampler()
	if samplerIndex == nil || int(*samplerIndex) >= len(doc.Samplers) {
		return s
	}
	gs := doc.Samplers[*samplerIndex]

	if gs.MagFilter == gltf.MagNearest {
		s.Filtering = material.FilterNearest
	}
	s.WrapS = gltfWrapMode(gs.WrapS)
	s.WrapT = gltfWrapMode(gs.WrapT)
	return s
}

func gltfWrapMode(mode gltf.WrappingMode) material.WrapMode {
	switch mode {
	case gltf.WrapClampToEdge:
		return material.WrapClamp
	default:
		return material.WrapRepeat
	}
}

func decodeGLTFImage(doc *gltf.Document, imageIndex uint32, dir string) (*material.Texture, error) {
	img := doc.Images[imageIndex]

	var data []byte
	switch {
	case img.BufferView != nil:
		var err error
		data, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("reading embedded image %d: %w", imageIndex, err)
		}
	case img.IsEmbeddedResource():
		decoded, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("decoding data-URI image %d: %w", imageIndex, err)
		}
		data = decoded
	case img.URI != "":
		raw, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, fmt.Errorf("reading external image %d (%s): %w", imageIndex, img.URI, err)
		}
		data = raw
	default:
		return nil, fmt.Errorf("image %d has neither bufferView nor URI", imageIndex)
	}

	return DecodeImage(data)
}
