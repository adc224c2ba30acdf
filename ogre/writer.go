package ogre

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func finish(w *bufio.Writer, ew io.WriteCloser) error {
	if err := w.Flush(); err != nil {
		return err
	}
	return ew.Close()
}

// WriteSkeleton writes the .skeleton.xml document of s.
func WriteSkeleton(s *Skeleton, ww io.Writer, enc *Encoding) error {
	ew := enc.NewWriter(ww)
	w := bufio.NewWriter(ew)
	w.WriteString(enc.xmlHeader())
	w.WriteString("<skeleton>\n")

	w.WriteString("\t<bones>\n")
	for _, b := range s.Bones {
		angle, axis := b.Rot.ToAxisAngle()
		fmt.Fprintf(w, "\t\t<bone id=\"%d\" name=\"%s\">\n", b.ID, escape(b.Name))
		fmt.Fprintf(w, "\t\t\t<position x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", b.Loc.X, b.Loc.Y, b.Loc.Z)
		fmt.Fprintf(w, "\t\t\t<rotation angle=\"%.6f\">\n", angle)
		fmt.Fprintf(w, "\t\t\t\t<axis x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", axis.X, axis.Y, axis.Z)
		w.WriteString("\t\t\t</rotation>\n")
		w.WriteString("\t\t</bone>\n")
	}
	w.WriteString("\t</bones>\n")

	w.WriteString("\t<bonehierarchy>\n")
	for _, b := range s.Bones {
		if b.Parent != nil {
			fmt.Fprintf(w, "\t\t<boneparent bone=\"%s\" parent=\"%s\"/>\n", escape(b.Name), escape(b.Parent.Name))
		}
	}
	w.WriteString("\t</bonehierarchy>\n")

	if len(s.Animations) > 0 {
		w.WriteString("\t<animations>\n")
		for _, a := range s.Animations {
			writeAnimation(w, a)
		}
		w.WriteString("\t</animations>\n")
	}
	w.WriteString("</skeleton>\n")
	return finish(w, ew)
}

func writeAnimation(w *bufio.Writer, a *Animation) {
	fmt.Fprintf(w, "\t\t<animation name=\"%s\" length=\"%.6f\">\n", escape(a.Name), a.Duration)
	w.WriteString("\t\t\t<tracks>\n")
	for _, t := range a.Tracks {
		fmt.Fprintf(w, "\t\t\t\t<track bone=\"%s\">\n", escape(t.Bone.Name))
		w.WriteString("\t\t\t\t\t<keyframes>\n")
		for _, k := range t.KeyFrames {
			angle, axis := k.Rot.ToAxisAngle()
			fmt.Fprintf(w, "\t\t\t\t\t\t<keyframe time=\"%.6f\">\n", k.Time)
			fmt.Fprintf(w, "\t\t\t\t\t\t\t<translate x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", k.Loc.X, k.Loc.Y, k.Loc.Z)
			fmt.Fprintf(w, "\t\t\t\t\t\t\t<rotate angle=\"%.6f\">\n", angle)
			fmt.Fprintf(w, "\t\t\t\t\t\t\t\t<axis x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", axis.X, axis.Y, axis.Z)
			w.WriteString("\t\t\t\t\t\t\t</rotate>\n")
			fmt.Fprintf(w, "\t\t\t\t\t\t\t<scale x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", k.Scale.X, k.Scale.Y, k.Scale.Z)
			w.WriteString("\t\t\t\t\t\t</keyframe>\n")
		}
		w.WriteString("\t\t\t\t\t</keyframes>\n")
		w.WriteString("\t\t\t\t</track>\n")
	}
	w.WriteString("\t\t\t</tracks>\n")
	w.WriteString("\t\t</animation>\n")
}

// WriteMesh writes the .mesh.xml document of m. Skinned submeshes keep positions
// and normals in their own vertex buffer.
func WriteMesh(m *Mesh, ww io.Writer, enc *Encoding) error {
	ew := enc.NewWriter(ww)
	w := bufio.NewWriter(ew)
	w.WriteString(enc.xmlHeader())
	w.WriteString("<mesh>\n")
	w.WriteString("\t<submeshes>\n")
	for _, sm := range m.SubMeshes {
		fmt.Fprintf(w, "\t\t<submesh material=\"%s\" usesharedvertices=\"false\" use32bitindexes=\"%v\" operationtype=\"triangle_list\">\n",
			escape(sm.Material), sm.Use32BitIndexes())
		fmt.Fprintf(w, "\t\t\t<faces count=\"%d\">\n", len(sm.Faces))
		for _, f := range sm.Faces {
			fmt.Fprintf(w, "\t\t\t\t<face v1=\"%d\" v2=\"%d\" v3=\"%d\"/>\n", f[0], f[1], f[2])
		}
		w.WriteString("\t\t\t</faces>\n")

		fmt.Fprintf(w, "\t\t\t<geometry vertexcount=\"%d\">\n", len(sm.Vertices))
		if m.Skeleton != "" {
			writeVertexBuffer(w, sm, true, false)
			if sm.HasUV() || sm.HasColours() {
				writeVertexBuffer(w, sm, false, true)
			}
		} else {
			writeVertexBuffer(w, sm, true, true)
		}
		w.WriteString("\t\t\t</geometry>\n")

		if sm.HasInfluences() {
			w.WriteString("\t\t\t<boneassignments>\n")
			for i := range sm.Vertices {
				for _, inf := range sm.VertexInfluences(i) {
					fmt.Fprintf(w, "\t\t\t\t<vertexboneassignment vertexindex=\"%d\" boneindex=\"%d\" weight=\"%.6f\"/>\n",
						i, inf.BoneID, inf.Weight)
				}
			}
			w.WriteString("\t\t\t</boneassignments>\n")
		}
		w.WriteString("\t\t</submesh>\n")
	}
	w.WriteString("\t</submeshes>\n")
	if m.Skeleton != "" {
		fmt.Fprintf(w, "\t<skeletonlink name=\"%s.skeleton\"/>\n", escape(m.Skeleton))
	}
	w.WriteString("</mesh>\n")
	return finish(w, ew)
}

func writeVertexBuffer(w *bufio.Writer, sm *SubMesh, geometry, surface bool) {
	uv := surface && sm.HasUV()
	colours := surface && sm.HasColours()

	w.WriteString("\t\t\t\t<vertexbuffer")
	if geometry {
		w.WriteString(" positions=\"true\" normals=\"true\"")
	}
	if colours {
		w.WriteString(" colours_diffuse=\"true\"")
	}
	if uv {
		w.WriteString(" texture_coord_dimensions_0=\"2\" texture_coords=\"1\"")
	}
	w.WriteString(">\n")
	for _, v := range sm.Vertices {
		w.WriteString("\t\t\t\t\t<vertex>\n")
		if geometry {
			fmt.Fprintf(w, "\t\t\t\t\t\t<position x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", v.Position.X, v.Position.Y, v.Position.Z)
			fmt.Fprintf(w, "\t\t\t\t\t\t<normal x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
		}
		if colours {
			c := v.Colour
			fmt.Fprintf(w, "\t\t\t\t\t\t<colour_diffuse value=\"%.6f %.6f %.6f %.6f\"/>\n", c[0], c[1], c[2], c[3])
		}
		if uv {
			fmt.Fprintf(w, "\t\t\t\t\t\t<texcoord u=\"%.6f\" v=\"%.6f\"/>\n", v.UV.X, v.UV.Y)
		}
		w.WriteString("\t\t\t\t\t</vertex>\n")
	}
	w.WriteString("\t\t\t\t</vertexbuffer>\n")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WriteMaterials writes an OGRE material script. Texture paths are reduced to their base name.
func WriteMaterials(materials []*Material, ww io.Writer, enc *Encoding) error {
	ew := enc.NewWriter(ww)
	w := bufio.NewWriter(ew)
	for _, m := range materials {
		fmt.Fprintf(w, "material %s\n", m.Name)
		w.WriteString("{\n")
		if m.ReceiveShadows != nil {
			if *m.ReceiveShadows {
				w.WriteString("\treceive_shadows on\n")
			} else {
				w.WriteString("\treceive_shadows off\n")
			}
		}
		w.WriteString("\ttechnique\n")
		w.WriteString("\t{\n")
		w.WriteString("\t\tpass\n")
		w.WriteString("\t\t{\n")
		if c := m.Ambient; c != nil {
			fmt.Fprintf(w, "\t\t\tambient %f %f %f\n", clamp01(c[0]), clamp01(c[1]), clamp01(c[2]))
		}
		if c := m.Diffuse; c != nil {
			fmt.Fprintf(w, "\t\t\tdiffuse %f %f %f\n", clamp01(c[0]), clamp01(c[1]), clamp01(c[2]))
		}
		if c := m.Specular; c != nil {
			fmt.Fprintf(w, "\t\t\tspecular %f %f %f %f\n", clamp01(c[0]), clamp01(c[1]), clamp01(c[2]), m.Shininess)
		}
		if c := m.Emissive; c != nil {
			fmt.Fprintf(w, "\t\t\temissive %f %f %f\n", clamp01(c[0]), clamp01(c[1]), clamp01(c[2]))
		}
		if m.DepthFunc != "" {
			fmt.Fprintf(w, "\t\t\tdepth_func %s\n", m.DepthFunc)
		}
		if m.LightingOff {
			w.WriteString("\t\t\tlighting off\n")
		}
		if m.FogOverride {
			w.WriteString("\t\t\tfog_override true\n")
		}
		if m.SceneBlend != "" {
			fmt.Fprintf(w, "\t\t\tscene_blend %s\n", m.SceneBlend)
		}
		if m.Texture != "" {
			w.WriteString("\t\t\ttexture_unit\n")
			w.WriteString("\t\t\t{\n")
			fmt.Fprintf(w, "\t\t\t\ttexture %s\n", path.Base(strings.Replace(m.Texture, "\\", "/", -1)))
			w.WriteString("\t\t\t}\n")
		}
		w.WriteString("\t\t}\n")
		w.WriteString("\t}\n")
		w.WriteString("}\n\n")
	}
	return finish(w, ew)
}
