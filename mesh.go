package nurbs

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/alexozer/nurbs/geom"
)

type Tri [3]int

type Mesh struct {
	Faces   []Tri
	Points  []vec3.T
	Normals []vec3.T
	UVs     []UV
}

//
// Tessellate a NURBS surface on equal spaced intervals in the parametric domain
//
// **returns**
// + Mesh object whose vertices are the samples of Points, two triangles per grid cell,
// wound so that face normals agree with TangentU x TangentV
//
func (this *Surface) Tessellate() (*Mesh, error) {
	grid, err := this.Points()
	if err != nil {
		return nil, err
	}

	numU, numV := grid.NumU(), grid.NumV()
	mesh := &Mesh{
		Faces:   make([]Tri, 0, 2*(numU-1)*(numV-1)),
		Points:  grid.Flat(),
		Normals: make([]vec3.T, 0, grid.Len()),
		UVs:     make([]UV, 0, grid.Len()),
	}

	for iv := 0; iv < numV; iv++ {
		for iu := 0; iu < numU; iu++ {
			uv := grid.UV(iu, iv)
			mesh.UVs = append(mesh.UVs, uv)

			derivs := this.derivatives(uv[0], uv[1], 1)
			normal := vec3.Cross(&derivs[1][0], &derivs[0][1])
			mesh.Normals = append(mesh.Normals, geom.Normalize(normal))
		}
	}

	for iv := 0; iv < numV-1; iv++ {
		for iu := 0; iu < numU-1; iu++ {
			ai := grid.index(iu, iv)
			bi := grid.index(iu+1, iv)
			ci := grid.index(iu+1, iv+1)
			di := grid.index(iu, iv+1)

			mesh.Faces = append(mesh.Faces, Tri{ai, bi, ci}, Tri{ai, ci, di})
		}
	}

	return mesh, nil
}
