package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/hschendel/stl"
	"github.com/spf13/cobra"
	"github.com/ungerik/go3d/float64/vec3"
	"k8s.io/klog/v2"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/config"
	"github.com/alexozer/nurbs/ctrlpts"
	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

type rootOptions struct {
	configPath string
	delta      float64
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "nurbseval",
		Short:         "Evaluate NURBS surfaces defined in YAML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to the YAML surface definition")
	cmd.PersistentFlags().Float64Var(&opts.delta, "delta", 0, "Parameter step for grids and the normal edge band, overriding the definition (0 keeps it)")
	if err := cmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		newInfoCommand(opts),
		newPointCommand(opts),
		newGridCommand(opts),
		newSTLCommand(opts),
	)

	return cmd
}

func (this *rootOptions) surface() (*nurbs.Surface, error) {
	s, err := config.Load(this.configPath)
	if err != nil {
		return nil, err
	}

	if this.delta != 0 {
		if err := s.SetDelta(this.delta); err != nil {
			return nil, fmt.Errorf("--delta: %w", err)
		}
	}

	klog.V(2).InfoS("loaded surface",
		"config", this.configPath,
		"degreeU", s.DegreeU(), "degreeV", s.DegreeV(),
		"controlPoints", fmt.Sprintf("%dx%d", s.NumControlPointsU(), s.NumControlPointsV()),
		"delta", s.Delta())

	return s, nil
}

func newInfoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the surface: degrees, knot vectors and control net",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.surface()
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), s)
		},
	}
}

func writeInfo(w io.Writer, s *nurbs.Surface) error {
	bb := s.ControlBounds()

	fmt.Fprintf(w, "degree: %d x %d\n", s.DegreeU(), s.DegreeV())
	fmt.Fprintf(w, "control points: %d x %d\n", s.NumControlPointsU(), s.NumControlPointsV())
	fmt.Fprintf(w, "knots u: %s\n", formatMultiplicities(s.KnotsU()))
	fmt.Fprintf(w, "knots v: %s\n", formatMultiplicities(s.KnotsV()))
	fmt.Fprintf(w, "clamped: %t\n", s.IsClamped())
	fmt.Fprintf(w, "delta: %v\n", s.Delta())
	fmt.Fprintf(w, "control bounds: %s - %s\n", formatVec(bb.Min), formatVec(bb.Max))
	axis := bb.LongestAxis()
	_, err := fmt.Fprintf(w, "longest axis: %c %g\n", "xyz"[axis], bb.AxisLength(axis))
	return err
}

// formatMultiplicities renders a knot vector as value^multiplicity pairs, e.g. "0^4 0.5 1^4".
func formatMultiplicities(knots []float64) string {
	var out string
	for i, m := range internal.KnotVec(knots).Multiplicities() {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprint(m.Knot)
		if m.Mult > 1 {
			out += fmt.Sprintf("^%d", m.Mult)
		}
	}
	return out
}

func formatVec(v vec3.T) string {
	return fmt.Sprintf("%g %g %g", v[0], v[1], v[2])
}

type pointOptions struct {
	derivs int
	normal bool
}

func newPointCommand(root *rootOptions) *cobra.Command {
	opts := pointOptions{}

	cmd := &cobra.Command{
		Use:   "point U V",
		Short: "Evaluate a single surface point, optionally with derivatives and the unit normal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("u: %w", err)
			}
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("v: %w", err)
			}

			s, err := root.surface()
			if err != nil {
				return err
			}
			return writePoint(cmd.OutOrStdout(), s, u, v, opts)
		},
	}

	cmd.Flags().IntVar(&opts.derivs, "derivs", 0, "Print partial derivatives up to this total order")
	cmd.Flags().BoolVar(&opts.normal, "normal", false, "Print the unit normal")
	return cmd
}

func writePoint(w io.Writer, s *nurbs.Surface, u, v float64, opts pointOptions) error {
	pt, err := s.Point(u, v)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "point: %s\n", formatVec(pt))

	if opts.derivs > 0 {
		skl, err := s.Derivatives(u, v, opts.derivs)
		if err != nil {
			return err
		}
		for k := range skl {
			for l := 0; l <= opts.derivs-k; l++ {
				if k+l == 0 {
					continue
				}
				fmt.Fprintf(w, "d%d,%d: %s\n", k, l, formatVec(skl[k][l]))
			}
		}
	}

	if opts.normal {
		n, err := s.UnitNormal(u, v, geom.DefaultTolerance)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "normal: %s\n", formatVec(n))
	}

	return nil
}

func newGridCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Sample the surface on the delta lattice and write it in control point layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.surface()
			if err != nil {
				return err
			}

			start := time.Now()
			grid, err := s.Evaluate()
			if err != nil {
				return err
			}
			klog.V(1).InfoS("evaluated grid", "numU", grid.NumU(), "numV", grid.NumV(), "elapsed", time.Since(start))

			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return ctrlpts.Write(w, grid.Rows())
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	return cmd
}

type stlOptions struct {
	output string
	name   string
	ascii  bool
}

func newSTLCommand(root *rootOptions) *cobra.Command {
	opts := stlOptions{}

	cmd := &cobra.Command{
		Use:   "stl",
		Short: "Tessellate the evaluated grid and write it as STL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				return errors.New("--output is required")
			}

			s, err := root.surface()
			if err != nil {
				return err
			}

			mesh, err := s.Tessellate()
			if err != nil {
				return err
			}

			solid := toSolid(mesh, opts.name)
			solid.IsAscii = opts.ascii
			klog.V(1).InfoS("tessellated surface", "triangles", len(solid.Triangles), "output", opts.output)

			return writeOutput(cmd.OutOrStdout(), opts.output, solid.WriteAll)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file, - for stdout")
	cmd.Flags().StringVar(&opts.name, "name", "nurbs", "Solid name written to the STL header")
	cmd.Flags().BoolVar(&opts.ascii, "ascii", false, "Write ASCII instead of binary STL")
	return cmd
}

// toSolid converts a mesh to STL triangles. Facet normals come from the triangle
// winding; degenerate triangles get a zero normal.
func toSolid(mesh *nurbs.Mesh, name string) *stl.Solid {
	solid := &stl.Solid{
		Name:      name,
		Triangles: make([]stl.Triangle, 0, len(mesh.Faces)),
	}

	for _, f := range mesh.Faces {
		a, b, c := mesh.Points[f[0]], mesh.Points[f[1]], mesh.Points[f[2]]
		n := geom.Normalize(geom.Cross(geom.Sub(b, a), geom.Sub(c, a)))

		solid.Triangles = append(solid.Triangles, stl.Triangle{
			Normal:   toSTLVec(n),
			Vertices: [3]stl.Vec3{toSTLVec(a), toSTLVec(b), toSTLVec(c)},
		})
	}

	return solid
}

func toSTLVec(v vec3.T) stl.Vec3 {
	return stl.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
