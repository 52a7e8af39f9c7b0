// Package config builds surfaces from YAML definitions.
//
//	degree_u: 3
//	degree_v: 3
//	knots_u: [0, 0, 0, 0, 1, 1, 1, 1]
//	knots_v: [0, 0, 0, 0, 1, 1, 1, 1]
//	delta: 0.01
//	control_points_file: planar.txt
//
// Control points come either from a file in the ctrlpts layout or inline as
// control_points: [[[x, y, z], ...], ...], indexed [u][v]. Weights are optional
// and use the same indexing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ungerik/go3d/float64/vec3"
	"gopkg.in/yaml.v3"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/ctrlpts"
)

type Definition struct {
	DegreeU int       `yaml:"degree_u"`
	DegreeV int       `yaml:"degree_v"`
	KnotsU  []float64 `yaml:"knots_u"`
	KnotsV  []float64 `yaml:"knots_v"`

	// zero selects nurbs.DefaultDelta
	Delta float64 `yaml:"delta,omitempty"`

	ControlPointsFile string      `yaml:"control_points_file,omitempty"`
	ControlPoints     [][]vec3.T  `yaml:"control_points,omitempty"`
	Weights           [][]float64 `yaml:"weights,omitempty"`
}

// Decode parses a YAML definition. Unknown keys are rejected.
func Decode(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &def, nil
}

// Parse builds a surface from YAML. A relative control_points_file is opened
// relative to the working directory.
func Parse(data []byte) (*nurbs.Surface, error) {
	def, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return def.Surface("")
}

// Load builds a surface from a YAML file. A relative control_points_file is
// resolved against the directory holding path.
func Load(path string) (*nurbs.Surface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	def, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return def.Surface(filepath.Dir(path))
}

// Surface validates the definition and returns the configured surface. dir is
// the base for a relative control_points_file.
func (this *Definition) Surface(dir string) (*nurbs.Surface, error) {
	rows, err := this.controlPoints(dir)
	if err != nil {
		return nil, err
	}

	s, err := nurbs.NewSurface(this.DegreeU, this.DegreeV, rows, this.Weights, this.KnotsU, this.KnotsV)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if this.Delta != 0 {
		if err := s.SetDelta(this.Delta); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	return s, nil
}

func (this *Definition) controlPoints(dir string) ([][]vec3.T, error) {
	switch {
	case this.ControlPointsFile != "" && len(this.ControlPoints) > 0:
		return nil, errors.New("config: control_points and control_points_file are mutually exclusive")
	case len(this.ControlPoints) > 0:
		return this.ControlPoints, nil
	case this.ControlPointsFile == "":
		return nil, errors.New("config: no control points given")
	}

	path := this.ControlPointsFile
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	rows, err := ctrlpts.Read(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return rows, nil
}
