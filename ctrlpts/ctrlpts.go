// Package ctrlpts reads and writes control point nets in a plain text layout:
// one line per u row, points separated by ';' and coordinates by ','.
//
//	0,0,0;0,1,0;0,2,0
//	1,0,0;1,1,0.5;1,2,0
//
// rows[i][j] is the point at u index i and v index j.
package ctrlpts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"
)

var ErrRagged = errors.New("ctrlpts: rows have different lengths")

// ParseError reports the position of a malformed point. Line and Column are 1-based;
// Column counts points within the line.
type ParseError struct {
	Line, Column int
	Err          error
}

func (this *ParseError) Error() string {
	return fmt.Sprintf("ctrlpts: line %d, point %d: %v", this.Line, this.Column, this.Err)
}

func (this *ParseError) Unwrap() error {
	return this.Err
}

// Read parses a control point net. Blank lines are skipped. Every row must hold the
// same number of points.
func Read(r io.Reader) ([][]vec3.T, error) {
	var rows [][]vec3.T
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cells := strings.Split(strings.TrimSuffix(line, ";"), ";")
		row := make([]vec3.T, len(cells))
		for j, cell := range cells {
			pt, err := parsePoint(cell)
			if err != nil {
				return nil, &ParseError{lineNum, j + 1, err}
			}
			row[j] = pt
		}

		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, &ParseError{lineNum, len(row), fmt.Errorf("%w: %d points, expected %d", ErrRagged, len(row), len(rows[0]))}
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}

func parsePoint(cell string) (vec3.T, error) {
	var pt vec3.T

	coords := strings.Split(cell, ",")
	if len(coords) != len(pt) {
		return pt, fmt.Errorf("expected 3 coordinates, got %d in %q", len(coords), cell)
	}

	for i, c := range coords {
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return vec3.T{}, err
		}
		pt[i] = f
	}

	return pt, nil
}

// Write emits rows in the layout Read accepts, one line per row.
func Write(w io.Writer, rows [][]vec3.T) error {
	bw := bufio.NewWriter(w)

	for _, row := range rows {
		for j, pt := range row {
			if j > 0 {
				bw.WriteByte(';')
			}
			for i, c := range pt {
				if i > 0 {
					bw.WriteByte(',')
				}
				bw.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
			}
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
