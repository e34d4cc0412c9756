// Package regress fits logistic regressions: an exact binomial GLM with standard errors,
// and an L1-penalized logit for the regularized models.
package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Term is one named design column.
type Term struct {
	Name   string
	Values []float64
	// Unpenalized excludes the coefficient from the L1 penalty.
	Unpenalized bool
}

// Design is a column-major design matrix with named columns.
type Design struct {
	Names     []string
	Cols      [][]float64
	Penalized []bool
	n         int
}

// NewDesign assembles terms into a design. Every term must have the same length and a
// unique name.
func NewDesign(terms []Term) (*Design, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("design has no terms")
	}
	d := &Design{n: len(terms[0].Values)}
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate term \"%s\"", t.Name)
		}
		seen[t.Name] = true
		if len(t.Values) != d.n {
			return nil, fmt.Errorf("term \"%s\" has %d values, expected %d", t.Name, len(t.Values), d.n)
		}
		d.Names = append(d.Names, t.Name)
		d.Cols = append(d.Cols, t.Values)
		d.Penalized = append(d.Penalized, !t.Unpenalized)
	}
	return d, nil
}

// Rows is the number of observations.
func (d *Design) Rows() int {
	return d.n
}

// Subset returns a design restricted to the given rows, in the given order.
func (d *Design) Subset(rows []int) *Design {
	out := &Design{
		Names:     d.Names,
		Penalized: d.Penalized,
		Cols:      make([][]float64, len(d.Cols)),
		n:         len(rows),
	}
	for j, col := range d.Cols {
		c := make([]float64, len(rows))
		for i, r := range rows {
			c[i] = col[r]
		}
		out.Cols[j] = c
	}
	return out
}

// Matrix returns the design as a dense n×p matrix.
func (d *Design) Matrix() *mat.Dense {
	x := mat.NewDense(d.n, len(d.Cols), nil)
	for j, col := range d.Cols {
		x.SetCol(j, col)
	}
	return x
}

// Index returns the column position of a named term, or -1.
func (d *Design) Index(name string) int {
	for j, n := range d.Names {
		if n == name {
			return j
		}
	}
	return -1
}
