package regress

import (
	"fmt"
	"math"
	"strings"

	"github.com/atgjack/prob"
	"gonum.org/v1/gonum/mat"
)

// Fit is a fitted logistic regression.
type Fit struct {
	Model string
	Names []string
	Coef  []float64
	// StdErr is nil for penalized fits.
	StdErr     []float64
	N          int
	Iterations int
	LogLik     float64
	Penalty    float64
}

// Deviance is -2 times the log-likelihood at the fitted coefficients.
func (f *Fit) Deviance() float64 {
	return -2 * f.LogLik
}

// Coefficient returns the named coefficient, or false when the term is absent.
func (f *Fit) Coefficient(name string) (float64, bool) {
	for j, n := range f.Names {
		if n == name {
			return f.Coef[j], true
		}
	}
	return 0, false
}

// LinearPredictor returns X·b for every row of d. The design must name the fitted terms in order.
func (f *Fit) LinearPredictor(d *Design) ([]float64, error) {
	if len(d.Names) != len(f.Names) {
		return nil, fmt.Errorf("%s: design has %d terms, model has %d", f.Model, len(d.Names), len(f.Names))
	}
	for j, n := range d.Names {
		if n != f.Names[j] {
			return nil, fmt.Errorf("%s: design term %d is \"%s\", model expects \"%s\"", f.Model, j, n, f.Names[j])
		}
	}
	eta := make([]float64, d.Rows())
	if d.Rows() == 0 {
		return eta, nil
	}
	var v mat.VecDense
	v.MulVec(d.Matrix(), mat.NewVecDense(len(f.Coef), f.Coef))
	for i := range eta {
		eta[i] = v.AtVec(i)
	}
	return eta, nil
}

// Predict returns the fitted probability of the positive class for every row of d.
func (f *Fit) Predict(d *Design) ([]float64, error) {
	eta, err := f.LinearPredictor(d)
	if err != nil {
		return nil, err
	}
	for i, e := range eta {
		eta[i] = sigmoid(e)
	}
	return eta, nil
}

// PValues returns two-sided Wald p-values, or nil for penalized fits.
func (f *Fit) PValues() []float64 {
	if f.StdErr == nil {
		return nil
	}
	normal := prob.Normal{Mu: 0, Sigma: 1}
	out := make([]float64, len(f.Coef))
	for j, b := range f.Coef {
		z := b / f.StdErr[j]
		out[j] = 2 * (1 - normal.Cdf(math.Abs(z)))
	}
	return out
}

// String renders a coefficient table.
func (f *Fit) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: n=%d iterations=%d log-likelihood=%.4f", f.Model, f.N, f.Iterations, f.LogLik))
	if f.Penalty > 0 {
		b.WriteString(fmt.Sprintf(" l1-penalty=%.4f", f.Penalty))
	}
	b.WriteString("\n")

	width := 4
	for _, n := range f.Names {
		if len(n) > width {
			width = len(n)
		}
	}
	p := f.PValues()
	if p == nil {
		b.WriteString(fmt.Sprintf("%-*s %12s\n", width, "term", "coef"))
		for j, n := range f.Names {
			b.WriteString(fmt.Sprintf("%-*s %12.5f\n", width, n, f.Coef[j]))
		}
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%-*s %12s %12s %9s %9s\n", width, "term", "coef", "std err", "z", "P>|z|"))
	for j, n := range f.Names {
		b.WriteString(fmt.Sprintf("%-*s %12.5f %12.5f %9.3f %9.4f\n", width, n, f.Coef[j], f.StdErr[j], f.Coef[j]/f.StdErr[j], p[j]))
	}
	return b.String()
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// logLik is the Bernoulli log-likelihood of y under linear predictor eta.
func logLik(y, eta []float64) float64 {
	ll := 0.
	for i, e := range eta {
		// log(1+exp(e)) computed stably
		var softplus float64
		if e > 0 {
			softplus = e + math.Log1p(math.Exp(-e))
		} else {
			softplus = math.Log1p(math.Exp(e))
		}
		ll += y[i]*e - softplus
	}
	return ll
}

func checkResponse(model string, d *Design, y []float64) error {
	if d.Rows() == 0 {
		return fmt.Errorf("%s: no observations", model)
	}
	if len(y) != d.Rows() {
		return fmt.Errorf("%s: %d responses for %d rows", model, len(y), d.Rows())
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("%s: response %d is %g, expected 0 or 1", model, i, v)
		}
	}
	return nil
}
