package regress

import (
	"math"

	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Options bound the iterative fitters.
type Options struct {
	MaxIter int
	Tol     float64
}

// DefaultOptions are used when a field is left zero.
var DefaultOptions = Options{MaxIter: 100, Tol: 1e-8}

func (o Options) withDefaults() Options {
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultOptions.MaxIter
	}
	if o.Tol <= 0 {
		o.Tol = DefaultOptions.Tol
	}
	return o
}

// separationTol is how close every fitted probability may come to its label before
// the data are declared perfectly separated.
const separationTol = 1e-6

// FitGLM fits an unpenalized binomial GLM with logit link by iteratively reweighted
// least squares. Divergence, a singular information matrix or perfect separation are
// reported as *lol.ModelFitError.
func FitGLM(model string, d *Design, y []float64, opts Options) (*Fit, error) {
	if err := checkResponse(model, d, y); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	n, p := d.Rows(), len(d.Cols)
	x := d.Matrix()

	beta := mat.NewVecDense(p, nil)
	eta := make([]float64, n)
	w := make([]float64, n)
	wz := make([]float64, n)
	dev := -2 * logLik(y, eta)

	var chol mat.Cholesky
	converged := false
	iter := 0
	for iter < opts.MaxIter {
		iter++
		for i, e := range eta {
			mu := sigmoid(e)
			w[i] = math.Max(mu*(1-mu), 1e-12)
			wz[i] = w[i]*e + (y[i] - mu)
		}

		if ok := chol.Factorize(information(x, w)); !ok {
			return nil, &lol.ModelFitError{Model: model, Iterations: iter, Reason: "information matrix is singular"}
		}
		var rhs mat.VecDense
		rhs.MulVec(x.T(), mat.NewVecDense(n, wz))
		if err := chol.SolveVecTo(beta, &rhs); err != nil {
			return nil, &lol.ModelFitError{Model: model, Iterations: iter, Reason: "solving normal equations", Err: err}
		}

		var etaVec mat.VecDense
		etaVec.MulVec(x, beta)
		copy(eta, etaVec.RawVector().Data)
		newDev := -2 * logLik(y, eta)
		if math.IsNaN(newDev) || math.IsInf(newDev, 0) {
			return nil, &lol.ModelFitError{Model: model, Iterations: iter, Reason: "deviance is not finite"}
		}
		change := math.Abs(newDev-dev) / (math.Abs(newDev) + 0.1)
		dev = newDev
		if change < opts.Tol {
			converged = true
			break
		}
	}
	if !converged {
		return nil, &lol.ModelFitError{Model: model, Iterations: iter, Reason: "did not converge"}
	}
	if separated(y, eta) {
		return nil, &lol.ModelFitError{Model: model, Iterations: iter, Reason: "perfect separation, every fitted probability equals its outcome"}
	}

	// standard errors from the inverse information at the solution
	for i, e := range eta {
		mu := sigmoid(e)
		w[i] = mu * (1 - mu)
	}
	if ok := chol.Factorize(information(x, w)); !ok {
		return nil, &lol.ModelFitError{Model: model, Iterations: iter, Reason: "information matrix is singular at the solution"}
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, &lol.ModelFitError{Model: model, Iterations: iter, Reason: "inverting information matrix", Err: err}
	}

	coef := make([]float64, p)
	se := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j)
		se[j] = math.Sqrt(cov.At(j, j))
	}
	return &Fit{
		Model:      model,
		Names:      d.Names,
		Coef:       coef,
		StdErr:     se,
		N:          n,
		Iterations: iter,
		LogLik:     -dev / 2,
	}, nil
}

// information returns X'WX.
func information(x *mat.Dense, w []float64) *mat.SymDense {
	n, p := x.Dims()
	xw := mat.DenseCopyOf(x)
	for i := 0; i < n; i++ {
		floats.Scale(w[i], xw.RawRowView(i))
	}
	var g mat.Dense
	g.Mul(x.T(), xw)
	info := mat.NewSymDense(p, nil)
	for a := 0; a < p; a++ {
		for b := a; b < p; b++ {
			info.SetSym(a, b, g.At(a, b))
		}
	}
	return info
}

func separated(y, eta []float64) bool {
	for i, e := range eta {
		if math.Abs(sigmoid(e)-y[i]) > separationTol {
			return false
		}
	}
	return true
}
