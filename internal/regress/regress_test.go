package regress

import (
	"errors"
	"math"
	"testing"

	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// groups builds 100 rows with x=0 of which wins0 are wins and 100 rows with x=1 of which wins1 are wins.
func groups(t *testing.T, wins0, wins1 int) (*Design, []float64) {
	var x, y []float64
	for i := 0; i < 100; i++ {
		x = append(x, 0)
		if i < wins0 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	for i := 0; i < 100; i++ {
		x = append(x, 1)
		if i < wins1 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	d, err := NewDesign([]Term{
		{Name: "Intercept", Values: ones(len(x)), Unpenalized: true},
		{Name: "x", Values: x},
	})
	require.NoError(t, err)
	return d, y
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestNewDesign_Errors(t *testing.T) {
	_, err := NewDesign(nil)
	assert.Error(t, err)
	_, err = NewDesign([]Term{{Name: "a", Values: []float64{1}}, {Name: "a", Values: []float64{2}}})
	assert.Error(t, err)
	_, err = NewDesign([]Term{{Name: "a", Values: []float64{1}}, {Name: "b", Values: []float64{2, 3}}})
	assert.Error(t, err)
}

func TestDesign_Subset(t *testing.T) {
	d, err := NewDesign([]Term{{Name: "a", Values: []float64{1, 2, 3}}, {Name: "b", Values: []float64{4, 5, 6}}})
	require.NoError(t, err)
	s := d.Subset([]int{2, 0})
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, [][]float64{{3, 1}, {6, 4}}, s.Cols)
	assert.Equal(t, 1, d.Index("b"))
	assert.Equal(t, -1, d.Index("c"))
}

func TestFitGLM_RecoversGroupLogOdds(t *testing.T) {
	d, y := groups(t, 30, 70)
	fit, err := FitGLM("glm", d, y, Options{})
	require.NoError(t, err)

	b0, _ := fit.Coefficient("Intercept")
	b1, _ := fit.Coefficient("x")
	assert.InDelta(t, logit(0.3), b0, 1e-6)
	assert.InDelta(t, logit(0.7)-logit(0.3), b1, 1e-6)
	assert.InDelta(t, math.Sqrt(1/21.), fit.StdErr[0], 1e-6)
	assert.InDelta(t, math.Sqrt(2/21.), fit.StdErr[1], 1e-6)

	p := fit.PValues()
	require.Len(t, p, 2)
	assert.Less(t, p[1], 1e-6)

	pred, err := fit.Predict(d)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, pred[0], 1e-6)
	assert.InDelta(t, 0.7, pred[199], 1e-6)

	assert.Contains(t, fit.String(), "P>|z|")
}

func TestFitGLM_Separation(t *testing.T) {
	d, err := NewDesign([]Term{
		{Name: "Intercept", Values: ones(6)},
		{Name: "x", Values: []float64{-3, -2, -1, 1, 2, 3}},
	})
	require.NoError(t, err)
	_, err = FitGLM("separated", d, []float64{0, 0, 0, 1, 1, 1}, Options{})
	var fitErr *lol.ModelFitError
	require.True(t, errors.As(err, &fitErr), "got %v", err)
	assert.Equal(t, "separated", fitErr.Model)
}

func TestFitGLM_Singular(t *testing.T) {
	d, y := groups(t, 30, 70)
	d.Names = append(d.Names, "x2")
	d.Cols = append(d.Cols, d.Cols[1])
	d.Penalized = append(d.Penalized, true)

	_, err := FitGLM("singular", d, y, Options{})
	var fitErr *lol.ModelFitError
	assert.True(t, errors.As(err, &fitErr), "got %v", err)
}

func TestFitGLM_NoConvergence(t *testing.T) {
	d, y := groups(t, 30, 70)
	_, err := FitGLM("short", d, y, Options{MaxIter: 1})
	var fitErr *lol.ModelFitError
	require.True(t, errors.As(err, &fitErr))
	assert.Equal(t, 1, fitErr.Iterations)
}

func TestFitGLM_BadResponse(t *testing.T) {
	d, y := groups(t, 30, 70)
	y[3] = 0.5
	_, err := FitGLM("bad", d, y, Options{})
	assert.Error(t, err)
	_, err = FitGLM("bad", d, y[:10], Options{})
	assert.Error(t, err)
}

func TestFitLogitL1_ZeroPenaltyMatchesGLM(t *testing.T) {
	d, y := groups(t, 30, 70)
	fit, err := FitLogitL1("l1", d, y, 0, Options{})
	require.NoError(t, err)
	assert.Nil(t, fit.StdErr)
	assert.Nil(t, fit.PValues())
	assert.InDelta(t, logit(0.3), fit.Coef[0], 1e-3)
	assert.InDelta(t, logit(0.7)-logit(0.3), fit.Coef[1], 1e-3)
}

func TestFitLogitL1_Shrinkage(t *testing.T) {
	d, y := groups(t, 30, 70)
	prev := math.Inf(1)
	for _, alpha := range []float64{0, 1, 5, 20} {
		fit, err := FitLogitL1("l1", d, y, alpha, Options{})
		require.NoError(t, err)
		b := math.Abs(fit.Coef[1])
		assert.LessOrEqual(t, b, prev+1e-9, "alpha=%g", alpha)
		prev = b
	}

	fit, err := FitLogitL1("l1", d, y, 1e6, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0., fit.Coef[1], "penalized coefficient is zeroed")
	assert.InDelta(t, 0, fit.Coef[0], 1e-6, "unpenalized intercept matches the base rate")
	assert.Equal(t, 0., fit.Penalty)
}

func TestFitLogitL1_NegativePenalty(t *testing.T) {
	d, y := groups(t, 30, 70)
	_, err := FitLogitL1("l1", d, y, -1, Options{})
	assert.Error(t, err)
}

func TestPredict_TermMismatch(t *testing.T) {
	d, y := groups(t, 30, 70)
	fit, err := FitGLM("glm", d, y, Options{})
	require.NoError(t, err)

	other, err := NewDesign([]Term{{Name: "Intercept", Values: ones(2)}, {Name: "z", Values: []float64{0, 1}}})
	require.NoError(t, err)
	_, err = fit.Predict(other)
	assert.Error(t, err)
}
