package functions

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// fnUnfold unfolds a measured reco-level spectrum to gen level.
//
// The response matrix has gen bins on x and reco bins on y. Fakes are
// removed from the input by scaling each reco bin with the fraction of the
// reco marginal that the response accounts for. Events lost at reco level
// (gen marginal minus the response's gen projection) go into the reco
// underflow row, so they count towards each gen bin's normalisation
// without being fitted. The resulting system is solved by weighted least
// squares without regularisation.
func fnUnfold(ctx context.Context, args ...interface{}) (interface{}, error) {
	input, err := countsArg("unfold", args, 0)
	if err != nil {
		return nil, err
	}
	obj, err := ObjectArg("unfold", args, 1)
	if err != nil {
		return nil, err
	}
	response, ok := obj.(*binned.Hist2D)
	if !ok {
		return nil, types.UnsupportedTypeError.New("unfold(): the response must be a hist2d, got %s %q", obj.Kind(), obj.Name())
	}
	gen, err := countsArg("unfold", args, 2)
	if err != nil {
		return nil, err
	}
	reco, err := countsArg("unfold", args, 3)
	if err != nil {
		return nil, err
	}

	nGen, nReco := gen.NBins(), reco.NBins()
	if response.XAxis().NBins() != nGen {
		return nil, types.ShapeMismatchError.New("unfold(): response has %d gen bins, gen marginal has %d", response.XAxis().NBins(), nGen)
	}
	if response.YAxis().NBins() != nReco {
		return nil, types.ShapeMismatchError.New("unfold(): response has %d reco bins, reco marginal has %d", response.YAxis().NBins(), nReco)
	}
	if input.NBins() != nReco {
		return nil, types.ShapeMismatchError.New("unfold(): input has %d bins, reco marginal has %d", input.NBins(), nReco)
	}

	// Fake-corrected input and its weights.
	trueReco := response.ProjectionY()
	y := make([]float64, nReco)
	w := make([]float64, nReco)
	for j := 1; j <= nReco; j++ {
		frac := 0.0
		if m := reco.Value(j); m != 0 {
			frac = trueReco.Value(j) / m
		}
		y[j-1] = frac * input.Value(j)
		sigma := frac * input.Error(j)
		w[j-1] = 1
		if sigma != 0 {
			w[j-1] = 1 / (sigma * sigma)
		}
	}

	// Migration probabilities, normalised per gen bin including losses.
	accepted := response.ProjectionX()
	a := mat.NewDense(nReco, nGen, nil)
	for i := 1; i <= nGen; i++ {
		lost := gen.Value(i) - accepted.Value(i)
		norm := lost
		for j := 1; j <= nReco+1; j++ {
			norm += response.At(i, j)
		}
		if norm == 0 {
			continue
		}
		for j := 1; j <= nReco; j++ {
			a.Set(j-1, i-1, response.At(i, j)/norm)
		}
	}

	// x = (AᵀWA)⁻¹ AᵀW y, with covariance (AᵀWA)⁻¹.
	var atw, normal, cov mat.Dense
	atw.Mul(a.T(), mat.NewDiagDense(nReco, w))
	normal.Mul(&atw, a)
	if err := cov.Inverse(&normal); err != nil {
		return nil, types.EvalError.New("unfold(): response matrix cannot be inverted: %v", err)
	}
	var rhs, x mat.VecDense
	rhs.MulVec(&atw, mat.NewVecDense(nReco, y))
	x.MulVec(&cov, &rhs)

	out := binned.NewHist1D(response.Name()+"_unfolded", response.XAxis())
	for i := 1; i <= nGen; i++ {
		out.SetValue(i, x.AtVec(i-1))
		out.SetError(i, math.Sqrt(math.Abs(cov.At(i-1, i-1))))
	}
	return out, nil
}
