package experiment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/core"
	"statlab/domain/model"
)

// OLSResult holds ordinary-least-squares estimates with classical standard
// errors, suitable for rendering into a coefficient table.
type OLSResult struct {
	Names  []string  `json:"names"`
	Coef   []float64 `json:"coef"`
	StdErr []float64 `json:"std_err"`
	T      []float64 `json:"t"`
	P      []float64 `json:"p"`
	R2     float64   `json:"r2"`
	N      int       `json:"n"`
}

// OLS fits y = X*beta + e by least squares. The design must include its own
// intercept column. A rank-deficient design surfaces as a
// numerical-instability error.
func OLS(x model.Design, y []float64) (*OLSResult, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}
	n, p := x.NumRows(), x.NumCols()
	if len(y) != n {
		return nil, core.NewDimensionError("outcome vector", len(y), n)
	}
	if n <= p {
		return nil, core.ErrInsufficientData
	}

	flat := make([]float64, 0, n*p)
	for _, row := range x.Rows {
		flat = append(flat, row...)
	}
	xm := mat.NewDense(n, p, flat)
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	// Solve the normal equations via QR for numerical stability.
	var qr mat.QR
	qr.Factorize(xm)
	var betaDense mat.Dense
	if err := qr.SolveTo(&betaDense, false, yv); err != nil {
		return nil, core.NewInstabilityError("least-squares solve failed", err)
	}

	coef := make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = betaDense.At(j, 0)
	}

	// Residual variance.
	rss := 0.0
	meanY := 0.0
	for _, yi := range y {
		meanY += yi
	}
	meanY /= float64(n)
	tss := 0.0
	for i, row := range x.Rows {
		fitted := 0.0
		for j, v := range row {
			fitted += v * coef[j]
		}
		resid := y[i] - fitted
		rss += resid * resid
		dev := y[i] - meanY
		tss += dev * dev
	}
	sigma2 := rss / float64(n-p)

	// Coefficient covariance sigma2 * (X'X)^-1.
	var xtx mat.SymDense
	xtx.SymOuterK(1, xm.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, core.NewInstabilityError("design matrix is rank deficient", nil)
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, core.NewInstabilityError("covariance inversion failed", err)
	}

	df := float64(n - p)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	stderr := make([]float64, p)
	tStats := make([]float64, p)
	pVals := make([]float64, p)
	for j := 0; j < p; j++ {
		stderr[j] = math.Sqrt(sigma2 * inv.At(j, j))
		if stderr[j] == 0 {
			return nil, core.NewInstabilityError("zero coefficient standard error", nil)
		}
		tStats[j] = coef[j] / stderr[j]
		pVals[j] = 2 * (1 - tDist.CDF(math.Abs(tStats[j])))
	}

	r2 := 0.0
	if tss > 0 {
		r2 = 1 - rss/tss
	}

	names := x.Names
	if len(names) != p {
		names = make([]string, p)
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
	}

	return &OLSResult{
		Names:  append([]string(nil), names...),
		Coef:   coef,
		StdErr: stderr,
		T:      tStats,
		P:      pVals,
		R2:     r2,
		N:      n,
	}, nil
}
