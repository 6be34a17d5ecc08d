// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package regression

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// rankTolerance is the relative singular value cutoff for the effective rank.
const rankTolerance = 1e-10

// LinearState is the fitted state of a Linear model.
type LinearState struct {
	Intercept    float64
	Coefficients []float64
	Rank         int
}

// Linear is ordinary least squares with an intercept. Rank-deficient designs
// get the minimum-norm solution, so aliased dummy columns share weight
// instead of failing the fit.
type Linear struct {
	base
	state LinearState
}

// NewLinear creates an unfitted linear model.
func NewLinear() *Linear {
	return &Linear{base: base{family: FamilyLinear}}
}

// Fit solves min ||[1 X]b - y|| via a thin SVD.
func (l *Linear) Fit(ctx context.Context, x mat.Matrix, y []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, p, err := checkShape(x, y)
	if err != nil {
		return err
	}

	design := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, x.At(i, j))
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return fmt.Errorf("%w: SVD factorization failed", ErrDegenerate)
	}
	rank := svd.Rank(rankTolerance)
	if rank == 0 {
		return fmt.Errorf("%w: design matrix has rank 0", ErrDegenerate)
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, mat.NewVecDense(n, append([]float64(nil), y...)), rank)

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j + 1)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = LinearState{Intercept: beta.AtVec(0), Coefficients: coef, Rank: rank}
	l.markFitted()
	return nil
}

// Predict returns intercept + x·coefficients for each row.
func (l *Linear) Predict(x mat.Matrix) ([]float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.fitted {
		return nil, ErrNotFitted
	}
	n, p := x.Dims()
	if p != len(l.state.Coefficients) {
		return nil, fmt.Errorf("predict: %d columns, model has %d", p, len(l.state.Coefficients))
	}

	out := make([]float64, n)
	for i := range out {
		v := l.state.Intercept
		for j, c := range l.state.Coefficients {
			v += c * x.At(i, j)
		}
		out[i] = v
	}
	return out, nil
}

// State returns the fitted coefficients.
func (l *Linear) State() (*State, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.fitted {
		return nil, ErrNotFitted
	}
	st := l.state
	st.Coefficients = append([]float64(nil), st.Coefficients...)
	return &State{Family: FamilyLinear, Linear: &st}, nil
}
