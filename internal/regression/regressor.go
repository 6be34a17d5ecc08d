// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package regression

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDegenerate is returned when the training data cannot support a configuration.
	ErrDegenerate = errors.New("degenerate training data")

	// ErrNotFitted is returned when predicting with an unfitted model.
	ErrNotFitted = errors.New("model not fitted")
)

// Family identifies a model family.
type Family string

// Model families.
const (
	FamilyLinear Family = "linear_reg"
	FamilyKNN    Family = "nearest_neighbor"
	FamilyForest Family = "rand_forest"
)

// Families lists every family in report order.
var Families = []Family{FamilyLinear, FamilyKNN, FamilyForest}

// Params holds the hyperparameters of one configuration. Only the fields of
// the configuration's family are used.
type Params struct {
	Neighbors int `json:"neighbors,omitempty"`
	Mtry      int `json:"mtry,omitempty"`
	Trees     int `json:"trees,omitempty"`
	MinN      int `json:"min_n,omitempty"`
}

// String renders the hyperparameters of family f.
func (p Params) String(f Family) string {
	switch f {
	case FamilyKNN:
		return fmt.Sprintf("neighbors=%d", p.Neighbors)
	case FamilyForest:
		return fmt.Sprintf("mtry=%d trees=%d min_n=%d", p.Mtry, p.Trees, p.MinN)
	default:
		return "none"
	}
}

// Regressor is a fitted-or-unfitted regression model.
type Regressor interface {
	// Family returns the model family.
	Family() Family

	// Fit trains the model on x (n rows) and y (n values).
	Fit(ctx context.Context, x mat.Matrix, y []float64) error

	// Predict returns one prediction per row of x.
	Predict(x mat.Matrix) ([]float64, error)

	// State returns a serializable snapshot of a fitted model.
	State() (*State, error)
}

type options struct {
	seed    int64
	workers int
}

// Option configures New.
type Option func(*options)

// WithSeed sets the random seed of stochastic models.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithWorkers bounds the goroutines a model may use while fitting.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// New creates an unfitted model of family f.
func New(f Family, p Params, opts ...Option) (Regressor, error) {
	o := options{seed: 42, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case FamilyLinear:
		return NewLinear(), nil
	case FamilyKNN:
		return NewKNN(p.Neighbors), nil
	case FamilyForest:
		return NewForest(ForestConfig{
			Mtry:    p.Mtry,
			Trees:   p.Trees,
			MinN:    p.MinN,
			Seed:    o.seed,
			Workers: o.workers,
		}), nil
	default:
		return nil, fmt.Errorf("unknown model family %q", f)
	}
}

// base provides common state for all models.
type base struct {
	family Family
	fitted bool
	mu     sync.RWMutex
}

// Family returns the model family.
func (b *base) Family() Family {
	return b.family
}

// markFitted must be called with mu held.
func (b *base) markFitted() {
	b.fitted = true
}

// checkShape validates x against y and returns the dimensions.
func checkShape(x mat.Matrix, y []float64) (n, p int, err error) {
	if x == nil {
		return 0, 0, fmt.Errorf("%w: no design matrix", ErrDegenerate)
	}
	n, p = x.Dims()
	if n != len(y) {
		return 0, 0, fmt.Errorf("design matrix has %d rows but %d outcomes", n, len(y))
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: no training rows", ErrDegenerate)
	}
	return n, p, nil
}

// rowsOf copies x into row-major slices.
func rowsOf(x mat.Matrix) [][]float64 {
	n, _ := x.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, x)
	}
	return out
}

// DeriveSeed mixes base with parts into a new seed (splitmix64 finalizer),
// so each (configuration, fold) pair gets an independent reproducible stream.
func DeriveSeed(base int64, parts ...int64) int64 {
	h := uint64(base)
	for _, p := range parts {
		h ^= uint64(p) + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
		h = splitmix(h)
	}
	return int64(splitmix(h) >> 1)
}

func splitmix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
