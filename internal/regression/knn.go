// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package regression

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// KNNState is the fitted state of a KNN model: the training rows themselves.
type KNNState struct {
	K    int
	Rows [][]float64
	Y    []float64
}

// KNN predicts the mean outcome of the k training rows nearest in Euclidean
// distance. Distance ties are broken by training row order.
type KNN struct {
	base
	k     int
	state KNNState
}

// NewKNN creates an unfitted KNN model with k neighbors.
func NewKNN(k int) *KNN {
	return &KNN{base: base{family: FamilyKNN}, k: k}
}

// Fit stores the training rows. k larger than the number of rows is degenerate.
func (m *KNN) Fit(ctx context.Context, x mat.Matrix, y []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, _, err := checkShape(x, y)
	if err != nil {
		return err
	}
	if m.k < 1 {
		return fmt.Errorf("%w: neighbors = %d", ErrDegenerate, m.k)
	}
	if m.k > n {
		return fmt.Errorf("%w: %d neighbors requested from %d rows", ErrDegenerate, m.k, n)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = KNNState{K: m.k, Rows: rowsOf(x), Y: append([]float64(nil), y...)}
	m.markFitted()
	return nil
}

// Predict averages the outcomes of the k nearest training rows.
func (m *KNN) Predict(x mat.Matrix) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.fitted {
		return nil, ErrNotFitted
	}
	n, p := x.Dims()
	if len(m.state.Rows) > 0 && p != len(m.state.Rows[0]) {
		return nil, fmt.Errorf("predict: %d columns, model has %d", p, len(m.state.Rows[0]))
	}

	type neighbor struct {
		dist float64
		idx  int
	}
	nbrs := make([]neighbor, len(m.state.Rows))
	query := make([]float64, p)
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		mat.Row(query, i, x)
		for t, row := range m.state.Rows {
			var d float64
			for j, v := range row {
				diff := v - query[j]
				d += diff * diff
			}
			nbrs[t] = neighbor{dist: d, idx: t}
		}
		sort.Slice(nbrs, func(a, b int) bool {
			if nbrs[a].dist != nbrs[b].dist {
				return nbrs[a].dist < nbrs[b].dist
			}
			return nbrs[a].idx < nbrs[b].idx
		})

		var sum float64
		for _, nb := range nbrs[:m.state.K] {
			sum += m.state.Y[nb.idx]
		}
		out[i] = sum / float64(m.state.K)
	}
	return out, nil
}

// State returns the stored training rows.
func (m *KNN) State() (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.fitted {
		return nil, ErrNotFitted
	}
	st := m.state
	return &State{Family: FamilyKNN, KNN: &st}, nil
}
