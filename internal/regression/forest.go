// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package regression

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ForestConfig holds random forest settings.
type ForestConfig struct {
	// Mtry is the number of predictors sampled as split candidates at each node.
	Mtry int

	// Trees is the number of bootstrap trees.
	Trees int

	// MinN is the minimum number of rows a node needs to be split further.
	MinN int

	// Seed makes bootstrap and feature sampling reproducible.
	Seed int64

	// Workers bounds concurrent tree growth. 0 or 1 grows trees sequentially.
	Workers int
}

// TreeNode is one node of a regression tree. Leaves have Feature -1.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// Tree is a regression tree stored as a node array rooted at index 0.
type Tree struct {
	Nodes []TreeNode
}

// ForestState is the fitted state of a Forest.
type ForestState struct {
	Config   ForestConfig
	Features int
	Trees    []Tree
}

// Forest is a random forest of CART regression trees grown on bootstrap
// samples with variance-reduction splits.
type Forest struct {
	base
	cfg   ForestConfig
	state ForestState
}

// NewForest creates an unfitted random forest.
func NewForest(cfg ForestConfig) *Forest {
	return &Forest{base: base{family: FamilyForest}, cfg: cfg}
}

// Fit grows cfg.Trees trees. Tree t draws from its own seed derived from
// cfg.Seed, so the result does not depend on Workers.
func (f *Forest) Fit(ctx context.Context, x mat.Matrix, y []float64) error {
	n, p, err := checkShape(x, y)
	if err != nil {
		return err
	}
	cfg := f.cfg
	switch {
	case cfg.Mtry < 1 || cfg.Mtry > p:
		return fmt.Errorf("%w: mtry = %d with %d predictors", ErrDegenerate, cfg.Mtry, p)
	case cfg.Trees < 1:
		return fmt.Errorf("%w: trees = %d", ErrDegenerate, cfg.Trees)
	case n < 2:
		return fmt.Errorf("%w: %d training rows", ErrDegenerate, n)
	}

	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = mat.Col(nil, j, x)
	}

	trees := make([]Tree, cfg.Trees)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 1 {
		g.SetLimit(cfg.Workers)
	} else {
		g.SetLimit(1)
	}
	for t := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(DeriveSeed(cfg.Seed, int64(t))))
			trees[t] = growTree(cols, y, bootstrap(n, rng), cfg.Mtry, cfg.MinN, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = ForestState{Config: cfg, Features: p, Trees: trees}
	f.markFitted()
	return nil
}

// Predict averages the tree predictions for each row.
func (f *Forest) Predict(x mat.Matrix) ([]float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.fitted {
		return nil, ErrNotFitted
	}
	n, p := x.Dims()
	if p != f.state.Features {
		return nil, fmt.Errorf("predict: %d columns, model has %d", p, f.state.Features)
	}

	out := make([]float64, n)
	row := make([]float64, p)
	for i := range out {
		mat.Row(row, i, x)
		var sum float64
		for t := range f.state.Trees {
			sum += f.state.Trees[t].predict(row)
		}
		out[i] = sum / float64(len(f.state.Trees))
	}
	return out, nil
}

// State returns the fitted trees.
func (f *Forest) State() (*State, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.fitted {
		return nil, ErrNotFitted
	}
	st := f.state
	return &State{Family: FamilyForest, Forest: &st}, nil
}

func (t *Tree) predict(row []float64) float64 {
	i := 0
	for {
		nd := &t.Nodes[i]
		if nd.Feature < 0 {
			return nd.Value
		}
		if row[nd.Feature] <= nd.Threshold {
			i = nd.Left
		} else {
			i = nd.Right
		}
	}
}

func bootstrap(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// pending is a node waiting to be split.
type pending struct {
	node int
	rows []int
}

// growTree grows one tree on the given rows.
func growTree(cols [][]float64, y []float64, rows []int, mtry, minN int, rng *rand.Rand) Tree {
	p := len(cols)
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	buf := make([]int, len(rows))

	tree := Tree{Nodes: []TreeNode{{Feature: -1}}}
	stack := []pending{{node: 0, rows: rows}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mean := meanOf(y, cur.rows)
		tree.Nodes[cur.node].Value = mean
		if len(cur.rows) < minN || len(cur.rows) < 2 || constant(y, cur.rows) {
			continue
		}

		// Partial Fisher-Yates picks mtry distinct candidate features.
		for k := 0; k < mtry; k++ {
			j := k + rng.Intn(p-k)
			features[k], features[j] = features[j], features[k]
		}

		feat, threshold, ok := bestSplit(cols, y, cur.rows, features[:mtry], buf)
		if !ok {
			continue
		}

		var left, right []int
		for _, r := range cur.rows {
			if cols[feat][r] <= threshold {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
		}

		li := len(tree.Nodes)
		tree.Nodes = append(tree.Nodes, TreeNode{Feature: -1}, TreeNode{Feature: -1})
		nd := &tree.Nodes[cur.node]
		nd.Feature, nd.Threshold, nd.Left, nd.Right = feat, threshold, li, li+1

		stack = append(stack, pending{node: li, rows: left}, pending{node: li + 1, rows: right})
	}
	return tree
}

// bestSplit finds the split maximizing the reduction in squared error among
// the candidate features. ok is false when no candidate has two distinct values.
func bestSplit(cols [][]float64, y []float64, rows, candidates, buf []int) (feat int, threshold float64, ok bool) {
	m := len(rows)
	var total float64
	for _, r := range rows {
		total += y[r]
	}
	bestScore := total * total / float64(m)
	// Require a strict gain relative to the parent.
	bestScore += 1e-12 * math.Abs(bestScore)

	order := buf[:m]
	for _, j := range candidates {
		col := cols[j]
		copy(order, rows)
		sort.Slice(order, func(a, b int) bool { return col[order[a]] < col[order[b]] })

		var sumLeft float64
		for k := 1; k < m; k++ {
			sumLeft += y[order[k-1]]
			lo, hi := col[order[k-1]], col[order[k]]
			if lo == hi {
				continue
			}
			sumRight := total - sumLeft
			score := sumLeft*sumLeft/float64(k) + sumRight*sumRight/float64(m-k)
			if score > bestScore {
				bestScore = score
				feat, ok = j, true
				threshold = lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
			}
		}
	}
	return feat, threshold, ok
}

func meanOf(y []float64, rows []int) float64 {
	var sum float64
	for _, r := range rows {
		sum += y[r]
	}
	return sum / float64(len(rows))
}

func constant(y []float64, rows []int) bool {
	for _, r := range rows[1:] {
		if y[r] != y[rows[0]] {
			return false
		}
	}
	return true
}
