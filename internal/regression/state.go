// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package regression

import "fmt"

// State is a serializable snapshot of a fitted model. Exactly one of the
// family-specific fields is set.
type State struct {
	Family Family
	Linear *LinearState
	KNN    *KNNState
	Forest *ForestState
}

// Restore rebuilds a fitted model from its state.
func Restore(st *State) (Regressor, error) {
	if st == nil {
		return nil, fmt.Errorf("restore: nil state")
	}

	switch st.Family {
	case FamilyLinear:
		if st.Linear == nil {
			return nil, fmt.Errorf("restore: missing linear state")
		}
		m := NewLinear()
		m.state = *st.Linear
		m.markFitted()
		return m, nil
	case FamilyKNN:
		if st.KNN == nil {
			return nil, fmt.Errorf("restore: missing knn state")
		}
		m := NewKNN(st.KNN.K)
		m.state = *st.KNN
		m.markFitted()
		return m, nil
	case FamilyForest:
		if st.Forest == nil || len(st.Forest.Trees) == 0 {
			return nil, fmt.Errorf("restore: missing forest state")
		}
		m := NewForest(st.Forest.Config)
		m.state = *st.Forest
		m.markFitted()
		return m, nil
	default:
		return nil, fmt.Errorf("restore: unknown model family %q", st.Family)
	}
}
