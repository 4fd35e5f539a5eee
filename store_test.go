// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.27
//

package gdrop

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSol(gTopCor float64) *DropSol {
	return &DropSol{
		FreeFit: &RegResult{M02: 0.25},
		Ssres:   1.5,
		Z0:      -123456, V0: 1e6, G0: 9.8e9, G0Gr: 9.8e9 - 300,
		H: 1e8, Htop: 1.0001e8, EffZ: 0.99e8,
		GTop: gTopCor - 10, GTopCor: gTopCor,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.RecordDrop(1, 1, true, testSol(9.8e9)))
	require.NoError(t, s.RecordDrop(1, 2, false, testSol(9.9e9)))
	require.NoError(t, s.RecordDrop(1, 3, true, testSol(9.8e9+5)))
	require.NoError(t, s.RecordDrop(2, 1, true, testSol(9.8e9+7)))

	sets, err := s.Sets()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, sets)

	vals, err := s.AcceptedGTopCor(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{9.8e9, 9.8e9 + 5}, vals)

	vals, err = s.AcceptedGTopCor(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{9.8e9 + 7}, vals)

	t.Run("unknown set is empty", func(t *testing.T) {
		vals, err := s.AcceptedGTopCor(99)
		require.NoError(t, err)
		assert.Empty(t, vals)
	})
}

// Reopening the database starts a fresh run: previous results are cleared.
func TestStoreClearsPreviousRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordDrop(1, 1, true, testSol(9.8e9)))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	sets, err := s.Sets()
	require.NoError(t, err)
	assert.Empty(t, sets)
}
