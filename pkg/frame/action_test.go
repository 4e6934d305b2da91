// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/branchframe/branchframe/pkg/source"
)

// tenRows builds a ten-row dataset so partitioning into e.g. 4 workers
// produces uneven (3,3,2,2) slot sizes, exercising the remainder-handling
// path of Partitions.
func tenRows(t *testing.T) source.Source {
	t.Helper()
	b := source.NewBuilder()
	vals := make([]int64, 10)
	for i := range vals {
		vals[i] = int64(i + 1)
	}
	require.NoError(t, b.AddInt64("A", vals))
	return b.Build()
}

func TestAction_Take(t *testing.T) {
	root := NewRoot(tenRows(t), "A")
	h, err := Take[int64](root, "A")
	require.NoError(t, err)
	out, err := h.Observe()
	require.NoError(t, err)

	sorted := append([]int64(nil), out...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, sorted)
	require.Len(t, out, 10)
}

func TestAction_MinMax(t *testing.T) {
	root := NewRoot(tenRows(t), "A")
	minH, err := Min[int64](root, "A")
	require.NoError(t, err)
	maxH, err := Max[int64](root, "A")
	require.NoError(t, err)

	min, err := minH.Observe()
	require.NoError(t, err)
	require.Equal(t, int64(1), min)

	max, err := maxH.Observe()
	require.NoError(t, err)
	require.Equal(t, int64(10), max)
}

func TestAction_MinEmptyInput(t *testing.T) {
	root := NewRoot(tenRows(t), "A")
	f, err := Filter1[int64](root, nil, func(a int64) (bool, error) { return false, nil })
	require.NoError(t, err)
	minH, err := Min[int64](f, "A")
	require.NoError(t, err)
	_, err = minH.Observe()
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestAction_Mean(t *testing.T) {
	root := NewRoot(tenRows(t), "A")
	h, err := Mean[int64](root, "A")
	require.NoError(t, err)
	mean, err := h.Observe()
	require.NoError(t, err)
	require.InDelta(t, 5.5, mean, 1e-9)
}

func TestAction_Reduce(t *testing.T) {
	root := NewRoot(tenRows(t), "A")
	h, err := Reduce(root, "A", int64(0), func(acc, v int64) int64 { return acc + v })
	require.NoError(t, err)
	sum, err := h.Observe()
	require.NoError(t, err)
	require.Equal(t, int64(55), sum)
}

func TestAction_Histogram(t *testing.T) {
	root := NewRoot(tenRows(t), "A")
	f, err := Define1[int64, float64](root, "Af", nil, func(a int64) (float64, error) { return float64(a), nil })
	require.NoError(t, err)
	h, err := FillHistogram(f, "Af", NewHistogram(0, 10, 5))
	require.NoError(t, err)
	hist, err := h.Observe()
	require.NoError(t, err)

	require.Equal(t, []int64{1, 2, 2, 2, 2}, hist.Counts)
	require.Equal(t, int64(0), hist.Under)
	require.Equal(t, int64(1), hist.Over) // value 10 lands in the overflow bucket, [0,10) is half-open
}

func TestAction_Foreach(t *testing.T) {
	root := NewRoot(tenRows(t), "A")
	var mu sync.Mutex
	var seen []int64
	h, err := Foreach(root, func(rv *RowView) error {
		v, err := get[int64](rv, "A")
		if err != nil {
			return err
		}
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	_, err = h.Observe()
	require.NoError(t, err)
	require.Len(t, seen, 10)
}

// Single-threaded and parallel execution agree on every action's merged
// result; only the means by which per-slot accumulators are populated
// differs.
func TestSingleThreadedAndParallelAgree(t *testing.T) {
	build := func() (*ResultHandle[int64], *ResultHandle[int64], *ResultHandle[float64]) {
		root := NewRoot(tenRows(t), "A")
		f, err := NamedFilter1[int64](root, "even", nil, func(a int64) (bool, error) { return a%2 == 0, nil })
		require.NoError(t, err)
		count, err := Count(f)
		require.NoError(t, err)
		sum, err := Reduce(f, "A", int64(0), func(acc, v int64) int64 { return acc + v })
		require.NoError(t, err)
		mean, err := Mean[int64](f, "A")
		require.NoError(t, err)
		return count, sum, mean
	}

	EnableImplicitMT(false)
	countST, sumST, meanST := build()
	ctST, err := countST.Observe()
	require.NoError(t, err)
	stST, err := sumST.Observe()
	require.NoError(t, err)
	mnST, err := meanST.Observe()
	require.NoError(t, err)

	EnableImplicitMT(true)
	SetWorkerCount(4)
	countPT, sumPT, meanPT := build()
	ctPT, err := countPT.Observe()
	require.NoError(t, err)
	stPT, err := sumPT.Observe()
	require.NoError(t, err)
	mnPT, err := meanPT.Observe()
	require.NoError(t, err)
	EnableImplicitMT(false)

	require.Equal(t, ctST, ctPT)
	require.Equal(t, stST, stPT)
	require.InDelta(t, mnST, mnPT, 1e-9)
}

func TestResultHandle_Export(t *testing.T) {
	root := NewRoot(fiveRowsForExport(t), "A")
	h, err := Count(root)
	require.NoError(t, err)
	buf, err := h.Export()
	require.NoError(t, err)
	require.NotEmpty(t, buf)
}

func fiveRowsForExport(t *testing.T) source.Source {
	t.Helper()
	b := source.NewBuilder()
	require.NoError(t, b.AddInt64("A", []int64{1, 2, 3, 4, 5}))
	return b.Build()
}
