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

import "github.com/branchframe/branchframe/pkg/util"

// meanAction accumulates a (sum, count) pair per slot; merge sums both
// components component-wise, and the published value is sum/count.
type meanAction[T Numeric] struct {
	column string
	slots  []util.Pair[float64, int64]
}

func (a *meanAction[T]) initSlots(n int) {
	a.slots = make([]util.Pair[float64, int64], n)
}

func (a *meanAction[T]) ingest(rv *RowView, slot int) error {
	v, err := get[T](rv, a.column)
	if err != nil {
		return err
	}
	a.slots[slot].Left += float64(v)
	a.slots[slot].Right++
	return nil
}

func (a *meanAction[T]) finalize() (any, error) {
	var sum float64
	var count int64
	for _, s := range a.slots {
		sum += s.Left
		count += s.Right
	}
	if count == 0 {
		return 0.0, ErrEmptyInput
	}
	return sum / float64(count), nil
}

// Mean books an action that computes the arithmetic mean of column over
// accepted rows, failing with ErrEmptyInput if no row is accepted.
func Mean[T Numeric](f Frame, column string) (*ResultHandle[float64], error) {
	act := &meanAction[T]{column: column}
	b, err := f.root.bookAction(f.node, act)
	if err != nil {
		return nil, err
	}
	return newResultHandle[float64](f.root, b), nil
}
