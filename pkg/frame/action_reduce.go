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

// reduceAction left-folds a user binary function over one column's
// observed values within each slot, seeded by init; slots are then
// merged by applying the same function to the per-slot accumulators in
// slot-index order, also seeded by init.
type reduceAction[T any] struct {
	column string
	init   T
	fn     func(acc, v T) T
	slots  []T
}

func (a *reduceAction[T]) initSlots(n int) {
	a.slots = make([]T, n)
	for i := range a.slots {
		a.slots[i] = a.init
	}
}

func (a *reduceAction[T]) ingest(rv *RowView, slot int) error {
	v, err := get[T](rv, a.column)
	if err != nil {
		return err
	}
	a.slots[slot] = a.fn(a.slots[slot], v)
	return nil
}

func (a *reduceAction[T]) finalize() (any, error) {
	acc := a.init
	for _, s := range a.slots {
		acc = a.fn(acc, s)
	}
	return acc, nil
}

// Reduce books an action that folds fn over column's observed values,
// seeded by init. The same fn merges slot-local accumulators in
// slot-index order, so fn should be associative if the result is to be
// independent of worker count (e.g. a running sum or a running max).
func Reduce[T any](f Frame, column string, init T, fn func(acc, v T) T) (*ResultHandle[T], error) {
	act := &reduceAction[T]{column: column, init: init, fn: fn}
	b, err := f.root.bookAction(f.node, act)
	if err != nil {
		return nil, err
	}
	return newResultHandle[T](f.root, b), nil
}
