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
	"cmp"

	"github.com/branchframe/branchframe/pkg/util"
)

// extremumAction tracks the running min or max per slot as an Option,
// empty until the first accepted row in that slot. Merge is element-wise
// extremum across slots, in slot-index order, skipping still-empty
// slots.
type extremumAction[T cmp.Ordered] struct {
	column string
	better func(cur, candidate T) bool
	slots  []util.Option[T]
}

func (a *extremumAction[T]) initSlots(n int) {
	a.slots = make([]util.Option[T], n)
	for i := range a.slots {
		a.slots[i] = util.None[T]()
	}
}

func (a *extremumAction[T]) ingest(rv *RowView, slot int) error {
	v, err := get[T](rv, a.column)
	if err != nil {
		return err
	}
	cur := a.slots[slot]
	if cur.IsEmpty() || a.better(cur.Unwrap(), v) {
		a.slots[slot] = util.Some(v)
	}
	return nil
}

func (a *extremumAction[T]) finalize() (any, error) {
	var best util.Option[T]
	for _, s := range a.slots {
		if s.IsEmpty() {
			continue
		}
		if best.IsEmpty() || a.better(best.Unwrap(), s.Unwrap()) {
			best = s
		}
	}
	if best.IsEmpty() {
		var zero T
		return zero, ErrEmptyInput
	}
	return best.Unwrap(), nil
}

// Min books an action that finds the minimum value of column over
// accepted rows, failing with ErrEmptyInput if no row is accepted.
func Min[T cmp.Ordered](f Frame, column string) (*ResultHandle[T], error) {
	act := &extremumAction[T]{column: column, better: func(cur, candidate T) bool { return candidate < cur }}
	b, err := f.root.bookAction(f.node, act)
	if err != nil {
		return nil, err
	}
	return newResultHandle[T](f.root, b), nil
}

// Max books an action that finds the maximum value of column over
// accepted rows, failing with ErrEmptyInput if no row is accepted.
func Max[T cmp.Ordered](f Frame, column string) (*ResultHandle[T], error) {
	act := &extremumAction[T]{column: column, better: func(cur, candidate T) bool { return candidate > cur }}
	b, err := f.root.bookAction(f.node, act)
	if err != nil {
		return nil, err
	}
	return newResultHandle[T](f.root, b), nil
}
