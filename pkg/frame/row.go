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
	"github.com/branchframe/branchframe/pkg/source"
)

// Numeric bounds the types usable with arithmetic-reducing actions such as
// Mean.
type Numeric interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// RowView exposes the current row of a single worker slot's cursor to user
// callables.  A RowView is only valid for the duration of the callable
// invocation that received it; callables must not retain one past return.
type RowView struct {
	root *Root
	cur  source.Cursor
	slot int
}

// Row returns the dataset-global index of the row this view observes.
func (rv *RowView) Row() int {
	return rv.cur.Row()
}

// Any resolves the named column — persistent or derived — to a boxed value
// for the current row, evaluating and caching derived columns on demand.
func (rv *RowView) Any(name string) (any, error) {
	return rv.root.resolveColumn(name, rv)
}

// get resolves the named column and asserts it to T, surfacing a
// type-mismatch error identifying the column and the expected/actual
// types on failure.  It is the single choke point every typed accessor
// (Define1..4, Filter1..4, the typed actions) funnels through, so the
// engine needs no reflection and no per-type dispatch at the call sites.
func get[T any](rv *RowView, name string) (T, error) {
	var zero T
	v, err := rv.Any(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, errTypeMismatch(name, zero, v)
	}
	return t, nil
}
