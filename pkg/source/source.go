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

// Package source describes the external collaborator the pipeline graph
// reads rows from, and provides the in-memory, Arrow-backed implementation
// (Memory).  The on-disk trace-file and SQL-table implementations live in
// the lt and sql sub-packages.
package source

import "github.com/paulmach/orb"

// ColumnKind identifies the type of value stored in a branch.
type ColumnKind int

const (
	// KindInt64 identifies a 64-bit signed integer branch.
	KindInt64 ColumnKind = iota
	// KindFloat64 identifies a 64-bit floating point branch.
	KindFloat64
	// KindString identifies a UTF-8 string branch.
	KindString
	// KindBool identifies a boolean branch.
	KindBool
	// KindPoint identifies a planar point (geometry) branch.
	KindPoint
)

// String returns a human-readable name for a column kind, used in
// unsupported-kind error messages and in Fingerprint.
func (k ColumnKind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Cursor iterates over a contiguous, disjoint range of rows of a Source and
// provides typed, random access to the persistent columns at the current
// row.  A Cursor is not safe for concurrent use; the engine never shares one
// across worker slots.
type Cursor interface {
	// Next advances the cursor to the next row in its range, returning false
	// once the range is exhausted.
	Next() bool
	// Row returns the (dataset-global) index of the current row.
	Row() int
	// Int64 reads the named persistent column at the current row.
	Int64(name string) (int64, error)
	// Float64 reads the named persistent column at the current row.
	Float64(name string) (float64, error)
	// String reads the named persistent column at the current row.
	String(name string) (string, error)
	// Bool reads the named persistent column at the current row.
	Bool(name string) (bool, error)
	// Point reads the named persistent column at the current row.
	Point(name string) (orb.Point, error)
}

// Source is the directory-plus-partitioner contract the pipeline graph's
// root node is built from.
type Source interface {
	// ColumnKind returns the kind of the named persistent column, and
	// whether it exists at all.
	ColumnKind(name string) (ColumnKind, bool)
	// Columns returns the persistent column names, in directory order.
	Columns() []string
	// Height returns the number of rows in the dataset.
	Height() int
	// Cursor returns a single cursor ranging over every row, for the
	// single-threaded executor.
	Cursor() (Cursor, error)
	// Partitions splits the dataset into n disjoint, contiguous-row-range
	// cursors, one per requested worker slot.
	Partitions(n int) ([]Cursor, error)
}

// Any reads the named persistent column at the cursor's current row and
// boxes it according to kind.  It is a convenience used by the engine's
// column resolver, which otherwise only knows the declared kind, not the
// concrete Go type.
func Any(cur Cursor, kind ColumnKind, name string) (any, error) {
	switch kind {
	case KindInt64:
		return cur.Int64(name)
	case KindFloat64:
		return cur.Float64(name)
	case KindString:
		return cur.String(name)
	case KindBool:
		return cur.Bool(name)
	case KindPoint:
		return cur.Point(name)
	default:
		return nil, errUnsupportedKind(kind)
	}
}
