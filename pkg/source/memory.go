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

package source

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb"
)

// Memory is an in-memory Source backed by Apache Arrow columnar arrays.  It
// is the default source used by tests and by callers that already hold
// their dataset in process memory.
type Memory struct {
	names   []string
	kinds   map[string]ColumnKind
	arrays  map[string]arrow.Array
	points  map[string][]orb.Point
	height  int
}

// Builder accumulates typed columns before freezing them into a Memory
// source.  Columns may be added in any order but must all share the same
// height.
type Builder struct {
	alloc  memory.Allocator
	names  []string
	kinds  map[string]ColumnKind
	arrays map[string]arrow.Array
	points map[string][]orb.Point
	height int
	sized  bool
}

// NewBuilder returns an empty Builder using the default Arrow allocator.
func NewBuilder() *Builder {
	return &Builder{
		alloc:  memory.NewGoAllocator(),
		kinds:  make(map[string]ColumnKind),
		arrays: make(map[string]arrow.Array),
		points: make(map[string][]orb.Point),
	}
}

func (b *Builder) checkHeight(n int) error {
	if !b.sized {
		b.height = n
		b.sized = true
		return nil
	}
	if n != b.height {
		return fmt.Errorf("%w: column has %d rows, dataset height is %d", ErrHeightMismatch, n, b.height)
	}
	return nil
}

// AddInt64 registers a fixed-width int64 column.
func (b *Builder) AddInt64(name string, values []int64) error {
	if err := b.checkHeight(len(values)); err != nil {
		return err
	}
	bld := array.NewInt64Builder(b.alloc)
	defer bld.Release()
	bld.AppendValues(values, nil)
	b.register(name, KindInt64, bld.NewArray())
	return nil
}

// AddFloat64 registers a fixed-width float64 column.
func (b *Builder) AddFloat64(name string, values []float64) error {
	if err := b.checkHeight(len(values)); err != nil {
		return err
	}
	bld := array.NewFloat64Builder(b.alloc)
	defer bld.Release()
	bld.AppendValues(values, nil)
	b.register(name, KindFloat64, bld.NewArray())
	return nil
}

// AddString registers a variable-width string column.
func (b *Builder) AddString(name string, values []string) error {
	if err := b.checkHeight(len(values)); err != nil {
		return err
	}
	bld := array.NewStringBuilder(b.alloc)
	defer bld.Release()
	bld.AppendValues(values, nil)
	b.register(name, KindString, bld.NewArray())
	return nil
}

// AddBool registers a fixed-width boolean column.
func (b *Builder) AddBool(name string, values []bool) error {
	if err := b.checkHeight(len(values)); err != nil {
		return err
	}
	bld := array.NewBooleanBuilder(b.alloc)
	defer bld.Release()
	bld.AppendValues(values, nil)
	b.register(name, KindBool, bld.NewArray())
	return nil
}

// AddPoint registers a planar point column.  Arrow has no native point
// type, so these are held as a plain Go slice alongside the Arrow-backed
// columns rather than forced into a struct array.
func (b *Builder) AddPoint(name string, values []orb.Point) error {
	if err := b.checkHeight(len(values)); err != nil {
		return err
	}
	cp := make([]orb.Point, len(values))
	copy(cp, values)
	b.kinds[name] = KindPoint
	b.points[name] = cp
	b.names = append(b.names, name)
	return nil
}

func (b *Builder) register(name string, kind ColumnKind, arr arrow.Array) {
	b.kinds[name] = kind
	b.arrays[name] = arr
	b.names = append(b.names, name)
}

// Build freezes the accumulated columns into an immutable Memory source.
func (b *Builder) Build() *Memory {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return &Memory{
		names:  names,
		kinds:  b.kinds,
		arrays: b.arrays,
		points: b.points,
		height: b.height,
	}
}

// ColumnKind implements Source.
func (m *Memory) ColumnKind(name string) (ColumnKind, bool) {
	k, ok := m.kinds[name]
	return k, ok
}

// Columns implements Source.
func (m *Memory) Columns() []string {
	return m.names
}

// Height implements Source.
func (m *Memory) Height() int {
	return m.height
}

// Cursor implements Source.
func (m *Memory) Cursor() (Cursor, error) {
	return m.Range(0, m.height)
}

// Partitions implements Source, splitting rows into n contiguous,
// near-equal ranges.  Leading ranges absorb the remainder so every
// partition differs in length by at most one row.
func (m *Memory) Partitions(n int) ([]Cursor, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: partition count must be positive, got %d", ErrInvalidPartition, n)
	}
	cursors := make([]Cursor, n)
	base := m.height / n
	rem := m.height % n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		cur, err := m.Range(start, start+size)
		if err != nil {
			return nil, err
		}
		cursors[i] = cur
		start += size
	}
	return cursors, nil
}

// Range returns a cursor over the half-open row interval [lo, hi).
func (m *Memory) Range(lo, hi int) (Cursor, error) {
	if lo < 0 || hi > m.height || lo > hi {
		return nil, fmt.Errorf("%w: [%d,%d) against height %d", ErrInvalidPartition, lo, hi, m.height)
	}
	return &memoryCursor{src: m, lo: lo, hi: hi, row: lo - 1}, nil
}

type memoryCursor struct {
	src *Memory
	lo  int
	hi  int
	row int
}

func (c *memoryCursor) Next() bool {
	c.row++
	return c.row < c.hi
}

func (c *memoryCursor) Row() int {
	return c.row
}

func (c *memoryCursor) Int64(name string) (int64, error) {
	arr, ok := c.src.arrays[name].(*array.Int64)
	if !ok {
		return 0, errUnknownColumn(name)
	}
	return arr.Value(c.row), nil
}

func (c *memoryCursor) Float64(name string) (float64, error) {
	arr, ok := c.src.arrays[name].(*array.Float64)
	if !ok {
		return 0, errUnknownColumn(name)
	}
	return arr.Value(c.row), nil
}

func (c *memoryCursor) String(name string) (string, error) {
	arr, ok := c.src.arrays[name].(*array.String)
	if !ok {
		return "", errUnknownColumn(name)
	}
	return arr.Value(c.row), nil
}

func (c *memoryCursor) Bool(name string) (bool, error) {
	arr, ok := c.src.arrays[name].(*array.Boolean)
	if !ok {
		return false, errUnknownColumn(name)
	}
	return arr.Value(c.row), nil
}

func (c *memoryCursor) Point(name string) (orb.Point, error) {
	pts, ok := c.src.points[name]
	if !ok {
		return orb.Point{}, errUnknownColumn(name)
	}
	return pts[c.row], nil
}
