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

// Package lt reads and writes a binary trace-file format holding
// fixed-width int64/float64/bool columns, one file per dataset, with an
// optional zstd-compressed column body.
package lt

import "github.com/branchframe/branchframe/pkg/source"

// magic identifies a branchframe trace file; present at byte offset 0.
const magic = "BFLT"

// version is bumped whenever the header or column-record layout changes
// incompatibly.
const version = uint32(1)

// columnKind mirrors source.ColumnKind for the subset this format
// supports; trace files are fixed-width only, so string and point
// columns have no on-disk representation here.
type columnKind = source.ColumnKind

const (
	kindInt64   = source.KindInt64
	kindFloat64 = source.KindFloat64
	kindBool    = source.KindBool
)

// columnHeader describes one column's on-disk layout within the file.
type columnHeader struct {
	Name       string
	Kind       columnKind
	Compressed bool
	Offset     int64
	Length     int64 // byte length on disk (after compression, if any)
}

// fileHeader is the trace file's table of contents, serialised before
// the column bodies.
type fileHeader struct {
	Version uint32
	Height  int64
	Columns []columnHeader
}
