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
	"errors"
	"fmt"
)

// ErrUnknownColumn indicates a request for a persistent column that does not
// exist in the source's directory.
var ErrUnknownColumn = errors.New("unknown column")

// ErrUnsupportedKind indicates a ColumnKind value this source (or this
// helper) has no case for.
var ErrUnsupportedKind = errors.New("unsupported column kind")

// ErrHeightMismatch indicates a column was added to a Builder with a
// different row count than columns already present.
var ErrHeightMismatch = errors.New("column height mismatch")

// ErrInvalidPartition indicates an invalid partition count or row range was
// requested of a Source.
var ErrInvalidPartition = errors.New("invalid partition")

func errUnsupportedKind(k ColumnKind) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
}

func errUnknownColumn(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}
