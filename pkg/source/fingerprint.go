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
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes a source's directory (column names and kinds) and
// height into a single value, stable under column reordering. It is cheap
// enough to compute once per pass and is logged alongside the pass id so
// two runs against what looks like the same dataset can be told apart.
func Fingerprint(src Source) uint64 {
	names := append([]string(nil), src.Columns()...)
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		kind, _ := src.ColumnKind(name)
		fmt.Fprintf(&sb, "%s:%s;", name, kind)
	}
	fmt.Fprintf(&sb, "height=%d", src.Height())
	return xxh3.HashString(sb.String())
}
