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

// countAction tallies accepted rows per slot; merge is a sum.
type countAction struct {
	counts []int64
}

func (a *countAction) initSlots(n int) {
	a.counts = make([]int64, n)
}

func (a *countAction) ingest(_ *RowView, slot int) error {
	a.counts[slot]++
	return nil
}

func (a *countAction) finalize() (any, error) {
	var total int64
	for _, c := range a.counts {
		total += c
	}
	return total, nil
}

// Count books an action that counts the rows reaching f.
func Count(f Frame) (*ResultHandle[int64], error) {
	act := &countAction{}
	b, err := f.root.bookAction(f.node, act)
	if err != nil {
		return nil, err
	}
	return newResultHandle[int64](f.root, b), nil
}
